package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/norddata/go-dgm"
)

func run() error {
	cacheDir := flag.String("cache-dir", os.Getenv("DGM_CACHE_DIR"), "path to the DGM dataset cache")
	resolution := flag.Int("resolution", 25, "grid resolution in meters (1, 10 or 25)")
	download := flag.Bool("download", false, "download and extract the dataset if missing")
	snapped := flag.Bool("snapped", false, "snap to the nearest sample instead of interpolating")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if flag.NArg() != 2 {
		return errors.New("syntax: dgm-elevation latitude longitude")
	}
	lat, err := strconv.ParseFloat(flag.Arg(0), 64)
	if err != nil {
		return err
	}
	lon, err := strconv.ParseFloat(flag.Arg(1), 64)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	if *cacheDir == "" {
		*cacheDir = "/tmp/dgm"
	}

	if *download {
		downloader := dgm.NewDownloader(dgm.WithProgress(true))
		if err := dgm.EnsureHamburgDataset(context.Background(), downloader, *cacheDir, *resolution); err != nil {
			return err
		}
	}

	interpolation := dgm.Bilinear
	if *snapped {
		interpolation = dgm.Snapped
	}
	service, err := dgm.NewHamburgElevationService(
		os.DirFS(*cacheDir),
		*resolution,
		dgm.WithInterpolation(interpolation),
	)
	if err != nil {
		return err
	}
	defer service.Release()

	fmt.Println(service.Elevation(lat, lon))
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
