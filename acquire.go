package dgm

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
)

const downloaderUserAgent = "go-dgm/1.0"

// A Downloader fetches dataset archives over HTTP with a bounded number of
// attempts and a fixed sleep between them.
type Downloader struct {
	client   *http.Client
	attempts int
	backoff  time.Duration
	progress bool
	logger   *slog.Logger
}

// A DownloaderOption sets an option on a Downloader.
type DownloaderOption func(*Downloader)

func WithAttempts(attempts int) DownloaderOption {
	return func(d *Downloader) {
		d.attempts = attempts
	}
}

func WithBackoff(backoff time.Duration) DownloaderOption {
	return func(d *Downloader) {
		d.backoff = backoff
	}
}

func WithHTTPClient(client *http.Client) DownloaderOption {
	return func(d *Downloader) {
		d.client = client
	}
}

func WithProgress(progress bool) DownloaderOption {
	return func(d *Downloader) {
		d.progress = progress
	}
}

func WithDownloaderLogger(logger *slog.Logger) DownloaderOption {
	return func(d *Downloader) {
		d.logger = logger
	}
}

// NewDownloader returns a new Downloader with the given options.
func NewDownloader(options ...DownloaderOption) *Downloader {
	d := &Downloader{
		client: &http.Client{
			Timeout: 10 * time.Minute,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				ResponseHeaderTimeout: 30 * time.Second,
			},
		},
		attempts: 3,
		backoff:  2 * time.Second,
		logger:   slog.Default(),
	}
	for _, option := range options {
		option(d)
	}
	return d
}

// Download fetches url into destPath. If destPath already exists it is left
// untouched. Failed attempts are retried up to the configured attempt count;
// the last error is returned once attempts are exhausted.
func (d *Downloader) Download(ctx context.Context, url, destPath string) error {
	if _, err := os.Stat(destPath); err == nil {
		d.logger.Info("archive already present", "path", destPath)
		return nil
	}

	var lastErr error
	for attempt := 0; attempt < d.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(d.backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := d.download(ctx, url, destPath); err != nil {
			d.logger.Warn("download failed", "url", url, "attempt", attempt+1, "err", err)
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("download %s: %w", url, lastErr)
}

func (d *Downloader) download(ctx context.Context, url, destPath string) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	request.Header.Set("User-Agent", downloaderUserAgent)

	response, err := d.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", response.Status)
	}

	// Write to a temporary file first so an interrupted download is never
	// mistaken for a complete archive.
	tempPath := destPath + ".part"
	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	var writer io.Writer = file
	if d.progress {
		bar := progressbar.DefaultBytes(response.ContentLength, "downloading")
		writer = io.MultiWriter(file, bar)
	}

	if _, err := io.Copy(writer, response.Body); err != nil {
		file.Close()
		os.Remove(tempPath)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}
	return os.Rename(tempPath, destPath)
}

// ExtractZip expands the zip archive at archivePath into destDir.
func ExtractZip(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, file := range reader.File {
		destPath := filepath.Join(destDir, file.Name)
		if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal path in archive: %s", file.Name)
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return err
		}
		if err := extractZipFile(file, destPath); err != nil {
			return err
		}
	}
	return nil
}

func extractZipFile(file *zip.File, destPath string) error {
	source, err := file.Open()
	if err != nil {
		return err
	}
	defer source.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dest, source); err != nil {
		dest.Close()
		return err
	}
	return dest.Close()
}

// EnsureHamburgDataset downloads and extracts the Hamburg DGM archive for the
// given resolution into cacheDir, unless it is already present. A failure here
// is fatal to provider construction: the dataset is a hard dependency.
func EnsureHamburgDataset(ctx context.Context, d *Downloader, cacheDir string, resolution int) error {
	if _, ok := hamburgReleaseDirs[resolution]; !ok {
		return fmt.Errorf("unsupported resolution: %dm", resolution)
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return err
	}

	releaseDir := filepath.Join(cacheDir, hamburgReleaseDirs[resolution])
	if _, err := os.Stat(releaseDir); err == nil {
		return nil
	}

	archivePath := filepath.Join(cacheDir, fmt.Sprintf("HH_Elevation_dgm%d.zip", resolution))
	if err := d.Download(ctx, HamburgDownloadURL(resolution), archivePath); err != nil {
		return err
	}
	return ExtractZip(archivePath, cacheDir)
}
