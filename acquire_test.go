package dgm_test

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	dgm "github.com/norddata/go-dgm"
)

func TestDownloader_RetriesUntilSuccess(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "archive.zip")
	downloader := dgm.NewDownloader(dgm.WithBackoff(0))
	assert.NoError(t, downloader.Download(context.Background(), server.URL, destPath))
	assert.Equal(t, 3, requests)

	data, err := os.ReadFile(destPath)
	assert.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestDownloader_ExhaustsAttempts(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "archive.zip")
	downloader := dgm.NewDownloader(dgm.WithAttempts(2), dgm.WithBackoff(0))
	assert.Error(t, downloader.Download(context.Background(), server.URL, destPath))
	assert.Equal(t, 2, requests)

	_, err := os.Stat(destPath)
	assert.Error(t, err)
}

func TestDownloader_SkipsExistingFile(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "archive.zip")
	assert.NoError(t, os.WriteFile(destPath, []byte("existing"), 0o644))

	downloader := dgm.NewDownloader()
	assert.NoError(t, downloader.Download(context.Background(), server.URL, destPath))
	assert.Equal(t, 0, requests)
}

func writeTestZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	assert.NoError(t, err)
	writer := zip.NewWriter(f)
	for name, content := range files {
		w, err := writer.Create(name)
		assert.NoError(t, err)
		_, err = w.Write([]byte(content))
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())
	assert.NoError(t, f.Close())
}

func TestExtractZip(t *testing.T) {
	tempDir := t.TempDir()
	archivePath := filepath.Join(tempDir, "archive.zip")
	writeTestZip(t, archivePath, map[string]string{
		"dgm25_hh_2000/s32_551/dgm25_32_551_5930_1_hh.xyz": "551100.00 5930000.00 12.50\n",
		"readme.txt": "hello",
	})

	destDir := filepath.Join(tempDir, "extracted")
	assert.NoError(t, dgm.ExtractZip(archivePath, destDir))

	data, err := os.ReadFile(filepath.Join(destDir, "dgm25_hh_2000/s32_551/dgm25_32_551_5930_1_hh.xyz"))
	assert.NoError(t, err)
	assert.Equal(t, "551100.00 5930000.00 12.50\n", string(data))

	data, err = os.ReadFile(filepath.Join(destDir, "readme.txt"))
	assert.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestExtractZip_RejectsPathTraversal(t *testing.T) {
	tempDir := t.TempDir()
	archivePath := filepath.Join(tempDir, "archive.zip")
	writeTestZip(t, archivePath, map[string]string{
		"../evil.txt": "escape",
	})

	destDir := filepath.Join(tempDir, "extracted")
	assert.Error(t, dgm.ExtractZip(archivePath, destDir))
}
