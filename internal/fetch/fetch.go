// Package fetch downloads remote media sources into the working directory.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

// Download fetches the media at rawURL into destDir and returns the saved
// path. Transient network failures are retried with backoff; HTTP error
// statuses are not. The file extension is taken from the URL path and
// corrected by content sniffing when the server lies about it.
func Download(ctx context.Context, rawURL, destDir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid source URL %q", rawURL)
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 1 * time.Second
	client.RetryWaitMax = 15 * time.Second
	client.Logger = nil

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: server returned %s", resp.Status)
	}

	// Write to a uuid-suffixed temp file first so a partial download never
	// shadows a previously fetched source.
	tmpPath := filepath.Join(destDir, "download-"+uuid.NewString()+".part")
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("download interrupted: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to finish download: %w", err)
	}

	destPath := filepath.Join(destDir, "input"+mediaExt(u, tmpPath))
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to place downloaded file: %w", err)
	}
	return destPath, nil
}

// mediaExt picks a file extension for the downloaded media, preferring magic
// bytes over the URL path.
func mediaExt(u *url.URL, filePath string) string {
	if ext, err := DetectMediaType(filePath); err == nil && ext != "" {
		return "." + ext
	}
	if ext := strings.ToLower(path.Ext(u.Path)); ext != "" {
		return ext
	}
	return ".mp4"
}

// DetectMediaType sniffs the leading bytes of the file and returns the
// matching extension (without dot), or empty string if unknown.
func DetectMediaType(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	header := make([]byte, 12)
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		return "", err
	}
	if n < 4 {
		return "", nil
	}

	// WAV: RIFF....WAVE
	if n >= 12 && string(header[0:4]) == "RIFF" && string(header[8:12]) == "WAVE" {
		return "wav", nil
	}

	// MP4 family: ....ftyp
	if n >= 8 && string(header[4:8]) == "ftyp" {
		return "mp4", nil
	}

	// WebM/Matroska: EBML header 1A 45 DF A3
	if n >= 4 && bytes.Equal(header[0:4], []byte{0x1A, 0x45, 0xDF, 0xA3}) {
		return "webm", nil
	}

	// MP3: ID3 tag or frame sync FF Ex/FF Fx
	if n >= 3 && string(header[0:3]) == "ID3" {
		return "mp3", nil
	}
	if n >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0 {
		return "mp3", nil
	}

	// Ogg: OggS
	if n >= 4 && string(header[0:4]) == "OggS" {
		return "ogg", nil
	}

	return "", nil
}
