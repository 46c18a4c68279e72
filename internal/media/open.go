package media

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Open decodes an image file from disk. The returned asset references the
// original file and does not own it.
func Open(path string) (*Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return newAsset(filepath.Base(path), path, img, false), nil
}

// FromBytes decodes in-memory image data and writes it to a temporary
// backing file the asset owns. Callers must Close the asset when it is
// replaced or the session ends.
func FromBytes(name string, data []byte) (*Asset, error) {
	img, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = ".img"
	}
	f, err := os.CreateTemp("", "flyer-studio-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to create preview file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write preview file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, err
	}

	return newAsset(name, f.Name(), img, true), nil
}

// FromURL downloads and decodes an image. The asset is temp-file backed,
// exactly as if the bytes had been dropped in.
func FromURL(rawURL string) (*Asset, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = 30 * time.Second

	resp, err := retryClient.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("URL does not point to an image (Content-Type: %s)", ct)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	name := filepath.Base(parsed.Path)
	if name == "." || name == "/" || name == "" {
		name = "download"
	}
	return FromBytes(name, data)
}
