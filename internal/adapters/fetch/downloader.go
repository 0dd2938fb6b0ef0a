// Package fetch downloads source archives over HTTP(S).
package fetch

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"go.trai.ch/ndkdeps/internal/core/ports"
	"go.trai.ch/zerr"
)

// Downloader implements ports.Downloader using net/http.
type Downloader struct {
	client *http.Client
	logger ports.Logger
}

// NewDownloader creates a new Downloader. A nil client uses http.DefaultClient.
func NewDownloader(client *http.Client, logger ports.Logger) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Downloader{client: client, logger: logger}
}

// Download writes the resource at url to dest.
// The body is written to a temporary file in dest's directory and renamed
// into place, so dest only exists once the transfer is complete.
func (d *Downloader) Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create request"), "url", url)
	}

	d.logger.Info("downloading " + url)

	resp, err := d.client.Do(req)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "download failed"), "url", url)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		err := zerr.With(zerr.New("unexpected http status"), "status", resp.StatusCode)
		return zerr.With(err, "url", url)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".part-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create download file")
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, "failed to read response body"), "url", url)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to close download file")
	}

	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, "failed to move download into place"), "path", dest)
	}
	return nil
}
