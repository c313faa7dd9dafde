// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package download fetches files from remote URLs onto the local disk.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultTimeout bounds a single fetch end to end
const DefaultTimeout = 30 * time.Second

// fallbackFileName is used when a URL path yields no usable base name
const fallbackFileName = "downloaded_file"

// ❌ Error indicates a single URL could not be fetched. It never aborts
// sibling downloads; the orchestrator decides how to continue.
type Error struct {
	URL    string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("downloading %s: %s: %s", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("downloading %s: %s", e.URL, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// 🔌 Downloader fetches a URL to a local destination path
type Downloader interface {
	// Fetch retrieves url and writes it to destPath, returning the
	// number of bytes written.
	Fetch(ctx context.Context, url string, destPath string) (int64, error)
}

// 🔧 HTTPDownloader downloads files over HTTP/HTTPS
type HTTPDownloader struct {
	client *http.Client
}

// 🏭 NewHTTPDownloader creates a downloader with the given timeout.
// A zero timeout falls back to DefaultTimeout.
func NewHTTPDownloader(timeout time.Duration) *HTTPDownloader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPDownloader{
		client: &http.Client{Timeout: timeout},
	}
}

// FileNameFromURL derives a local file name from the URL path,
// falling back to a fixed name when the path has none.
func FileNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fallbackFileName
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return fallbackFileName
	}
	return name
}

// Fetch downloads a single URL. On failure no partial file is left at
// destPath: content is written to a temp file in the same directory
// and only renamed into place once the body was read completely.
func (d *HTTPDownloader) Fetch(ctx context.Context, rawURL string, destPath string) (int64, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("url", rawURL).Msg("downloading")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, &Error{URL: rawURL, Reason: "building request", Err: err}
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, &Error{URL: rawURL, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &Error{URL: rawURL, Reason: fmt.Sprintf("unexpected status %s", resp.Status)}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return 0, &Error{URL: rawURL, Reason: "creating download directory", Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), "."+filepath.Base(destPath)+".*")
	if err != nil {
		return 0, &Error{URL: rawURL, Reason: "creating temp file", Err: err}
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return 0, &Error{URL: rawURL, Reason: "writing body", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return 0, &Error{URL: rawURL, Reason: "closing temp file", Err: err}
	}

	if err := os.Rename(tmp.Name(), destPath); err != nil {
		return 0, &Error{URL: rawURL, Reason: "moving into place", Err: errors.Errorf("renaming %s: %w", tmp.Name(), err)}
	}

	logger.Info().Str("url", rawURL).Str("dest", destPath).Int64("bytes", size).Msg("downloaded")
	return size, nil
}
