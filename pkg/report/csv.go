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

package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// header is the fixed column order of the report file
var header = []string{"name", "extension", "size_bytes", "destination_folder", "status", "error"}

// ❌ WriteError indicates the report file could not be created or written
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing report %s: %s", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// 🔧 CSVGenerator serializes a run report to a CSV file
type CSVGenerator struct {
	dir string
}

// 🏭 NewCSVGenerator creates a generator writing into dir
func NewCSVGenerator(dir string) *CSVGenerator {
	return &CSVGenerator{dir: filepath.Clean(dir)}
}

// FileName returns the report file name for a run started at the
// report's StartedAt timestamp.
func (g *CSVGenerator) FileName(rr *RunReport) string {
	return fmt.Sprintf("file_report_%s.csv", rr.StartedAt.Format("20060102_150405"))
}

// Write serializes the report, one row per record in input order,
// failed records included. Returns the path of the written file.
func (g *CSVGenerator) Write(ctx context.Context, rr *RunReport) (string, error) {
	logger := zerolog.Ctx(ctx)

	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", &WriteError{Path: g.dir, Err: err}
	}

	path := filepath.Join(g.dir, g.FileName(rr))
	logger.Debug().Str("path", path).Int("records", len(rr.Records)).Msg("writing report")

	f, err := os.Create(path)
	if err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	for _, rec := range rr.Records {
		row := []string{
			rec.Name,
			rec.Extension,
			strconv.FormatInt(rec.SizeBytes, 10),
			rec.DestinationFolder,
			rec.Status.String(),
			rec.ErrorText(),
		}
		if err := w.Write(row); err != nil {
			return "", &WriteError{Path: path, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &WriteError{Path: path, Err: errors.Errorf("closing report: %w", err)}
	}

	logger.Info().Str("path", path).Msg("report written")
	return path, nil
}
