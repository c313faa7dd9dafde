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
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVGeneratorWrite(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	gen := NewCSVGenerator(dir)

	rr := NewRunReport()

	ok := NewRecord("http://x/a.pdf")
	ok.SetName("proc_a.pdf")
	ok.SizeBytes = 1234
	ok.DestinationFolder = "pdf/"
	require.NoError(t, ok.Advance(StatusDownloaded))
	require.NoError(t, ok.Advance(StatusRenamed))
	require.NoError(t, ok.Advance(StatusSorted))
	require.NoError(t, ok.Advance(StatusReported))
	rr.Append(ok)

	bad := NewRecord("http://x/b.pdf")
	bad.SetName("b.pdf")
	bad.Fail(StageDownload, errors.New("connection refused"))
	rr.Append(bad)

	path, err := gen.Write(ctx, rr)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, gen.FileName(rr)), path)

	rows := readRows(t, path)
	require.Len(t, rows, 3, "header plus one row per record")
	assert.Equal(t, []string{"name", "extension", "size_bytes", "destination_folder", "status", "error"}, rows[0])
	assert.Equal(t, []string{"proc_a.pdf", "pdf", "1234", "pdf/", "Reported", ""}, rows[1])
	assert.Equal(t, []string{"b.pdf", "pdf", "0", "", "Failed", "download: connection refused"}, rows[2])
}

func TestCSVGeneratorWriteEmptyRun(t *testing.T) {
	ctx := testContext(t)
	gen := NewCSVGenerator(t.TempDir())

	path, err := gen.Write(ctx, NewRunReport())
	require.NoError(t, err, "an empty source list still yields a valid report")

	rows := readRows(t, path)
	require.Len(t, rows, 1, "header only")
}

func TestCSVGeneratorWritePreservesInputOrder(t *testing.T) {
	ctx := testContext(t)
	gen := NewCSVGenerator(t.TempDir())

	rr := NewRunReport()
	names := []string{"c.txt", "a.txt", "b.txt"}
	for _, name := range names {
		rec := NewRecord("http://x/" + name)
		rec.SetName(name)
		rr.Append(rec)
	}

	path, err := gen.Write(ctx, rr)
	require.NoError(t, err)

	rows := readRows(t, path)
	require.Len(t, rows, 4)
	for i, name := range names {
		assert.Equal(t, name, rows[i+1][0], "rows should be in input order")
	}
}

func TestCSVGeneratorCreatesReportDir(t *testing.T) {
	ctx := testContext(t)
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	gen := NewCSVGenerator(dir)

	_, err := gen.Write(ctx, NewRunReport())
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestCSVGeneratorWriteError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced the same way on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	ctx := testContext(t)
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	gen := NewCSVGenerator(filepath.Join(dir, "reports"))
	_, err := gen.Write(ctx, NewRunReport())
	require.Error(t, err)
	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
}
