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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestRecordAdvanceForwardOnly(t *testing.T) {
	rec := NewRecord("http://x/a.pdf")
	assert.Equal(t, StatusPending, rec.Status)

	require.NoError(t, rec.Advance(StatusDownloaded))
	require.NoError(t, rec.Advance(StatusRenamed))
	require.NoError(t, rec.Advance(StatusSorted))
	require.NoError(t, rec.Advance(StatusReported))
}

func TestRecordAdvanceCannotSkip(t *testing.T) {
	rec := NewRecord("http://x/a.pdf")
	err := rec.Advance(StatusRenamed)
	require.Error(t, err, "skipping Downloaded should be rejected")
	assert.Equal(t, StatusPending, rec.Status, "status should not change on a rejected transition")
}

func TestRecordAdvanceCannotRegress(t *testing.T) {
	rec := NewRecord("http://x/a.pdf")
	require.NoError(t, rec.Advance(StatusDownloaded))
	require.Error(t, rec.Advance(StatusDownloaded))
	assert.Equal(t, StatusDownloaded, rec.Status)
}

func TestRecordFailIsTerminal(t *testing.T) {
	rec := NewRecord("http://x/a.pdf")
	require.NoError(t, rec.Advance(StatusDownloaded))

	rec.Fail(StageRename, errors.New("target exists"))
	assert.Equal(t, StatusFailed, rec.Status)
	assert.Equal(t, StageRename, rec.FailedStage)

	// Neither a later failure nor an advance changes a failed record
	rec.Fail(StageSort, errors.New("should be ignored"))
	assert.Equal(t, StageRename, rec.FailedStage)
	require.Error(t, rec.Advance(StatusRenamed))
	assert.Equal(t, StatusFailed, rec.Status)
}

func TestRecordSetNameKeepsExtension(t *testing.T) {
	rec := NewRecord("http://x/report.PDF")
	rec.SetName("report.PDF")
	assert.Equal(t, "pdf", rec.Extension, "extension should be lower-cased")

	// Renaming the file never changes the derived extension
	rec.SetName("proc_report_final.PDF")
	assert.Equal(t, "pdf", rec.Extension)
	assert.Equal(t, "proc_report_final.PDF", rec.Name)
}

func TestRecordErrorText(t *testing.T) {
	rec := NewRecord("http://x/a.pdf")
	assert.Empty(t, rec.ErrorText())

	rec.Fail(StageDownload, errors.New("connection refused"))
	assert.Equal(t, "download: connection refused", rec.ErrorText())
}

func TestRunReportCounts(t *testing.T) {
	rr := NewRunReport()

	ok := NewRecord("http://x/a.pdf")
	require.NoError(t, ok.Advance(StatusDownloaded))
	require.NoError(t, ok.Advance(StatusRenamed))
	require.NoError(t, ok.Advance(StatusSorted))
	require.NoError(t, ok.Advance(StatusReported))

	bad := NewRecord("http://x/b.pdf")
	bad.Fail(StageDownload, errors.New("boom"))

	rr.Append(ok)
	rr.Append(bad)

	assert.Equal(t, 1, rr.Completed())
	assert.Equal(t, 1, rr.Failed())
	assert.Len(t, rr.Records, 2)
}

func TestRunReportWarn(t *testing.T) {
	rr := NewRunReport()
	rr.Warn(StageNotify, errors.New("smtp down"))
	require.Len(t, rr.Warnings, 1)
	assert.Equal(t, "notify: smtp down", rr.Warnings[0])
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusPending, "Pending"},
		{StatusDownloaded, "Downloaded"},
		{StatusRenamed, "Renamed"},
		{StatusSorted, "Sorted"},
		{StatusReported, "Reported"},
		{StatusFailed, "Failed"},
		{Status(99), "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.String())
	}
}
