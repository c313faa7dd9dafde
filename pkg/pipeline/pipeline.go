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

// Package pipeline drives files through download, rename, sort, report
// and notify, isolating per-file failures from the rest of the run.
package pipeline

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filebot/pkg/download"
	"github.com/walteh/filebot/pkg/files"
	"github.com/walteh/filebot/pkg/log"
	"github.com/walteh/filebot/pkg/notify"
	"github.com/walteh/filebot/pkg/report"
)

// 🔧 Options contains the collaborators for an orchestrator
type Options struct {
	// Downloader fetches source URLs
	Downloader download.Downloader
	// Files renames and sorts downloaded files
	Files *files.Manager
	// Reports serializes the run report
	Reports *report.CSVGenerator
	// Notifier is nil when notification is not configured
	Notifier notify.Notifier
	// UserLogger receives per-stage console feedback
	UserLogger *log.UserLogger
	// DownloadDir is where fetched files land before sorting
	DownloadDir string
	// Rename is the naming rule applied after download
	Rename files.RenameRule
	// SortDisabled leaves files in DownloadDir; the sort stage becomes
	// a no-op success so the status sequence is unchanged
	SortDisabled bool
}

// 🎮 Orchestrator runs sources through the pipeline sequentially
type Orchestrator struct {
	opts Options
}

// 🏭 New creates an orchestrator with the given options
func New(opts Options) (*Orchestrator, error) {
	if opts.Downloader == nil {
		return nil, errors.Errorf("downloader is required")
	}
	if opts.Files == nil {
		return nil, errors.Errorf("file manager is required")
	}
	if opts.Reports == nil {
		return nil, errors.Errorf("report generator is required")
	}
	if opts.UserLogger == nil {
		return nil, errors.Errorf("user logger is required")
	}
	if opts.DownloadDir == "" {
		return nil, errors.Errorf("download directory is required")
	}
	return &Orchestrator{opts: opts}, nil
}

// Run processes every source in input order and returns the run
// report. No per-file failure aborts the run; report and notify
// failures are recorded as warnings on the report, never as an error.
func (o *Orchestrator) Run(ctx context.Context, sources []string) (*report.RunReport, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Int("sources", len(sources)).Msg("starting run")

	rr := report.NewRunReport()
	for _, src := range sources {
		rec := o.processSource(ctx, src)
		rr.Append(rec)
	}

	// Records that made it through the per-file stages are part of the
	// report being written now.
	for _, rec := range rr.Records {
		if rec.Status == report.StatusSorted {
			if err := rec.Advance(report.StatusReported); err != nil {
				return rr, errors.Errorf("advancing record: %w", err)
			}
		}
	}

	reportPath, err := o.opts.Reports.Write(ctx, rr)
	if err != nil {
		rr.Warn(report.StageReport, err)
		o.opts.UserLogger.Warning("report could not be written: " + err.Error())
		logger.Error().Err(err).Msg("report stage failed")
		return rr, nil
	}

	if o.opts.Notifier != nil {
		summary := notify.Summary{
			Sources:   len(rr.Records),
			Completed: rr.Completed(),
			Failed:    rr.Failed(),
		}
		if err := o.opts.Notifier.Notify(ctx, reportPath, summary); err != nil {
			rr.Warn(report.StageNotify, err)
			o.opts.UserLogger.Warning("notification failed: " + err.Error())
			logger.Error().Err(err).Msg("notify stage failed")
		}
	}

	return rr, nil
}

// processSource drives one source through download, rename and sort.
// The returned record is terminal: either Sorted or Failed.
func (o *Orchestrator) processSource(ctx context.Context, src string) *report.Record {
	logger := zerolog.Ctx(ctx)

	rec := report.NewRecord(src)
	rec.SetName(download.FileNameFromURL(src))
	path := filepath.Join(o.opts.DownloadDir, rec.Name)

	// Download
	size, err := o.opts.Downloader.Fetch(ctx, src, path)
	if err != nil {
		o.fail(logger, rec, report.StageDownload, err)
		return rec
	}
	rec.SizeBytes = size
	o.advance(logger, rec, report.StatusDownloaded, report.StageDownload)

	// Rename
	newPath, err := o.opts.Files.Rename(ctx, path, o.opts.Rename)
	if err != nil {
		o.fail(logger, rec, report.StageRename, err)
		return rec
	}
	rec.SetName(filepath.Base(newPath))
	o.advance(logger, rec, report.StatusRenamed, report.StageRename)

	// Sort
	if o.opts.SortDisabled {
		o.advance(logger, rec, report.StatusSorted, report.StageSort)
		return rec
	}
	folder, _, err := o.opts.Files.Sort(ctx, newPath)
	if err != nil {
		o.fail(logger, rec, report.StageSort, err)
		return rec
	}
	rec.DestinationFolder = folder + "/"
	o.advance(logger, rec, report.StatusSorted, report.StageSort)

	return rec
}

// advance moves a record forward and reports the transition
func (o *Orchestrator) advance(logger *zerolog.Logger, rec *report.Record, next report.Status, stage report.Stage) {
	// Transitions here are constructed in order; Advance only errors
	// on a programming mistake.
	if err := rec.Advance(next); err != nil {
		logger.Error().Err(err).Str("source", rec.Source).Msg("invalid status transition")
		return
	}
	o.opts.UserLogger.LogStageEvent(log.StageEvent{
		Name:   rec.Name,
		Stage:  string(stage),
		Status: rec.Status.String(),
	})
}

// fail marks a record as failed and reports the stage and reason
func (o *Orchestrator) fail(logger *zerolog.Logger, rec *report.Record, stage report.Stage, err error) {
	rec.Fail(stage, err)
	logger.Error().Err(err).Str("source", rec.Source).Str("stage", string(stage)).Msg("stage failed")
	o.opts.UserLogger.LogStageEvent(log.StageEvent{
		Name:   rec.Name,
		Stage:  string(stage),
		Status: rec.Status.String(),
		Failed: true,
		Reason: err.Error(),
	})
}
