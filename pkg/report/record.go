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

// Package report holds the per-file state tracked through a run and the
// CSV serialization of that state.
package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
)

// 📄 Record tracks one source through the pipeline
type Record struct {
	Source            string // URL or path the file originated from
	Name              string // Current file name; mutated as stages rename it
	Extension         string // Lower-cased suffix without the dot; set once
	SizeBytes         int64  // Set after download
	DestinationFolder string // Set after the sort stage
	Status            Status // Current pipeline status
	FailedStage       Stage  // Which stage failed, if any
	Err               error  // Present iff Status == StatusFailed
}

// 🏭 NewRecord creates a pending record for a source
func NewRecord(source string) *Record {
	return &Record{
		Source: source,
		Status: StatusPending,
	}
}

// SetName sets the record's file name and derives the extension the
// first time a name is known. The extension never changes afterwards,
// which is what keeps folder routing consistent across renames.
func (r *Record) SetName(name string) {
	r.Name = name
	if r.Extension == "" {
		r.Extension = strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	}
}

// Advance moves the record to the next status. Transitions only go
// forward through Pending → Downloaded → Renamed → Sorted → Reported,
// one step at a time.
func (r *Record) Advance(next Status) error {
	if r.Status == StatusFailed {
		return errors.Errorf("record %q is failed, cannot advance to %s", r.Source, next)
	}
	if next == StatusFailed {
		return errors.Errorf("use Fail to mark record %q as failed", r.Source)
	}
	if next != r.Status+1 {
		return errors.Errorf("record %q cannot advance from %s to %s", r.Source, r.Status, next)
	}
	r.Status = next
	return nil
}

// Fail marks the record as terminally failed at the given stage. No
// further stage runs for this record; the run continues with the rest.
func (r *Record) Fail(stage Stage, err error) {
	if r.Status == StatusFailed {
		return
	}
	r.Status = StatusFailed
	r.FailedStage = stage
	r.Err = err
}

// ErrorText returns the error column value for this record
func (r *Record) ErrorText() string {
	if r.Err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", r.FailedStage, r.Err.Error())
}

// 📚 RunReport is the ordered sequence of records for one invocation
type RunReport struct {
	StartedAt time.Time
	Records   []*Record
	// Warnings collects run-level failures (report write, notify) that
	// must not invalidate the per-file work already done.
	Warnings []string
}

// 🏭 NewRunReport creates an empty run report
func NewRunReport() *RunReport {
	return &RunReport{StartedAt: time.Now().UTC()}
}

// Append adds a record in input order
func (rr *RunReport) Append(rec *Record) {
	rr.Records = append(rr.Records, rec)
}

// Warn records a non-fatal run-level failure
func (rr *RunReport) Warn(stage Stage, err error) {
	rr.Warnings = append(rr.Warnings, fmt.Sprintf("%s: %s", stage, err.Error()))
}

// Failed counts records that terminated in StatusFailed
func (rr *RunReport) Failed() int {
	n := 0
	for _, rec := range rr.Records {
		if rec.Status == StatusFailed {
			n++
		}
	}
	return n
}

// Completed counts records that reached StatusReported
func (rr *RunReport) Completed() int {
	n := 0
	for _, rec := range rr.Records {
		if rec.Status == StatusReported {
			n++
		}
	}
	return n
}
