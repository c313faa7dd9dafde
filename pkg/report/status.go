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

// 📊 Status represents how far a record has progressed through the pipeline
type Status int

const (
	StatusPending    Status = iota // Record created, nothing done yet
	StatusDownloaded               // Bytes fetched and written locally
	StatusRenamed                  // Naming rule applied
	StatusSorted                   // Moved into its destination folder
	StatusReported                 // Included in a successfully written report
	StatusFailed                   // A stage failed; terminal for this record
)

// String returns a string representation of Status
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusDownloaded:
		return "Downloaded"
	case StatusRenamed:
		return "Renamed"
	case StatusSorted:
		return "Sorted"
	case StatusReported:
		return "Reported"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// 🎯 Stage names one discrete transformation a file undergoes
type Stage string

const (
	StageDownload Stage = "download"
	StageRename   Stage = "rename"
	StageSort     Stage = "sort"
	StageReport   Stage = "report"
	StageNotify   Stage = "notify"
)
