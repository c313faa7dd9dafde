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

// Package files renames downloaded files by convention and sorts them
// into type folders.
package files

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultFallbackFolder receives files whose extension has no mapping
const DefaultFallbackFolder = "other"

// 🔄 RenameRule is a prefix/suffix naming convention. The suffix is
// inserted before the extension: report.pdf + {proc_, _final} becomes
// proc_report_final.pdf.
type RenameRule struct {
	Prefix string
	Suffix string
}

// IsZero reports whether applying the rule would be a no-op
func (r RenameRule) IsZero() bool {
	return r.Prefix == "" && r.Suffix == ""
}

// Apply returns the new base name for filename under this rule
func (r RenameRule) Apply(filename string) string {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	return r.Prefix + stem + r.Suffix + ext
}

// 🗺️ PatternRule routes file names matching a doublestar glob to a folder
type PatternRule struct {
	Pattern string
	Folder  string
}

// 🗺️ SortRules decides the destination folder for a file name. Pattern
// rules are checked in order first, then the extension table, then the
// fallback. Resolution is pure: no filesystem access, no content
// sniffing, extension matching is case-insensitive.
type SortRules struct {
	Patterns   []PatternRule
	Extensions map[string]string // lower-case extension without dot -> folder
	Fallback   string
}

// 🏭 DefaultSortRules returns the built-in extension table
func DefaultSortRules() SortRules {
	return SortRules{
		Extensions: map[string]string{
			"pdf":  "documents",
			"doc":  "documents",
			"docx": "documents",
			"txt":  "documents",
			"csv":  "data",
			"xls":  "data",
			"xlsx": "data",
			"jpg":  "images",
			"jpeg": "images",
			"png":  "images",
			"gif":  "images",
			"mp4":  "videos",
			"mkv":  "videos",
			"mp3":  "audio",
		},
		Fallback: DefaultFallbackFolder,
	}
}

// Resolve maps a file name to its destination folder
func (s SortRules) Resolve(filename string) string {
	for _, rule := range s.Patterns {
		// Invalid patterns simply never match; config validation
		// rejects them before a run starts.
		if ok, err := doublestar.Match(rule.Pattern, filename); err == nil && ok {
			return rule.Folder
		}
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if folder, ok := s.Extensions[ext]; ok {
		return folder
	}
	if s.Fallback != "" {
		return s.Fallback
	}
	return DefaultFallbackFolder
}

// Validate checks that every pattern rule parses
func (s SortRules) Validate() error {
	for _, rule := range s.Patterns {
		if _, err := doublestar.Match(rule.Pattern, "probe"); err != nil {
			return &SortError{Path: rule.Pattern, Reason: "invalid glob pattern", Err: err}
		}
	}
	return nil
}
