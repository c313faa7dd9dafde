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

package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// ❌ RenameError indicates the naming rule could not be applied
type RenameError struct {
	Path   string
	Reason string
	Err    error
}

func (e *RenameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("renaming %s: %s: %s", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("renaming %s: %s", e.Path, e.Reason)
}

func (e *RenameError) Unwrap() error {
	return e.Err
}

// ❌ SortError indicates a file could not be moved into its folder
type SortError struct {
	Path   string
	Reason string
	Err    error
}

func (e *SortError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sorting %s: %s: %s", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("sorting %s: %s", e.Path, e.Reason)
}

func (e *SortError) Unwrap() error {
	return e.Err
}

// 💾 Manager renames files and moves them into type folders under a
// base directory.
type Manager struct {
	baseDir string
	rules   SortRules
}

// 🏭 NewManager creates a manager rooted at baseDir
func NewManager(baseDir string, rules SortRules) *Manager {
	return &Manager{
		baseDir: filepath.Clean(baseDir),
		rules:   rules,
	}
}

// Rename applies the naming rule to the file at path and returns the
// new path. A zero rule is a no-op. If the target name already exists
// the rename fails; nothing is overwritten.
func (m *Manager) Rename(ctx context.Context, path string, rule RenameRule) (string, error) {
	logger := zerolog.Ctx(ctx)

	if rule.IsZero() {
		return path, nil
	}

	if _, err := os.Stat(path); err != nil {
		return "", &RenameError{Path: path, Reason: "source missing", Err: err}
	}

	newPath := filepath.Join(filepath.Dir(path), rule.Apply(filepath.Base(path)))
	if newPath == path {
		return path, nil
	}

	if _, err := os.Stat(newPath); err == nil {
		return "", &RenameError{Path: path, Reason: fmt.Sprintf("target %s already exists", filepath.Base(newPath))}
	}

	logger.Info().Str("from", filepath.Base(path)).Str("to", filepath.Base(newPath)).Msg("renaming")
	if err := os.Rename(path, newPath); err != nil {
		return "", &RenameError{Path: path, Reason: "filesystem rejected rename", Err: err}
	}
	return newPath, nil
}

// Sort moves the file at path into the folder its name resolves to and
// returns the folder name and the file's new path. Creating an already
// existing folder is not an error, and a file already at its
// destination is a no-op success.
func (m *Manager) Sort(ctx context.Context, path string) (string, string, error) {
	logger := zerolog.Ctx(ctx)

	if _, err := os.Stat(path); err != nil {
		return "", "", &SortError{Path: path, Reason: "source missing", Err: err}
	}

	folder := m.rules.Resolve(filepath.Base(path))
	targetDir := filepath.Join(m.baseDir, folder)
	newPath := filepath.Join(targetDir, filepath.Base(path))

	if newPath == path {
		logger.Debug().Str("path", path).Msg("already sorted")
		return folder, path, nil
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", "", &SortError{Path: path, Reason: "creating destination folder", Err: err}
	}

	logger.Info().Str("from", path).Str("to", newPath).Msg("moving")
	if err := os.Rename(path, newPath); err != nil {
		return "", "", &SortError{Path: path, Reason: "moving file", Err: err}
	}
	return folder, newPath, nil
}

// Rules exposes the manager's routing table
func (m *Manager) Rules() SortRules {
	return m.rules
}
