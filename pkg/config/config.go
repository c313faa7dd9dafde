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

// Package config defines the filebot configuration and its loaders.
package config

import (
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// Defaults applied by Validate when the config omits a value
const (
	DefaultDownloadDir    = "downloads"
	DefaultReportDir      = "reports"
	DefaultLogDir         = "logs"
	DefaultFallbackFolder = "other"
	DefaultSMTPPort       = 587
	DefaultTimeoutSeconds = 30
)

// 📚 Config is the complete filebot configuration
type Config struct {
	// Sources is the list of URLs to download, processed in order
	Sources []string `json:"sources,omitempty" yaml:"sources,omitempty" hcl:"sources,optional"`
	// DownloadDir is where files are downloaded and sorted
	DownloadDir string `json:"download_dir,omitempty" yaml:"download_dir,omitempty" hcl:"download_dir,optional"`
	// ReportDir is where the CSV run report is written
	ReportDir string `json:"report_dir,omitempty" yaml:"report_dir,omitempty" hcl:"report_dir,optional"`
	// LogDir is where the run log file is written
	LogDir string `json:"log_dir,omitempty" yaml:"log_dir,omitempty" hcl:"log_dir,optional"`
	// TimeoutSeconds bounds a single download
	TimeoutSeconds int `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" hcl:"timeout_seconds,optional"`
	// Async detaches the whole run from the caller
	Async bool `json:"async,omitempty" yaml:"async,omitempty" hcl:"async,optional"`

	Rename *RenameBlock `json:"rename,omitempty" yaml:"rename,omitempty" hcl:"rename,block"`
	Sort   *SortBlock   `json:"sort,omitempty" yaml:"sort,omitempty" hcl:"sort,block"`
	Email  *EmailBlock  `json:"email,omitempty" yaml:"email,omitempty" hcl:"email,block"`
}

// 🔄 RenameBlock is the prefix/suffix naming convention
type RenameBlock struct {
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty" hcl:"prefix,optional"`
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty" hcl:"suffix,optional"`
}

// 🗺️ SortBlock configures extension routing
type SortBlock struct {
	// Enabled defaults to true; set false to leave files in DownloadDir
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty" hcl:"enabled,optional"`
	// Extensions maps a lower-case extension (without dot) to a folder
	Extensions map[string]string `json:"extensions,omitempty" yaml:"extensions,omitempty" hcl:"extensions,optional"`
	// Fallback receives files with no matching rule
	Fallback string `json:"fallback,omitempty" yaml:"fallback,omitempty" hcl:"fallback,optional"`
	// Patterns are glob rules checked before the extension table
	Patterns []PatternBlock `json:"patterns,omitempty" yaml:"patterns,omitempty" hcl:"pattern,block"`
}

// 🗺️ PatternBlock routes names matching a glob to a folder
type PatternBlock struct {
	Glob   string `json:"glob" yaml:"glob" hcl:"glob"`
	Folder string `json:"folder" yaml:"folder" hcl:"folder"`
}

// 📧 EmailBlock configures the optional notification
type EmailBlock struct {
	Enabled  bool     `json:"enabled,omitempty" yaml:"enabled,omitempty" hcl:"enabled,optional"`
	Host     string   `json:"host,omitempty" yaml:"host,omitempty" hcl:"host,optional"`
	Port     int      `json:"port,omitempty" yaml:"port,omitempty" hcl:"port,optional"`
	StartTLS *bool    `json:"starttls,omitempty" yaml:"starttls,omitempty" hcl:"starttls,optional"`
	Username string   `json:"username,omitempty" yaml:"username,omitempty" hcl:"username,optional"`
	Password string   `json:"password,omitempty" yaml:"password,omitempty" hcl:"password,optional"`
	From     string   `json:"from,omitempty" yaml:"from,omitempty" hcl:"from,optional"`
	To       []string `json:"to,omitempty" yaml:"to,omitempty" hcl:"to,optional"`
	Subject  string   `json:"subject,omitempty" yaml:"subject,omitempty" hcl:"subject,optional"`
}

// SortEnabled reports whether files should be moved into type folders
func (cfg *Config) SortEnabled() bool {
	if cfg.Sort == nil || cfg.Sort.Enabled == nil {
		return true
	}
	return *cfg.Sort.Enabled
}

// NotifyEnabled reports whether the notification stage runs at all
func (cfg *Config) NotifyEnabled() bool {
	return cfg.Email != nil && cfg.Email.Enabled
}

// UseStartTLS reports whether the SMTP transport must upgrade to TLS
func (e *EmailBlock) UseStartTLS() bool {
	if e.StartTLS == nil {
		return true
	}
	return *e.StartTLS
}

// 🔍 Validate checks the configuration and fills defaults. An empty
// source list is valid: the run still produces a (trivial) report.
func (cfg *Config) Validate() error {
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = DefaultDownloadDir
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = DefaultReportDir
	}
	if cfg.LogDir == "" {
		cfg.LogDir = DefaultLogDir
	}
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.TimeoutSeconds < 0 {
		return errors.Errorf("timeout_seconds must be positive, got %d", cfg.TimeoutSeconds)
	}

	cfg.DownloadDir = filepath.Clean(cfg.DownloadDir)
	cfg.ReportDir = filepath.Clean(cfg.ReportDir)
	cfg.LogDir = filepath.Clean(cfg.LogDir)

	if cfg.Sort != nil {
		if cfg.Sort.Fallback == "" {
			cfg.Sort.Fallback = DefaultFallbackFolder
		}
		for i, p := range cfg.Sort.Patterns {
			if p.Glob == "" {
				return errors.Errorf("sort.patterns[%d]: glob is required", i)
			}
			if p.Folder == "" {
				return errors.Errorf("sort.patterns[%d]: folder is required", i)
			}
		}
	}

	if cfg.NotifyEnabled() {
		if cfg.Email.Host == "" {
			return errors.Errorf("email.host is required when email is enabled")
		}
		if cfg.Email.From == "" {
			return errors.Errorf("email.from is required when email is enabled")
		}
		if len(cfg.Email.To) == 0 {
			return errors.Errorf("email.to is required when email is enabled")
		}
		if cfg.Email.Port == 0 {
			cfg.Email.Port = DefaultSMTPPort
		}
	}

	return nil
}
