package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestLoadYAML(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "full_config",
			config: `
sources:
  - http://x/a.pdf
  - http://x/b.csv
download_dir: /tmp/filebot/downloads
report_dir: /tmp/filebot/reports
log_dir: /tmp/filebot/logs
timeout_seconds: 10
rename:
  prefix: proc_
  suffix: _done
sort:
  extensions:
    pdf: documents
  fallback: misc
  patterns:
    - glob: "*.tar.gz"
      folder: archives
email:
  enabled: true
  host: smtp.example.com
  username: bot
  password: hunter2
  from: bot@example.com
  to:
    - ops@example.com
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Len(t, cfg.Sources, 2, "should have 2 sources")
				assert.Equal(t, "/tmp/filebot/downloads", cfg.DownloadDir)
				assert.Equal(t, 10, cfg.TimeoutSeconds)
				require.NotNil(t, cfg.Rename)
				assert.Equal(t, "proc_", cfg.Rename.Prefix)
				assert.Equal(t, "_done", cfg.Rename.Suffix)
				require.NotNil(t, cfg.Sort)
				assert.Equal(t, "documents", cfg.Sort.Extensions["pdf"])
				assert.Equal(t, "misc", cfg.Sort.Fallback)
				require.Len(t, cfg.Sort.Patterns, 1)
				assert.Equal(t, "*.tar.gz", cfg.Sort.Patterns[0].Glob)
				assert.True(t, cfg.NotifyEnabled())
				assert.Equal(t, DefaultSMTPPort, cfg.Email.Port, "port should default when omitted")
				assert.True(t, cfg.Email.UseStartTLS(), "starttls should default to true")
			},
		},
		{
			name: "minimal_config",
			config: `
sources:
  - http://x/a.pdf
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultDownloadDir, cfg.DownloadDir)
				assert.Equal(t, DefaultReportDir, cfg.ReportDir)
				assert.Equal(t, DefaultLogDir, cfg.LogDir)
				assert.Equal(t, DefaultTimeoutSeconds, cfg.TimeoutSeconds)
				assert.True(t, cfg.SortEnabled(), "sort should default to enabled")
				assert.False(t, cfg.NotifyEnabled())
			},
		},
		{
			name: "empty_sources_is_valid",
			config: `
download_dir: downloads
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.Sources, "an empty source list is a valid run")
			},
		},
		{
			name: "sort_disabled",
			config: `
sources: [http://x/a.pdf]
sort:
  enabled: false
`,
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.SortEnabled())
			},
		},
		{
			name: "email_enabled_without_host",
			config: `
sources: [http://x/a.pdf]
email:
  enabled: true
  from: bot@example.com
  to: [ops@example.com]
`,
			wantErr:     true,
			errContains: "email.host is required",
		},
		{
			name: "email_enabled_without_recipients",
			config: `
sources: [http://x/a.pdf]
email:
  enabled: true
  host: smtp.example.com
  from: bot@example.com
`,
			wantErr:     true,
			errContains: "email.to is required",
		},
		{
			name: "pattern_without_folder",
			config: `
sources: [http://x/a.pdf]
sort:
  patterns:
    - glob: "*.tar.gz"
`,
			wantErr:     true,
			errContains: "folder is required",
		},
		{
			name: "unknown_field",
			config: `
sources: [http://x/a.pdf]
no_such_field: true
`,
			wantErr:     true,
			errContains: "parsing YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "config.yaml", tt.config)
			cfg, err := Load(testContext(t), path)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "sources": ["http://x/a.pdf"],
  "rename": {"prefix": "proc_"},
  "email": {"enabled": false}
}`)

	cfg, err := Load(testContext(t), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://x/a.pdf"}, cfg.Sources)
	assert.Equal(t, "proc_", cfg.Rename.Prefix)
	assert.False(t, cfg.NotifyEnabled())
}

func TestLoadJSONUnknownField(t *testing.T) {
	path := writeConfig(t, "config.json", `{"nope": 1}`)
	_, err := Load(testContext(t), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing JSON")
}

func TestLoadHCL(t *testing.T) {
	path := writeConfig(t, "config.hcl", `
sources = ["http://x/a.pdf", "http://x/b.csv"]
download_dir = "downloads"

rename {
  prefix = "proc_"
}

sort {
  extensions = {
    pdf = "documents"
  }

  pattern {
    glob   = "*.tar.gz"
    folder = "archives"
  }
}
`)

	cfg, err := Load(testContext(t), path)
	require.NoError(t, err)
	assert.Len(t, cfg.Sources, 2)
	require.NotNil(t, cfg.Rename)
	assert.Equal(t, "proc_", cfg.Rename.Prefix)
	require.NotNil(t, cfg.Sort)
	assert.Equal(t, "documents", cfg.Sort.Extensions["pdf"])
	require.Len(t, cfg.Sort.Patterns, 1)
	assert.Equal(t, "archives", cfg.Sort.Patterns[0].Folder)
}

func TestLoadDotFilebot(t *testing.T) {
	// YAML body under the .filebot extension
	path := writeConfig(t, ".filebot", `
sources: [http://x/a.pdf]
`)
	cfg, err := Load(testContext(t), path)
	require.NoError(t, err)
	assert.Len(t, cfg.Sources, 1)

	// HCL body under the .filebot extension
	path = writeConfig(t, "alt.filebot", `sources = ["http://x/a.pdf"]`)
	cfg, err = Load(testContext(t), path)
	require.NoError(t, err)
	assert.Len(t, cfg.Sources, 1)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(testContext(t), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err, "a missing config file is an error, not silent defaults")
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "config.toml", `sources = []`)
	_, err := Load(testContext(t), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file extension")
}
