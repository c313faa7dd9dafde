package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filebot/pkg/config"
	"github.com/walteh/filebot/pkg/download"
	"github.com/walteh/filebot/pkg/files"
	"github.com/walteh/filebot/pkg/log"
	"github.com/walteh/filebot/pkg/notify"
	"github.com/walteh/filebot/pkg/pipeline"
	"github.com/walteh/filebot/pkg/report"
)

// newRunCmd creates the run command
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Download, rename, sort and report on configured sources",
		Long: `Run processes every configured source URL in order. It will:
1. Download each file into the download directory
2. Rename it with the configured prefix/suffix
3. Move it into a folder chosen by its file type
4. Write a CSV report covering every source, failures included
5. Email the report if notification is configured`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx, configFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			logger, closer, err := fileLogger(cfg.LogDir)
			if err != nil {
				return err
			}
			defer closer.Close()
			ctx = logger.WithContext(ctx)

			userLogger := log.New(os.Stdout, logger)
			userLogger.Header(fmt.Sprintf("processing %d sources", len(cfg.Sources)))

			orch, err := newOrchestrator(cfg, userLogger)
			if err != nil {
				return errors.Errorf("creating orchestrator: %w", err)
			}

			runner := pipeline.NewRunner(&logger, cfg.Async)
			op := pipeline.NewRunOperation(orch, cfg.Sources)
			if err := runner.Run(ctx, op); err != nil {
				return errors.Errorf("running pipeline: %w", err)
			}

			rr := op.Result()
			for _, w := range rr.Warnings {
				userLogger.Warning(w)
			}
			if failed := rr.Failed(); failed > 0 {
				userLogger.Infof("%d of %d sources completed, %d failed", rr.Completed(), len(rr.Records), failed)
			} else {
				userLogger.Success(fmt.Sprintf("all %d sources processed", len(rr.Records)))
			}

			return nil
		},
	}

	return cmd
}

// newOrchestrator wires the pipeline collaborators from config
func newOrchestrator(cfg *config.Config, userLogger *log.UserLogger) (*pipeline.Orchestrator, error) {
	downloader := download.NewHTTPDownloader(time.Duration(cfg.TimeoutSeconds) * time.Second)

	rules := sortRules(cfg)
	if err := rules.Validate(); err != nil {
		return nil, errors.Errorf("validating sort rules: %w", err)
	}
	manager := files.NewManager(cfg.DownloadDir, rules)
	generator := report.NewCSVGenerator(cfg.ReportDir)

	var notifier notify.Notifier
	if cfg.NotifyEnabled() {
		notifier = notify.NewSMTPNotifier(notify.SMTPOptions{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			StartTLS: cfg.Email.UseStartTLS(),
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			To:       cfg.Email.To,
			Subject:  cfg.Email.Subject,
		})
	}

	rename := files.RenameRule{}
	if cfg.Rename != nil {
		rename = files.RenameRule{Prefix: cfg.Rename.Prefix, Suffix: cfg.Rename.Suffix}
	}

	return pipeline.New(pipeline.Options{
		Downloader:   downloader,
		Files:        manager,
		Reports:      generator,
		Notifier:     notifier,
		UserLogger:   userLogger,
		DownloadDir:  cfg.DownloadDir,
		Rename:       rename,
		SortDisabled: !cfg.SortEnabled(),
	})
}

// sortRules builds the routing table, falling back to the built-in
// extension map when the config has none.
func sortRules(cfg *config.Config) files.SortRules {
	rules := files.DefaultSortRules()
	if cfg.Sort == nil {
		return rules
	}
	if len(cfg.Sort.Extensions) > 0 {
		rules.Extensions = cfg.Sort.Extensions
	}
	if cfg.Sort.Fallback != "" {
		rules.Fallback = cfg.Sort.Fallback
	}
	for _, p := range cfg.Sort.Patterns {
		rules.Patterns = append(rules.Patterns, files.PatternRule{Pattern: p.Glob, Folder: p.Folder})
	}
	return rules
}
