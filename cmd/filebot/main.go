package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	// Setup logging
	setupLogging()
	ctx := zerolog.DefaultContextLogger.WithContext(context.Background())

	// Create root command
	rootCmd := &cobra.Command{
		Use:   "filebot",
		Short: "A tool for downloading, sorting and reporting on files",
		Long: `filebot downloads files from configured URLs, renames them by a
prefix/suffix convention, sorts them into folders by file type, writes a
CSV report of every processed source, and can email the report.`,
	}

	// Add shared flags
	addRootFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(
		newRunCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
