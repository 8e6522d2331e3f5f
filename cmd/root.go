// Package cmd contains all CLI commands for shotframe
package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"shotframe/internal/config"
	"shotframe/internal/output"
	"shotframe/internal/tui"
	"shotframe/internal/upload"
)

var (
	cfgFile string
	verbose bool
	quiet   bool
	cfg     *config.Config
	logger  *slog.Logger
	version = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shotframe [FILE...]",
	Short: "Frame screenshots in window chrome and export them as PNG",
	Long: `shotframe places screenshots inside a macOS, Windows, browser, phone or
tablet frame on a gradient or solid background and exports the result.

Run without a subcommand to open the interactive editor. Files given on the
command line are loaded into the batch.

Example usage:
  shotframe                          # Open the editor
  shotframe shot1.png shot2.png      # Open the editor with two screenshots
  shotframe export shot.png          # Export one framed PNG
  shotframe export *.png --all       # Export every file in order
  shotframe presets                  # List store sizes and gradients`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd.ErrOrStderr())
	},
	RunE: runRoot,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .shotframe.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only print errors")
}

// initConfig reads in config file and ENV variables if set.
func initConfig(stderr io.Writer) error {
	var err error

	cfg, err = config.Load(cfgFile)
	if err != nil {
		return &output.CLIError{
			Summary:    "invalid configuration",
			Detail:     err.Error(),
			Suggestion: "Check .shotframe.yaml and SHOTFRAME_* environment variables",
			ExitCode:   output.ExitConfigError,
			Err:        err,
		}
	}

	logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel(),
	}))
	logger.Debug("configuration loaded",
		"output_dir", cfg.Output.Dir,
		"prefix", cfg.Output.Prefix,
		"settle_delay", cfg.Export.SettleDelay,
		"download_gap", cfg.Export.DownloadGap,
	)
	return nil
}

func logLevel() slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// fileLogger sends logs to the configured file while the editor owns the
// terminal. It returns a discarding logger when no file can be opened.
func fileLogger() (*slog.Logger, func()) {
	path := cfg.Logging.File
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return slog.New(slog.DiscardHandler), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return slog.New(slog.DiscardHandler), func() {}
	}
	l := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel()}))
	return l, func() { f.Close() }
}

func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ResolveColors(cfg.Output.Colors), quiet)
}

func runRoot(cmd *cobra.Command, args []string) error {
	tuiLogger, closeLog := fileLogger()
	defer closeLog()

	s, err := newSession(tuiLogger, true)
	if err != nil {
		return err
	}
	defer s.Close()

	if len(args) > 0 {
		images, err := upload.LoadPaths(cmd.Context(), args)
		if err != nil && len(images) == 0 {
			return inputError(err)
		}
		if err != nil {
			newPrinter(cmd).Warning("%v", err)
		}
		if _, err := s.AddImages(images); err != nil {
			return err
		}
	}

	tuiLogger.Info("editor started", "images", s.Len(), "version", version)
	return tui.Run(cmd.Context(), tui.Options{
		Session:   s,
		OutputDir: cfg.Output.Dir,
		Logger:    tuiLogger,
	})
}

func inputError(err error) error {
	return &output.CLIError{
		Summary:    "no usable images",
		Detail:     err.Error(),
		Suggestion: "Pass PNG, JPEG or WEBP files",
		ExitCode:   output.ExitInputError,
		Err:        err,
	}
}
