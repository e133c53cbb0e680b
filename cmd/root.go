// Package cmd defines the CLI commands for chromedriver-installer.
package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/donaldgifford/chromedriver-installer/internal/ui"
)

var (
	verbose bool
	noColor bool
	cfgFile string
	logFile string
)

// rootCmd is the base command for the chromedriver-installer CLI.
var rootCmd = &cobra.Command{
	Use:   "chromedriver-installer",
	Short: "Install the ChromeDriver binary for this host",
	Long: `chromedriver-installer detects the host platform, resolves a ChromeDriver
version, downloads the matching archive (reusing a local cache when possible)
and installs the executable into a bin directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		initLogger()
	},
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// ErrorWriter returns the writer used to report a failed command. It honors --no-color.
func ErrorWriter() *ui.Writer {
	return ui.NewWriter(noColor)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.chromedriver.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file (rotated)")
}

func initLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stderr
	if logFile != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
