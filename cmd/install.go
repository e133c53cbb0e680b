package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/chromedriver-installer/internal/config"
	"github.com/donaldgifford/chromedriver-installer/internal/installer"
	"github.com/donaldgifford/chromedriver-installer/internal/prompt"
	"github.com/donaldgifford/chromedriver-installer/internal/ui"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install chromedriver into the bin directory",
	Long: `Install detects the host platform, resolves the ChromeDriver version
(pinned, latest release, or the built-in default), downloads the archive
unless it is already cached, and installs the executable. Nothing is
downloaded when the installed binary already reports the wanted version.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	addInstallFlags(installCmd.Flags())
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	_, err = install(cmd.Context(), cfg)

	return err
}

// install runs the installer with the terminal-facing collaborators wired in.
func install(ctx context.Context, cfg config.Config) (*installer.Result, error) {
	opts := &installer.Opts{
		Config: cfg,
		UI:     ui.NewWriter(noColor),
		Logger: slog.Default(),
	}

	if !cfg.BypassSelect && ui.IsTerminal(os.Stdin.Fd()) {
		opts.Select = prompt.NewPlatformSelector(os.Stdin, os.Stderr)
	}

	var tracker *ui.ProgressTracker
	if ui.IsTerminal(os.Stderr.Fd()) {
		tracker = ui.NewProgressTracker(os.Stderr)
		opts.Progress = tracker
	}

	res, err := installer.Install(ctx, opts)

	if tracker != nil {
		tracker.Wait()
	}

	return res, err
}
