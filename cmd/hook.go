package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/chromedriver-installer/internal/config"
	"github.com/donaldgifford/chromedriver-installer/internal/hooks"
)

var hookCmd = &cobra.Command{
	Use:   "hook <event>",
	Short: "Run the installer for a dependency lifecycle event",
	Long: `Hook is meant to be called from a dependency manager's lifecycle scripts.
Both post-install-cmd and post-update-cmd run the install routine.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(hooks.PostInstallCmd), string(hooks.PostUpdateCmd)},
	RunE:      runHook,
}

func init() {
	addInstallFlags(hookCmd.Flags())
	rootCmd.AddCommand(hookCmd)
}

func runHook(cmd *cobra.Command, args []string) error {
	event, err := hooks.ParseEvent(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	return newDispatcher(cfg).Dispatch(cmd.Context(), event)
}

func newDispatcher(cfg config.Config) *hooks.Dispatcher {
	d := hooks.NewDispatcher(slog.Default())

	for _, e := range hooks.SubscribedEvents() {
		d.Subscribe(e, "chromedriver-install", func(ctx context.Context, _ hooks.Event) error {
			_, err := install(ctx, cfg)
			return err
		})
	}

	return d
}
