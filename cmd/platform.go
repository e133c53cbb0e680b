package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/chromedriver-installer/internal/installer"
	"github.com/donaldgifford/chromedriver-installer/internal/platform"
	"github.com/donaldgifford/chromedriver-installer/internal/ui"
)

var platformCmd = &cobra.Command{
	Use:   "platform",
	Short: "Show the detected platform and the supported builds",
	Args:  cobra.NoArgs,
	RunE:  runPlatform,
}

func init() {
	rootCmd.AddCommand(platformCmd)
}

func runPlatform(_ *cobra.Command, _ []string) error {
	w := ui.NewWriter(noColor)

	detected, err := platform.DetectHost()
	if err != nil && !errors.Is(err, platform.ErrUnknown) {
		return err
	}

	if err := writePlatformTable(os.Stdout, detected); err != nil {
		return err
	}

	if detected == "" {
		w.Warning(installer.UnknownPlatformMessage)

		return nil
	}

	w.Infof("Detected platform %s", w.Bold(detected.DisplayName()))

	return nil
}

// writePlatformTable lists every build, marking detected with "*". Cells stay
// plain text so tabwriter can measure them.
func writePlatformTable(out io.Writer, detected platform.Platform) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tPLATFORM\tNAME\tARCHIVE\tEXECUTABLE")

	for _, p := range platform.All() {
		mark := ""
		if p == detected {
			mark = "*"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", mark, p, p.DisplayName(), p.ArchiveName(), p.ExecutableName())
	}

	return tw.Flush()
}
