package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/chromedriver-installer/internal/cache"
	"github.com/donaldgifford/chromedriver-installer/internal/ui"
)

var cachePruneKeep int

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the archive cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached ChromeDriver versions",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove all but the newest cached versions",
	Args:  cobra.NoArgs,
	RunE:  runCachePrune,
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clear every cached archive",
	Long:  `Remove all cached archives to free disk space.`,
	Args:  cobra.NoArgs,
	RunE:  runCacheClean,
}

func init() {
	cacheCmd.PersistentFlags().String("cache-dir", "", "directory downloaded archives are cached in")
	cachePruneCmd.Flags().IntVar(&cachePruneKeep, "keep", 1, "number of newest versions to keep")

	cacheCmd.AddCommand(cacheListCmd, cachePruneCmd, cacheCleanCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openCache(cmd *cobra.Command) (*cache.Cache, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if cfg.CacheDir == "" {
		return nil, fmt.Errorf("no cache directory configured")
	}

	return cache.New(cfg.CacheDir, slog.Default()), nil
}

func runCacheList(cmd *cobra.Command, _ []string) error {
	w := ui.NewWriter(noColor)

	c, err := openCache(cmd)
	if err != nil {
		return err
	}

	entries, err := c.List()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		w.Infof("No cached versions in %s", c.Dir())

		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tARCHIVES\tSIZE\tFETCHED\t")

	for _, e := range entries {
		fetched := "-"
		if !e.FetchedAt.IsZero() {
			fetched = e.FetchedAt.Local().Format("2006-01-02 15:04")
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", e.Version, strings.Join(e.Archives, ","), formatBytes(e.Size), fetched)
	}

	return tw.Flush()
}

func runCachePrune(cmd *cobra.Command, _ []string) error {
	w := ui.NewWriter(noColor)

	c, err := openCache(cmd)
	if err != nil {
		return err
	}

	removed, err := c.Prune(cachePruneKeep)
	for _, v := range removed {
		w.Successf("Removed cached version %s", v)
	}

	if err != nil {
		return fmt.Errorf("pruning cache: %w", err)
	}

	if len(removed) == 0 {
		w.Info("Nothing to prune")
	}

	return nil
}

func runCacheClean(cmd *cobra.Command, _ []string) error {
	w := ui.NewWriter(noColor)

	c, err := openCache(cmd)
	if err != nil {
		return err
	}

	freed, err := c.Clean()
	if err != nil {
		return fmt.Errorf("cleaning archive cache: %w", err)
	}

	if freed > 0 {
		w.Successf("Cleaned archive cache (%s)", formatBytes(freed))
	} else {
		w.Info("Archive cache already clean")
	}

	return nil
}

func formatBytes(b int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)

	switch {
	case b >= gb:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
