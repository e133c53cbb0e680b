package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/donaldgifford/chromedriver-installer/internal/config"
)

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"bin-dir":        "bin_dir",
	"cache-dir":      "cache_dir",
	"no-cache":       "no_cache",
	"driver-version": "version",
	"bypass-select":  "bypass_select",
	"origin":         "origin_url",
}

// addInstallFlags registers the flags shared by every command that runs an install.
func addInstallFlags(fs *pflag.FlagSet) {
	fs.String("bin-dir", "", "directory the chromedriver executable is installed into")
	fs.String("cache-dir", "", "directory downloaded archives are cached in")
	fs.Bool("no-cache", false, "download straight into the bin directory without caching")
	fs.String("driver-version", "", "ChromeDriver version to install (default: latest release)")
	fs.Bool("latest", false, "ignore a pinned version and install the latest release")
	fs.Bool("bypass-select", false, "skip the interactive platform selection")
	fs.String("origin", "", "release host serving ChromeDriver archives")
}

// loadConfig resolves the configuration for cmd: defaults, then the config
// file, then CHROMEDRIVER_* environment variables, then flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v := config.NewViper()

	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}

		if err := v.BindPFlag(key, f); err != nil {
			return config.Config{}, fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return config.Config{}, err
	}

	if latest, err := cmd.Flags().GetBool("latest"); err == nil && latest {
		cfg.Version = ""
		cfg.AutoDetect = true
	}

	return cfg, nil
}
