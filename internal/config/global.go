// Package config holds the install configuration and loads it from the project
// file, the environment, and command-line flags.
package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/donaldgifford/chromedriver-installer/internal/cache"
	"github.com/donaldgifford/chromedriver-installer/internal/release"
)

// ProjectFile is the per-project configuration file looked up in the working directory.
const ProjectFile = ".chromedriver.yaml"

// DefaultVersionCheckTimeout bounds the "--version" probe of an installed binary.
const DefaultVersionCheckTimeout = 10 * time.Second

// Config is the complete input of one install run. It is built once and passed
// by value; nothing in the install routine mutates it.
type Config struct {
	// BinDir is where the executable is installed.
	BinDir string `mapstructure:"bin_dir" yaml:"bin_dir"`
	// CacheDir holds downloaded archives keyed by version. Empty disables caching.
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir"`
	// NoCache downloads straight into BinDir and removes the archive afterwards.
	NoCache bool `mapstructure:"no_cache" yaml:"no_cache"`
	// Version pins the ChromeDriver version.
	Version string `mapstructure:"version" yaml:"version"`
	// AutoDetect queries LATEST_RELEASE when no version is pinned.
	AutoDetect bool `mapstructure:"auto_detect" yaml:"auto_detect"`
	// BypassSelect skips the interactive platform selection.
	BypassSelect bool `mapstructure:"bypass_select" yaml:"bypass_select"`
	// OriginURL is the release host.
	OriginURL string `mapstructure:"origin_url" yaml:"origin_url"`
	// VersionCheckTimeout bounds the installed-version probe.
	VersionCheckTimeout time.Duration `mapstructure:"version_check_timeout" yaml:"version_check_timeout"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		BinDir:              "bin",
		CacheDir:            cache.DefaultDir(),
		AutoDetect:          true,
		OriginURL:           release.DefaultOrigin,
		VersionCheckTimeout: DefaultVersionCheckTimeout,
	}
}

// CacheEnabled reports whether archives are kept in CacheDir between runs.
func (c Config) CacheEnabled() bool {
	return !c.NoCache && c.CacheDir != ""
}

// expandPaths resolves a leading "~" in the directory settings.
func (c Config) expandPaths() (Config, error) {
	bin, err := homedir.Expand(c.BinDir)
	if err != nil {
		return c, fmt.Errorf("expanding bin_dir %q: %w", c.BinDir, err)
	}

	cacheDir, err := homedir.Expand(c.CacheDir)
	if err != nil {
		return c, fmt.Errorf("expanding cache_dir %q: %w", c.CacheDir, err)
	}

	c.BinDir = bin
	c.CacheDir = cacheDir

	return c, nil
}
