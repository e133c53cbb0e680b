package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CHROMEDRIVER_VERSION.
const EnvPrefix = "CHROMEDRIVER"

// NewViper returns a viper instance carrying the defaults and environment
// binding. Callers bind command-line flags onto it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Default()

	v.SetDefault("bin_dir", d.BinDir)
	v.SetDefault("cache_dir", d.CacheDir)
	v.SetDefault("no_cache", d.NoCache)
	v.SetDefault("version", d.Version)
	v.SetDefault("auto_detect", d.AutoDetect)
	v.SetDefault("bypass_select", d.BypassSelect)
	v.SetDefault("origin_url", d.OriginURL)
	v.SetDefault("version_check_timeout", d.VersionCheckTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file and resolves the final Config. When path is empty
// the project file is looked up in the working directory and may be absent.
// An explicitly given path must exist.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(ProjectFile, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	cfg, err := cfg.expandPaths()
	if err != nil {
		return Config{}, err
	}

	if err := Validate(&cfg); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}
