package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks a Config for required fields and usable values.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.BinDir) == "" {
		return fmt.Errorf("bin_dir is required")
	}

	if err := validateOrigin(cfg.OriginURL); err != nil {
		return err
	}

	if cfg.VersionCheckTimeout <= 0 {
		return fmt.Errorf("version_check_timeout must be positive, got %s", cfg.VersionCheckTimeout)
	}

	if err := ValidateVersion(cfg.Version); err != nil {
		return err
	}

	return nil
}

func validateOrigin(origin string) error {
	if strings.TrimSpace(origin) == "" {
		return fmt.Errorf("origin_url is required")
	}

	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin_url %q: %w", origin, err)
	}

	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid origin_url %q: must be an absolute URL", origin)
	}

	return nil
}

// ValidateVersion rejects versions that would escape their path segment in the
// cache directory or the archive URL. An empty version is accepted.
func ValidateVersion(v string) error {
	if v == "" {
		return nil
	}

	if strings.ContainsAny(v, `/\`) || strings.Contains(v, "..") {
		return fmt.Errorf("invalid version %q: must be a single path segment", v)
	}

	if strings.TrimSpace(v) != v {
		return fmt.Errorf("invalid version %q: surrounding whitespace", v)
	}

	return nil
}
