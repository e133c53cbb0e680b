package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/chromedriver-installer/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), config.ProjectFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
bin_dir: /opt/project/bin
cache_dir: /var/cache/chromedriver
version: "2.41"
bypass_select: true
origin_url: http://mirror.internal/chromedriver
version_check_timeout: 3s
`)

	cfg, err := config.Load(config.NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/project/bin", cfg.BinDir)
	assert.Equal(t, "/var/cache/chromedriver", cfg.CacheDir)
	assert.Equal(t, "2.41", cfg.Version)
	assert.True(t, cfg.BypassSelect)
	assert.True(t, cfg.AutoDetect, "unset keys keep their defaults")
	assert.Equal(t, "http://mirror.internal/chromedriver", cfg.OriginURL)
	assert.Equal(t, 3*time.Second, cfg.VersionCheckTimeout)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "{}\n")

	cfg, err := config.Load(config.NewViper(), path)
	require.NoError(t, err)

	d := config.Default()
	assert.Equal(t, d.BinDir, cfg.BinDir)
	assert.Equal(t, d.OriginURL, cfg.OriginURL)
	assert.Equal(t, d.VersionCheckTimeout, cfg.VersionCheckTimeout)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(config.NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "bin_dir: [unterminated\n")

	_, err := config.Load(config.NewViper(), path)
	require.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "origin_url: not-a-url\n")

	_, err := config.Load(config.NewViper(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating config")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CHROMEDRIVER_VERSION", "2.35")
	t.Setenv("CHROMEDRIVER_NO_CACHE", "true")

	path := writeConfig(t, "version: \"2.30\"\n")

	cfg, err := config.Load(config.NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, "2.35", cfg.Version)
	assert.True(t, cfg.NoCache)
	assert.False(t, cfg.CacheEnabled())
}

func TestLoad_ExplicitSetWins(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "bin_dir: from-file\n")

	v := config.NewViper()
	v.Set("bin_dir", "from-flag")

	cfg, err := config.Load(v, path)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.BinDir)
}

func TestLoad_ExpandsHome(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "bin_dir: ~/drivers\ncache_dir: ~/.cache/cd\n")

	cfg, err := config.Load(config.NewViper(), path)
	require.NoError(t, err)

	assert.False(t, strings.HasPrefix(cfg.BinDir, "~"))
	assert.True(t, strings.HasSuffix(cfg.BinDir, "drivers"))
	assert.False(t, strings.HasPrefix(cfg.CacheDir, "~"))
}
