// Package installer runs one ChromeDriver install: platform detection, version
// resolution, cache-aware download, extraction and permission fix-up.
package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/donaldgifford/chromedriver-installer/internal/cache"
	"github.com/donaldgifford/chromedriver-installer/internal/config"
	"github.com/donaldgifford/chromedriver-installer/internal/extract"
	"github.com/donaldgifford/chromedriver-installer/internal/getter"
	"github.com/donaldgifford/chromedriver-installer/internal/platform"
	"github.com/donaldgifford/chromedriver-installer/internal/release"
	"github.com/donaldgifford/chromedriver-installer/internal/ui"
)

// UnknownPlatformMessage is printed when the host has no matching build.
const UnknownPlatformMessage = "Could not guess your platform, download chromedriver manually."

// Opts holds the collaborators of an install run.
type Opts struct {
	// Config is the resolved install configuration.
	Config config.Config

	// Select lets the user override the detected platform. If nil, or when
	// Config.BypassSelect is set, the detected platform is used.
	Select platform.SelectFn

	// Resolver looks up the latest version. If nil, one is built for Config.OriginURL.
	Resolver *release.Resolver

	// Getter downloads archives. If nil, a default Getter is used.
	Getter *getter.Getter

	// Progress, if set, renders download progress.
	Progress getter.ProgressTracker

	// UI receives the status lines. If nil, status output is discarded.
	UI *ui.Writer

	// OS and IntSize describe the host. Zero values mean the running host.
	OS      string
	IntSize int

	// Logger for debug output.
	Logger *slog.Logger
}

// Result describes what an install run did.
type Result struct {
	Platform      platform.Platform
	Version       string
	VersionSource release.Source

	// Executable is the installed binary path.
	Executable string
	// Archive is the archive that was extracted. Empty when nothing was extracted.
	Archive string

	// Aborted is set when the platform could not be determined.
	Aborted          bool
	AlreadyInstalled bool
	CacheHit         bool
	Downloaded       bool
}

// Install performs one end-to-end install described by opts.
func Install(ctx context.Context, opts *Opts) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	out := opts.UI
	if out == nil {
		out = ui.Discard()
	}

	cfg := opts.Config

	detected, err := platform.Detect(hostOS(opts), hostIntSize(opts))
	if err != nil {
		logger.Warn("platform detection failed", "os", hostOS(opts), "err", err)
		out.Warning(UnknownPlatformMessage)

		return &Result{Aborted: true}, nil
	}

	p, err := platform.Choose(detected, cfg.BypassSelect, opts.Select)
	if err != nil {
		return nil, err
	}

	out.Infof("Selected platform %s", p.DisplayName())

	resolver := opts.Resolver
	if resolver == nil {
		resolver = release.NewResolver(cfg.OriginURL, nil, logger)
	}

	ver, source, err := resolver.Resolve(ctx, cfg.Version, cfg.AutoDetect)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVersionResolution, err)
	}

	// The latest version comes from the origin and ends up in file paths.
	if err := config.ValidateVersion(ver); err != nil {
		return nil, fmt.Errorf("%w: %s version: %w", ErrVersionResolution, source, err)
	}

	out.Infof("Resolved ChromeDriver version %s (%s)", ver, source)

	res := &Result{
		Platform:      p,
		Version:       ver,
		VersionSource: source,
		Executable:    extract.ExecutablePath(cfg.BinDir, p),
	}

	if CheckInstalled(ctx, res.Executable, p, ver, cfg.VersionCheckTimeout, logger) {
		out.Infof("ChromeDriver %s already installed at %s", ver, res.Executable)

		res.AlreadyInstalled = true

		return res, nil
	}

	archive, err := obtainArchive(ctx, opts, res, out, logger)
	if err != nil {
		return nil, err
	}

	res.Archive = archive

	if err := extract.Zip(archive, cfg.BinDir, logger); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	if err := extract.FinalizePermissions(cfg.BinDir, p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPermission, err)
	}

	if !cfg.CacheEnabled() {
		if err := os.Remove(archive); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to remove downloaded archive", "path", archive, "err", err)
		}

		res.Archive = ""
	}

	out.Successf("Installed %s", res.Executable)

	return res, nil
}

// obtainArchive returns a local archive for the resolved version, reusing the
// cache when enabled and downloading otherwise.
func obtainArchive(
	ctx context.Context,
	opts *Opts,
	res *Result,
	out *ui.Writer,
	logger *slog.Logger,
) (string, error) {
	cfg := opts.Config
	url := release.ArchiveURL(cfg.OriginURL, res.Version, res.Platform)

	g := opts.Getter
	if g == nil {
		g = getter.New(logger)
	}

	fetch := func(dest string) error {
		out.Infof("Downloading Chromedriver version %s for %s", res.Version, res.Platform.DisplayName())

		err := g.FetchFile(ctx, url, dest, getter.FetchOpts{
			NoDecompress: true,
			Progress:     opts.Progress,
		})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNetwork, err)
		}

		res.Downloaded = true

		return nil
	}

	if !cfg.CacheEnabled() {
		if err := os.MkdirAll(cfg.BinDir, 0o755); err != nil { //nolint:gosec // bin directories are world-readable
			return "", fmt.Errorf("creating bin dir %s: %w", cfg.BinDir, err)
		}

		dest := filepath.Join(cfg.BinDir, res.Platform.ArchiveName())
		if err := fetch(dest); err != nil {
			return "", err
		}

		return dest, nil
	}

	c := cache.New(cfg.CacheDir, logger)

	if path, ok := c.Lookup(res.Version, res.Platform); ok {
		out.Infof("Using cached version of %s", res.Platform.ArchiveName())

		res.CacheHit = true

		return path, nil
	}

	return c.Store(res.Version, res.Platform, url, fetch)
}

// CheckInstalled reports whether exePath is an executable that reports the
// expected version on "--version". Any failure counts as not installed.
func CheckInstalled(
	ctx context.Context,
	exePath string,
	p platform.Platform,
	version string,
	timeout time.Duration,
	logger *slog.Logger,
) bool {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(exePath)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	if p.UnixPermissions() && info.Mode().Perm()&0o111 == 0 {
		return false
	}

	if timeout <= 0 {
		timeout = config.DefaultVersionCheckTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout bytes.Buffer

	cmd := exec.CommandContext(ctx, exePath, "--version")
	cmd.Stdout = &stdout
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		logger.Debug("version probe failed", "path", exePath, "err", err)

		return false
	}

	return strings.HasPrefix(strings.TrimSpace(stdout.String()), "ChromeDriver "+version)
}

func hostOS(opts *Opts) string {
	if opts.OS != "" {
		return opts.OS
	}

	return runtime.GOOS
}

func hostIntSize(opts *Opts) int {
	if opts.IntSize != 0 {
		return opts.IntSize
	}

	return strconv.IntSize
}
