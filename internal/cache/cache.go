// Package cache stores downloaded ChromeDriver archives keyed by version so
// repeated installs of the same version skip the network.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/chromedriver-installer/internal/platform"
)

const (
	cacheMetaFile = ".chromedriver-cache-meta"
	appDir        = "chromedriver-installer"
	archivesDir   = "downloaded-bin"
	partialSuffix = ".partial"
)

// archiveMeta records where a cached archive was fetched from.
type archiveMeta struct {
	URL       string    `yaml:"url"`
	FetchedAt time.Time `yaml:"fetched_at"`
}

// cacheMeta is the sidecar written into each version directory.
type cacheMeta struct {
	Version  string                 `yaml:"version"`
	Archives map[string]archiveMeta `yaml:"archives"`
}

// Entry describes one cached version.
type Entry struct {
	Version  string
	Dir      string
	Archives []string
	Size     int64
	// FetchedAt is the most recent fetch time recorded for this version, if known.
	FetchedAt time.Time
}

// Cache manages archives under a base directory laid out as
// {base}/{version}/chromedriver_{platform}.zip.
type Cache struct {
	baseDir string
	logger  *slog.Logger
}

// New creates a Cache rooted at baseDir.
func New(baseDir string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}

	return &Cache{
		baseDir: baseDir,
		logger:  logger,
	}
}

// DefaultDir returns the default archive cache directory, respecting XDG_CACHE_HOME.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir, archivesDir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cache", appDir, archivesDir)
	}

	return filepath.Join(home, ".cache", appDir, archivesDir)
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.baseDir
}

// ArchivePath returns where the archive for version and platform lives in the cache.
func (c *Cache) ArchivePath(ver string, p platform.Platform) string {
	return filepath.Join(c.baseDir, ver, p.ArchiveName())
}

// Lookup returns the cached archive path and whether it already exists.
func (c *Cache) Lookup(ver string, p platform.Platform) (string, bool) {
	path := c.ArchivePath(ver, p)

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		c.logger.Debug("cache miss", "version", ver, "platform", p, "path", path)

		return path, false
	}

	c.logger.Debug("cache hit", "version", ver, "platform", p, "path", path)

	return path, true
}

// Store populates the cache entry for version and platform. The fetchFn receives
// a temporary path next to the archive and should write the archive there; it
// is renamed into place only once fetchFn succeeds, so an interrupted download
// never becomes a cache hit.
func (c *Cache) Store(ver string, p platform.Platform, url string, fetchFn func(dest string) error) (string, error) {
	path := c.ArchivePath(ver, p)
	dir := filepath.Dir(path)
	partial := path + partialSuffix

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating cache directory %s: %w", dir, err)
	}

	// Leftover from a killed run.
	c.removePartial(partial)

	c.logger.Debug("populating cache", "version", ver, "platform", p, "dest", path)

	if err := fetchFn(partial); err != nil {
		c.removePartial(partial)

		return "", err
	}

	if err := os.Rename(partial, path); err != nil {
		c.removePartial(partial)

		return "", fmt.Errorf("moving archive into cache %s: %w", path, err)
	}

	if err := c.recordFetch(dir, ver, p.ArchiveName(), url); err != nil {
		// The archive itself is what makes a cache hit; metadata is informational.
		c.logger.Warn("failed to write cache metadata", "dir", dir, "err", err)
	}

	return path, nil
}

// List returns the cached versions, newest first. Version directories whose
// names do not parse as versions sort after the rest, by name.
func (c *Cache) List() ([]Entry, error) {
	dirs, err := os.ReadDir(c.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading cache %s: %w", c.baseDir, err)
	}

	entries := make([]Entry, 0, len(dirs))

	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}

		entry, err := c.readEntry(d.Name())
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	sortNewestFirst(entries)

	return entries, nil
}

// Prune keeps the newest keep versions and removes the rest. It returns the
// versions it removed; removal failures are collected rather than stopping early.
func (c *Cache) Prune(keep int) ([]string, error) {
	if keep < 0 {
		return nil, fmt.Errorf("keep must be >= 0, got %d", keep)
	}

	entries, err := c.List()
	if err != nil {
		return nil, err
	}

	if len(entries) <= keep {
		return nil, nil
	}

	var (
		removed []string
		result  *multierror.Error
	)

	for _, e := range entries[keep:] {
		c.logger.Debug("pruning cached version", "version", e.Version, "dir", e.Dir)

		if err := os.RemoveAll(e.Dir); err != nil {
			result = multierror.Append(result, fmt.Errorf("removing %s: %w", e.Dir, err))

			continue
		}

		removed = append(removed, e.Version)
	}

	return removed, result.ErrorOrNil()
}

// Clean removes every cached archive and returns the number of bytes freed.
func (c *Cache) Clean() (int64, error) {
	size, err := dirSize(c.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}

		return 0, err
	}

	c.logger.Debug("removing cache directory", "dir", c.baseDir, "size", size)

	if err := os.RemoveAll(c.baseDir); err != nil {
		return 0, fmt.Errorf("removing %s: %w", c.baseDir, err)
	}

	return size, nil
}

func (c *Cache) readEntry(ver string) (Entry, error) {
	dir := filepath.Join(c.baseDir, ver)
	entry := Entry{Version: ver, Dir: dir}

	files, err := os.ReadDir(dir)
	if err != nil {
		return entry, fmt.Errorf("reading cache entry %s: %w", dir, err)
	}

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".zip") {
			continue
		}

		info, err := f.Info()
		if err != nil {
			return entry, fmt.Errorf("stat %s: %w", filepath.Join(dir, f.Name()), err)
		}

		entry.Archives = append(entry.Archives, f.Name())
		entry.Size += info.Size()
	}

	if meta, err := readCacheMeta(filepath.Join(dir, cacheMetaFile)); err == nil {
		for _, a := range meta.Archives {
			if a.FetchedAt.After(entry.FetchedAt) {
				entry.FetchedAt = a.FetchedAt
			}
		}
	}

	return entry, nil
}

func (c *Cache) removePartial(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.logger.Warn("failed to remove partial archive", "path", path, "err", err)
	}
}

func (c *Cache) recordFetch(dir, ver, archive, url string) error {
	metaPath := filepath.Join(dir, cacheMetaFile)

	meta, err := readCacheMeta(metaPath)
	if err != nil {
		meta = &cacheMeta{Version: ver}
	}

	if meta.Archives == nil {
		meta.Archives = make(map[string]archiveMeta)
	}

	meta.Archives[archive] = archiveMeta{URL: url, FetchedAt: time.Now().UTC()}

	return writeCacheMeta(metaPath, meta)
}

func sortNewestFirst(entries []Entry) {
	parsed := make(map[string]*version.Version, len(entries))

	for _, e := range entries {
		if v, err := version.NewVersion(e.Version); err == nil {
			parsed[e.Version] = v
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		vi, iok := parsed[entries[i].Version]
		vj, jok := parsed[entries[j].Version]

		switch {
		case iok && jok:
			return vi.GreaterThan(vj)
		case iok != jok:
			return iok
		default:
			return entries[i].Version < entries[j].Version
		}
	})
}

func readCacheMeta(path string) (*cacheMeta, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var meta cacheMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func writeCacheMeta(path string, meta *cacheMeta) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644) //nolint:gosec // cache metadata is not sensitive
}

func dirSize(path string) (int64, error) {
	var size int64

	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			info, infoErr := d.Info()
			if infoErr != nil {
				return infoErr
			}

			size += info.Size()
		}

		return nil
	})

	return size, err
}
