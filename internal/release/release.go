// Package release resolves ChromeDriver versions and builds download locations
// on the release origin.
package release

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/donaldgifford/chromedriver-installer/internal/platform"
)

const (
	// DefaultOrigin is the host serving ChromeDriver archives.
	DefaultOrigin = "https://chromedriver.storage.googleapis.com"

	// DefaultVersion is installed when no version is pinned and auto-detection is off.
	DefaultVersion = "2.30"

	// LatestReleasePath serves the newest version as a plain-text body.
	LatestReleasePath = "LATEST_RELEASE"

	// maxVersionBody bounds how much of the LATEST_RELEASE response is read.
	maxVersionBody = 4096
)

// Source records where a resolved version came from.
type Source string

// Version sources.
const (
	SourcePinned  Source = "pinned"
	SourceLatest  Source = "latest"
	SourceDefault Source = "default"
)

// RemotePath returns the archive path relative to the origin,
// e.g. "2.30/chromedriver_linux64.zip".
func RemotePath(version string, p platform.Platform) string {
	return version + "/" + p.ArchiveName()
}

// ArchiveURL returns the absolute archive URL for a version and platform.
func ArchiveURL(origin, version string, p platform.Platform) string {
	return strings.TrimRight(origin, "/") + "/" + RemotePath(version, p)
}

// LatestURL returns the URL of the LATEST_RELEASE endpoint.
func LatestURL(origin string) string {
	return strings.TrimRight(origin, "/") + "/" + LatestReleasePath
}

// Resolver looks up versions on the release origin.
type Resolver struct {
	client *http.Client
	origin string
	logger *slog.Logger
}

// NewResolver creates a Resolver for origin. A nil client uses a clean,
// non-shared HTTP client.
func NewResolver(origin string, client *http.Client, logger *slog.Logger) *Resolver {
	if client == nil {
		client = cleanhttp.DefaultClient()
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		client: client,
		origin: origin,
		logger: logger,
	}
}

// Latest fetches the LATEST_RELEASE body and returns it verbatim.
func (r *Resolver) Latest(ctx context.Context) (string, error) {
	url := LatestURL(r.origin)
	r.logger.Debug("fetching latest release", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request for %s: %w", url, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting %s: %w", url, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("requesting %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxVersionBody))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}

	if len(body) == 0 {
		return "", fmt.Errorf("requesting %s: empty version body", url)
	}

	return string(body), nil
}

// Resolve picks the version to install: the pinned version when set, the
// LATEST_RELEASE version when autoDetect is on, and DefaultVersion otherwise.
// A failed latest lookup is returned as-is; there is no fallback.
func (r *Resolver) Resolve(ctx context.Context, pinned string, autoDetect bool) (string, Source, error) {
	if pinned != "" {
		return pinned, SourcePinned, nil
	}

	if !autoDetect {
		return DefaultVersion, SourceDefault, nil
	}

	v, err := r.Latest(ctx)
	if err != nil {
		return "", SourceLatest, err
	}

	return v, SourceLatest, nil
}
