// Package getter wraps hashicorp/go-getter for fetching release archives.
package getter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	getter "github.com/hashicorp/go-getter/v2"
)

// ProgressTracker receives download progress; it is go-getter's tracker interface.
type ProgressTracker = getter.ProgressTracker

// Getter wraps go-getter to fetch files over HTTP(S) and other protocols.
type Getter struct {
	client *getter.Client
	logger *slog.Logger
}

// New creates a Getter with default configuration.
func New(logger *slog.Logger) *Getter {
	if logger == nil {
		logger = slog.Default()
	}

	return &Getter{
		client: &getter.Client{
			DisableSymlinks: true,
		},
		logger: logger,
	}
}

// FetchOpts configures a fetch operation.
type FetchOpts struct {
	// NoDecompress stores archives as downloaded instead of unpacking them.
	NoDecompress bool

	// Progress, if set, is notified while the file downloads.
	Progress ProgressTracker

	// Pwd is the working directory for relative path detection.
	Pwd string
}

// FetchFile downloads a single file from src to dest.
func (g *Getter) FetchFile(ctx context.Context, src, dest string, opts FetchOpts) error {
	fullSrc := appendQueryParams(src, opts)
	g.logger.Debug("fetching file", "src", fullSrc, "dest", dest)

	req := &getter.Request{
		Src:              fullSrc,
		Dst:              dest,
		Pwd:              opts.Pwd,
		GetMode:          getter.ModeFile,
		DisableSymlinks:  true,
		ProgressListener: opts.Progress,
	}

	_, err := g.client.Get(ctx, req)
	if err != nil {
		return fmt.Errorf("fetching file %s: %w", src, err)
	}

	return nil
}

// appendQueryParams adds go-getter control parameters to a source URL.
func appendQueryParams(src string, opts FetchOpts) string {
	if !opts.NoDecompress {
		return src
	}

	sep := "?"
	if strings.Contains(src, "?") {
		sep = "&"
	}

	return src + sep + "archive=false"
}
