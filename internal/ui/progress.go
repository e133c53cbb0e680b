package ui

import (
	"errors"
	"io"
	"path"

	"github.com/mattn/go-isatty"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// IsTerminal reports whether fd is an interactive terminal.
func IsTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ProgressTracker draws one progress bar per download. It satisfies go-getter's
// ProgressTracker so it can be handed straight to a fetch request.
type ProgressTracker struct {
	progress *mpb.Progress
}

// NewProgressTracker creates a tracker rendering to w.
func NewProgressTracker(w io.Writer) *ProgressTracker {
	return &ProgressTracker{
		progress: mpb.New(mpb.WithOutput(w), mpb.WithWidth(40)),
	}
}

// TrackProgress wraps stream so that reads advance a bar named after src.
func (t *ProgressTracker) TrackProgress(src string, currentSize, totalSize int64, stream io.ReadCloser) io.ReadCloser {
	bar := t.progress.AddBar(totalSize,
		mpb.BarFillerClearOnComplete(),
		mpb.PrependDecorators(
			decor.Name("  "+path.Base(src)+" ", decor.WC{W: 30, C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.CountersKibiByte("% .1f / % .1f"),
			decor.OnComplete(decor.Name(""), " done"),
		),
	)

	if currentSize > 0 {
		bar.SetCurrent(currentSize)
	}

	return &trackedReader{inner: bar.ProxyReader(stream), bar: bar}
}

// Wait blocks until every bar has finished rendering.
func (t *ProgressTracker) Wait() {
	t.progress.Wait()
}

type trackedReader struct {
	inner io.ReadCloser
	bar   *mpb.Bar
}

func (r *trackedReader) Read(p []byte) (int, error) {
	n, err := r.inner.Read(p)
	if errors.Is(err, io.EOF) {
		// Unknown-length downloads only learn their size at EOF.
		r.bar.SetTotal(-1, true)
	}

	return n, err
}

func (r *trackedReader) Close() error {
	if !r.bar.Completed() {
		r.bar.Abort(false)
	}

	return r.inner.Close()
}
