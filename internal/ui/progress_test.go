package ui_test

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/chromedriver-installer/internal/ui"
)

func TestProgressTracker_PassesThrough(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	tracker := ui.NewProgressTracker(&out)

	payload := strings.Repeat("z", 4096)
	rc := tracker.TrackProgress(
		"https://chromedriver.storage.googleapis.com/2.30/chromedriver_linux64.zip",
		0, int64(len(payload)),
		io.NopCloser(strings.NewReader(payload)),
	)

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	tracker.Wait()

	assert.Equal(t, payload, string(got))
}

func TestProgressTracker_UnknownLength(t *testing.T) {
	t.Parallel()

	tracker := ui.NewProgressTracker(io.Discard)

	rc := tracker.TrackProgress("http://origin/LATEST", 0, -1, io.NopCloser(strings.NewReader("abc")))

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	tracker.Wait()

	assert.Equal(t, "abc", string(got))
}

func TestProgressTracker_AbortedEarly(t *testing.T) {
	t.Parallel()

	tracker := ui.NewProgressTracker(io.Discard)

	rc := tracker.TrackProgress("http://origin/a.zip", 0, 100, io.NopCloser(strings.NewReader(strings.Repeat("x", 100))))

	buf := make([]byte, 10)
	_, err := rc.Read(buf)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	// Wait must return even though the bar never reached its total.
	tracker.Wait()
}

func TestIsTerminal_File(t *testing.T) {
	t.Parallel()

	f, err := os.CreateTemp(t.TempDir(), "not-a-tty")
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.False(t, ui.IsTerminal(f.Fd()))
}
