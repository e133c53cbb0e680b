package release_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/chromedriver-installer/internal/platform"
	"github.com/donaldgifford/chromedriver-installer/internal/release"
)

func TestRemotePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version  string
		platform platform.Platform
		expected string
	}{
		{"91.0", platform.Linux64, "91.0/chromedriver_linux64.zip"},
		{"91.0", platform.Linux32, "91.0/chromedriver_linux32.zip"},
		{"91.0", platform.Mac64, "91.0/chromedriver_mac64.zip"},
		{"91.0", platform.Win32, "91.0/chromedriver_win32.zip"},
		{"2.30", platform.Linux64, "2.30/chromedriver_linux64.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, release.RemotePath(tt.version, tt.platform))
		})
	}
}

func TestArchiveURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"https://chromedriver.storage.googleapis.com/2.30/chromedriver_mac64.zip",
		release.ArchiveURL(release.DefaultOrigin, "2.30", platform.Mac64),
	)

	// Trailing slash on the origin does not double up.
	assert.Equal(t,
		"http://mirror.local/2.30/chromedriver_win32.zip",
		release.ArchiveURL("http://mirror.local/", "2.30", platform.Win32),
	)
}

func TestLatestURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://chromedriver.storage.googleapis.com/LATEST_RELEASE", release.LatestURL(release.DefaultOrigin))
}

func TestResolver_Latest(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/LATEST_RELEASE", r.URL.Path)
		_, _ = w.Write([]byte("91.0.4472.101"))
	}))
	t.Cleanup(srv.Close)

	r := release.NewResolver(srv.URL, srv.Client(), nil)

	v, err := r.Latest(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "91.0.4472.101", v)
}

func TestResolver_LatestBadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	r := release.NewResolver(srv.URL, nil, nil)

	_, err := r.Latest(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestResolver_LatestEmptyBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	r := release.NewResolver(srv.URL, nil, nil)

	_, err := r.Latest(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty version body")
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("114.0.5735.90"))
	}))
	t.Cleanup(srv.Close)

	r := release.NewResolver(srv.URL, nil, nil)

	tests := []struct {
		name       string
		pinned     string
		autoDetect bool
		version    string
		source     release.Source
	}{
		{name: "pinned wins", pinned: "2.41", autoDetect: true, version: "2.41", source: release.SourcePinned},
		{name: "default without auto-detect", version: release.DefaultVersion, source: release.SourceDefault},
		{name: "latest", autoDetect: true, version: "114.0.5735.90", source: release.SourceLatest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, src, err := r.Resolve(t.Context(), tt.pinned, tt.autoDetect)
			require.NoError(t, err)
			assert.Equal(t, tt.version, v)
			assert.Equal(t, tt.source, src)
		})
	}

	assert.Equal(t, int32(1), hits.Load(), "only the latest case should hit the origin")
}

func TestResolver_ResolveLatestFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	r := release.NewResolver(srv.URL, nil, nil)

	v, src, err := r.Resolve(t.Context(), "", true)
	require.Error(t, err)
	assert.Empty(t, v)
	assert.Equal(t, release.SourceLatest, src)
}
