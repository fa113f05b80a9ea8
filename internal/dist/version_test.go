package dist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/twrun/twrun/internal/platform"
)

func newTestManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	if cfg.CacheDir == "" {
		cfg.CacheDir = t.TempDir()
	}
	if cfg.Platform == nil {
		cfg.Platform = &platform.Info{OS: "linux", Arch: "amd64"}
	}
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	m.backoffInitial = time.Millisecond
	return m
}

func TestResolveVersionPinnedSkipsNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("pinned version must not touch the release index")
	}))
	defer server.Close()

	m := newTestManager(t, Config{ReleaseIndex: server.URL})

	got, err := m.ResolveVersion(context.Background(), "4.1.5")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != "4.1.5" {
		t.Errorf("resolved = %q, want 4.1.5", got)
	}

	// A leading v is tolerated and stripped.
	got, err = m.ResolveVersion(context.Background(), "v4.1.5")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != "4.1.5" {
		t.Errorf("resolved = %q, want 4.1.5", got)
	}
}

func TestResolveVersionLatest(t *testing.T) {
	index := `[
		{"tag_name": "v4.0.0"},
		{"tag_name": "v4.1.5"},
		{"tag_name": "v4.2.0-beta.1", "prerelease": true},
		{"tag_name": "v4.3.0", "draft": true},
		{"tag_name": "not-a-version"},
		{"tag_name": "v4.0.17"}
	]`

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, index)
	}))
	defer server.Close()

	m := newTestManager(t, Config{ReleaseIndex: server.URL})

	got, err := m.ResolveVersion(context.Background(), VersionLatest)
	if err != nil {
		t.Fatalf("resolve latest failed: %v", err)
	}
	if got != "4.1.5" {
		t.Errorf("resolved = %q, want 4.1.5 (highest stable release)", got)
	}
	if requests != 1 {
		t.Fatalf("expected 1 index request, got %d", requests)
	}

	// A second resolution inside the freshness window reuses the
	// recorded version without hitting the index again.
	got, err = m.ResolveVersion(context.Background(), VersionLatest)
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if got != "4.1.5" {
		t.Errorf("cached resolved = %q, want 4.1.5", got)
	}
	if requests != 1 {
		t.Errorf("expected cached resolution, index requests = %d", requests)
	}
}

func TestResolveVersionLatestExpiredMarker(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `[{"tag_name": "v4.1.6"}]`)
	}))
	defer server.Close()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(t, Config{ReleaseIndex: server.URL, Clock: TestClock{FixedTime: now}})

	// Marker written two hours before the fixed clock: stale.
	stale := fmt.Sprintf("4.1.5 %s\n", now.Add(-2*time.Hour).Format(time.RFC3339))
	if err := os.WriteFile(m.latestMarkerPath(), []byte(stale), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	got, err := m.ResolveVersion(context.Background(), VersionLatest)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != "4.1.6" {
		t.Errorf("resolved = %q, want fresh 4.1.6", got)
	}
	if requests != 1 {
		t.Errorf("stale marker should force an index query, requests = %d", requests)
	}
}

func TestResolveVersionLatestCorruptMarker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"tag_name": "v4.1.6"}]`)
	}))
	defer server.Close()

	m := newTestManager(t, Config{ReleaseIndex: server.URL})
	if err := os.WriteFile(m.latestMarkerPath(), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	got, err := m.ResolveVersion(context.Background(), VersionLatest)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != "4.1.6" {
		t.Errorf("resolved = %q, want 4.1.6", got)
	}
}

func TestResolveVersionLatestNoStableReleases(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"tag_name": "v5.0.0-alpha.1", "prerelease": true}]`)
	}))
	defer server.Close()

	m := newTestManager(t, Config{ReleaseIndex: server.URL})

	_, err := m.ResolveVersion(context.Background(), VersionLatest)
	if !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("expected ErrVersionNotFound, got: %v", err)
	}
}
