package dist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// release is the subset of the release index entry we care about.
type release struct {
	TagName    string `json:"tag_name"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
}

// ResolveVersion resolves a version spec to a concrete version string.
// Pinned versions pass through untouched and without network access;
// whether they exist is only discovered at download time. "latest" is
// resolved against the release index, reusing a previously resolved
// version for up to an hour so repeated calls stay off the network.
func (m *Manager) ResolveVersion(ctx context.Context, version string) (string, error) {
	if version != VersionLatest {
		return strings.TrimPrefix(version, "v"), nil
	}

	if cached, ok := m.cachedLatest(); ok {
		m.log.Debug().Str("version", cached).Msg("using cached latest version")
		return cached, nil
	}

	resolved, err := m.queryLatest(ctx)
	if err != nil {
		return "", err
	}

	m.storeLatest(resolved)
	return resolved, nil
}

// queryLatest fetches the release index and returns the highest stable
// semantic version.
func (m *Manager) queryLatest(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.releaseIndex, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := m.downloader.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("query release index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &statusError{code: resp.StatusCode, url: m.releaseIndex}
	}

	var releases []release
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return "", fmt.Errorf("decode release index: %w", err)
	}

	var best *semver.Version
	for _, rel := range releases {
		if rel.Draft || rel.Prerelease {
			continue
		}
		v, err := semver.NewVersion(strings.TrimPrefix(rel.TagName, "v"))
		if err != nil || v.Prerelease() != "" {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}

	if best == nil {
		return "", fmt.Errorf("%w: release index lists no stable versions", ErrVersionNotFound)
	}

	m.log.Debug().Str("version", best.String()).Msg("resolved latest version")
	return best.String(), nil
}

// latestMarkerPath is the on-disk cache of the last resolved "latest"
// version, stored as "<version> <RFC3339 timestamp>".
func (m *Manager) latestMarkerPath() string {
	return filepath.Join(m.cacheDir, "latest.txt")
}

func (m *Manager) cachedLatest() (string, bool) {
	data, err := os.ReadFile(m.latestMarkerPath())
	if err != nil {
		return "", false
	}

	fields := strings.Fields(string(data))
	if len(fields) != 2 {
		return "", false
	}

	resolvedAt, err := time.Parse(time.RFC3339, fields[1])
	if err != nil {
		return "", false
	}

	if m.clock.Now().Sub(resolvedAt) > latestTTL {
		return "", false
	}

	return fields[0], true
}

// storeLatest records a resolved version. Best effort: a failed write
// only costs a re-resolution next time.
func (m *Manager) storeLatest(version string) {
	if err := os.MkdirAll(m.cacheDir, 0o755); err != nil {
		return
	}
	data := fmt.Sprintf("%s %s\n", version, m.clock.Now().UTC().Format(time.RFC3339))
	if err := os.WriteFile(m.latestMarkerPath(), []byte(data), 0o644); err != nil {
		m.log.Warn().Err(err).Msg("could not record resolved latest version")
	}
}
