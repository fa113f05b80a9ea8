package dist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/twrun/twrun/internal/platform"
)

// Manager orchestrates version resolution, download, verification, and
// installation into the cache directory, which it exclusively owns.
type Manager struct {
	cacheDir         string
	platform         *platform.Info
	maxRetries       int
	downloadBase     string
	releaseIndex     string
	artifactTemplate string
	keyringPath      string
	clock            Clock
	downloader       *Downloader
	log              zerolog.Logger

	backoffInitial time.Duration
}

// Config holds configuration for the distribution manager. CacheDir and
// Platform are required; everything else has working defaults.
type Config struct {
	// CacheDir is the root of the download cache. The manager is the
	// only writer under this directory.
	CacheDir string
	// Platform is the host platform the artifact is selected for.
	Platform *platform.Info
	// MaxRetries is the number of retries after the initial attempt
	// for transient failures. Zero means DefaultRetries; a negative
	// value disables retries.
	MaxRetries int
	// DownloadBase overrides the release artifact host.
	DownloadBase string
	// ReleaseIndex overrides the endpoint used to resolve "latest".
	ReleaseIndex string
	// ArtifactTemplate overrides the artifact filename pattern
	// ("tailwindcss-{target}" by default). A template ending in
	// .tar.gz marks the artifact as an archive to extract.
	ArtifactTemplate string
	// KeyringPath optionally points at a publisher PGP keyring; when
	// set, the detached signature is downloaded and verified too.
	KeyringPath string
	// Clock injects time for tests; defaults to the system clock.
	Clock Clock
	// Logger receives debug/progress events; nil disables logging.
	Logger *zerolog.Logger
}

// NewManager creates a new distribution manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.CacheDir == "" {
		return nil, fmt.Errorf("CacheDir is required")
	}
	if cfg.Platform == nil {
		return nil, fmt.Errorf("Platform is required")
	}

	retries := cfg.MaxRetries
	switch {
	case retries == 0:
		retries = DefaultRetries
	case retries < 0:
		retries = 0
	}

	downloadBase := cfg.DownloadBase
	if downloadBase == "" {
		downloadBase = DefaultDownloadBase
	}
	releaseIndex := cfg.ReleaseIndex
	if releaseIndex == "" {
		releaseIndex = DefaultReleaseIndex
	}
	template := cfg.ArtifactTemplate
	if template == "" {
		template = "tailwindcss-{target}"
	}
	clock := cfg.Clock
	if clock == nil {
		clock = RealClock{}
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	return &Manager{
		cacheDir:         cfg.CacheDir,
		platform:         cfg.Platform,
		maxRetries:       retries,
		downloadBase:     downloadBase,
		releaseIndex:     releaseIndex,
		artifactTemplate: template,
		keyringPath:      cfg.KeyringPath,
		clock:            clock,
		downloader:       NewDownloader(log),
		log:              log,
		backoffInitial:   500 * time.Millisecond,
	}, nil
}

// ExecutablePath returns the deterministic cache path for a concrete
// version on this platform. The file may or may not exist yet.
func (m *Manager) ExecutablePath(version string) (string, error) {
	target, err := Target(m.platform)
	if err != nil {
		return "", err
	}
	return m.executablePath(version, target), nil
}

func (m *Manager) executablePath(version, target string) string {
	// Windows targets carry an .exe suffix that doesn't belong in a
	// directory name.
	dir := strings.TrimSuffix(target, ".exe")
	return filepath.Join(m.cacheDir, version, dir, ExecutableName(m.platform))
}

// IsInstalled reports whether a complete executable sits at path.
// Anything at the final path was placed by a verified install.
func (m *Manager) IsInstalled(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
		return false
	}
	if m.platform.IsWindows() {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

// downloadInfo builds the URLs for one release.
func (m *Manager) downloadInfo(version, target string) *DownloadInfo {
	name := artifactName(m.artifactTemplate, target)
	base := fmt.Sprintf("%s/v%s", m.downloadBase, version)

	info := &DownloadInfo{
		Version:     version,
		Target:      target,
		URL:         fmt.Sprintf("%s/%s", base, name),
		ChecksumURL: fmt.Sprintf("%s/%s", base, checksumFile),
	}
	if m.keyringPath != "" {
		info.SignatureURL = info.URL + ".asc"
	}
	return info
}

// Install resolves the version spec and ensures a verified executable
// exists in the cache, returning its path. An already cached executable
// is returned without any network access. Safe to call concurrently
// for the same version: installs stage privately and finish with an
// atomic rename, so racing callers converge on the same artifact.
func (m *Manager) Install(ctx context.Context, version string) (*Result, error) {
	resolved, err := m.ResolveVersion(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("resolve version: %w", err)
	}

	target, err := Target(m.platform)
	if err != nil {
		return nil, err
	}

	finalPath := m.executablePath(resolved, target)
	if m.IsInstalled(finalPath) {
		m.log.Debug().Str("path", finalPath).Msg("executable already cached")
		return &Result{Version: resolved, Target: target, Path: finalPath, FromCache: true}, nil
	}

	info := m.downloadInfo(resolved, target)

	attempts := 0
	operation := func() error {
		attempts++
		if err := m.installOnce(ctx, info, finalPath); err != nil {
			m.log.Debug().Err(err).Int("attempt", attempts).Msg("install attempt failed")
			return m.classify(ctx, err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = m.backoffInitial
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(m.maxRetries)), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		if isPermanentInstallError(err) {
			return nil, err
		}
		return nil, &DownloadError{Attempts: attempts, Err: err}
	}

	m.log.Info().Str("version", resolved).Str("target", target).Str("path", finalPath).Msg("installed")
	return &Result{Version: resolved, Target: target, Path: finalPath}, nil
}

// classify wraps non-retryable failures in backoff.Permanent so the
// retry loop stops immediately: a missing artifact or a reproducible
// verification failure will not get better by retrying.
func (m *Manager) classify(ctx context.Context, err error) error {
	var se *statusError
	if errors.As(err, &se) {
		if se.notFound() {
			return backoff.Permanent(fmt.Errorf("%w: %v", ErrVersionNotFound, err))
		}
		if se.permanent() {
			return backoff.Permanent(err)
		}
		return err
	}

	if errors.Is(err, ErrChecksumMismatch) || errors.Is(err, ErrSignature) {
		return backoff.Permanent(err)
	}
	if ctx.Err() != nil {
		return backoff.Permanent(err)
	}

	return err
}

func isPermanentInstallError(err error) bool {
	return errors.Is(err, ErrVersionNotFound) ||
		errors.Is(err, ErrChecksumMismatch) ||
		errors.Is(err, ErrSignature) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// installOnce runs one full download-verify-place cycle. All staging
// happens in private temp files next to the final path so the closing
// rename is atomic and concurrent installs never share state.
func (m *Manager) installOnce(ctx context.Context, info *DownloadInfo, finalPath string) error {
	destDir := filepath.Dir(finalPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	artifactPath, cleanupArtifact, err := m.stage(destDir, ".artifact-*")
	if err != nil {
		return err
	}
	defer cleanupArtifact()

	manifestPath, cleanupManifest, err := m.stage(destDir, ".manifest-*")
	if err != nil {
		return err
	}
	defer cleanupManifest()

	if err := m.downloader.Fetch(ctx, info.URL, artifactPath); err != nil {
		return fmt.Errorf("download artifact: %w", err)
	}
	if err := m.downloader.Fetch(ctx, info.ChecksumURL, manifestPath); err != nil {
		return fmt.Errorf("download checksum manifest: %w", err)
	}

	digest, err := Digest(artifactPath)
	if err != nil {
		return err
	}

	ok, err := VerifyManifest(manifestPath, digest)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: digest %s not listed for %s", ErrChecksumMismatch, digest, filepath.Base(info.URL))
	}

	if info.SignatureURL != "" {
		sigPath, cleanupSig, err := m.stage(destDir, ".signature-*")
		if err != nil {
			return err
		}
		defer cleanupSig()

		if err := m.downloader.Fetch(ctx, info.SignatureURL, sigPath); err != nil {
			return fmt.Errorf("download signature: %w", err)
		}
		if err := verifyDetachedSignature(m.keyringPath, artifactPath, sigPath); err != nil {
			return err
		}
	}

	stagedBinary := artifactPath
	if strings.HasSuffix(info.URL, ".tar.gz") {
		binPath, cleanupBin, err := m.stage(destDir, ".binary-*")
		if err != nil {
			return err
		}
		defer cleanupBin()

		if err := extractBinary(artifactPath, binPath, ExecutableName(m.platform)); err != nil {
			return fmt.Errorf("extract binary: %w", err)
		}
		stagedBinary = binPath
	}

	// Exec bits go on before the rename so the final path never holds
	// a non-executable file.
	if err := setExecutable(stagedBinary); err != nil {
		return err
	}
	return m.place(stagedBinary, finalPath)
}

// place promotes the staged binary to the final path. On platforms
// where rename cannot replace an existing file, a racing install may
// have won already; a complete executable at the destination counts as
// success so concurrent same-version installs still converge.
func (m *Manager) place(stagedBinary, finalPath string) error {
	if err := os.Rename(stagedBinary, finalPath); err != nil {
		if m.IsInstalled(finalPath) {
			return nil
		}
		return fmt.Errorf("place executable: %w", err)
	}
	return nil
}

// stage creates a private temp file in dir and returns its path plus a
// cleanup function. The cleanup is a no-op once the file has been
// renamed away.
func (m *Manager) stage(dir, pattern string) (string, func(), error) {
	f, err := os.CreateTemp(dir, ".twrun"+pattern)
	if err != nil {
		return "", nil, fmt.Errorf("create staging file: %w", err)
	}
	path := f.Name()
	f.Close()
	return path, func() { os.Remove(path) }, nil
}
