package dist

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultDownloadBase is the release artifact host.
	DefaultDownloadBase = "https://github.com/tailwindlabs/tailwindcss/releases/download"
	// DefaultReleaseIndex is the endpoint used to resolve "latest".
	DefaultReleaseIndex = "https://api.github.com/repos/tailwindlabs/tailwindcss/releases"
	// DefaultRetries is the default number of download retries after
	// the initial attempt.
	DefaultRetries = 3
	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 5 * time.Minute
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "twrun/1.0"

	// VersionLatest is the sentinel version spec resolved against the
	// release index at install time.
	VersionLatest = "latest"

	// checksumFile is the manifest filename published with each release.
	checksumFile = "sha256sums.txt"

	// latestTTL bounds how long a resolved "latest" version is reused
	// before the release index is consulted again.
	latestTTL = time.Hour
)

var (
	// ErrVersionNotFound indicates the requested version has no
	// published artifact for this platform.
	ErrVersionNotFound = errors.New("version not found")

	// ErrChecksumMismatch indicates a downloaded artifact failed
	// checksum verification. The artifact is never installed.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrChecksumRead indicates a file needed for verification could
	// not be read.
	ErrChecksumRead = errors.New("checksum read failed")

	// ErrSignature indicates detached signature verification failed.
	ErrSignature = errors.New("signature verification failed")
)

// DownloadError is returned when all download attempts have been
// exhausted. It carries the last underlying cause.
type DownloadError struct {
	Attempts int
	Err      error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the last underlying error, preserving the chain for
// errors.Is/errors.As checks.
func (e *DownloadError) Unwrap() error {
	return e.Err
}

// DownloadInfo contains the URLs and metadata for one install attempt.
type DownloadInfo struct {
	Version      string
	Target       string // platform artifact identifier, e.g. "linux-x64"
	URL          string // artifact URL
	ChecksumURL  string // checksum manifest URL
	SignatureURL string // detached signature URL (empty unless a keyring is configured)
}

// Result describes a completed install.
type Result struct {
	Version   string
	Target    string
	Path      string // final executable path
	FromCache bool   // true when no network access was needed
}

// Clock provides time operations. This interface enables deterministic
// testing of the "latest" freshness window.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// TestClock implements Clock with a fixed time for testing.
type TestClock struct {
	FixedTime time.Time
}

// Now returns the fixed time.
func (t TestClock) Now() time.Time {
	return t.FixedTime
}
