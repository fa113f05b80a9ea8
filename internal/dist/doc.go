// Package dist downloads, verifies, and caches the Tailwind standalone
// executable for the host platform.
//
// # Security model
//
// Artifacts are fetched only from the configured release host (the
// official GitHub releases by default). Every artifact is verified
// against the release's SHA-256 checksum manifest before it is placed
// at its final cache path; a detached PGP signature is additionally
// verified when a publisher keyring is configured. A file that exists
// at the final cache path is therefore always complete and verified.
//
// # Caching and concurrency
//
// The cache key is (resolved version, platform target). Installs stage
// into private temporary files and finish with a single atomic rename,
// so concurrent installs of the same version converge on an identical
// artifact and readers never observe a partial file. No locks are held;
// installs of different versions proceed fully in parallel.
//
// # Components
//
//   - Manager: orchestrates resolve, download, verify, install
//   - Downloader: single-attempt HTTP fetch; retry policy lives in Manager
//   - Digest/VerifyManifest: SHA-256 checksum validation
//   - Resolver ("latest"): release index query with semver ordering and
//     a time-boxed on-disk cache of the resolved version
package dist
