// Package platform detects the host operating system, CPU architecture,
// and (on Linux) distribution details, and maps them onto the naming
// scheme used by the Tailwind standalone release artifacts.
//
// Detection uses runtime.GOOS/GOARCH plus gopsutil for Linux distribution
// lookup, with graceful fallback when the distribution cannot be
// identified. The distribution matters because musl-based systems
// (Alpine) need the dedicated -musl artifact variants.
package platform

import "context"

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux (musl libc)
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains platform detection information.
type Info struct {
	OS       string // "linux", "darwin", "windows"
	Arch     string // "amd64", "arm64", "arm" (normalized)
	ArchRaw  string // original GOARCH value
	Platform string // distro ID (Linux only, e.g. "ubuntu", "alpine")
	Family   string // canonical family (e.g. "debian", "alpine")
	Version  string // distro version (Linux only, e.g. "3.20")
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// IsMusl returns true if the platform links against musl libc.
// Alpine is the only musl family the release publisher ships
// dedicated artifacts for.
func (i *Info) IsMusl() bool {
	return i.OS == "linux" && i.Family == FamilyAlpine
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// Static returns a fixed detector for the given info. Used by callers
// that already know the platform (tests, cross-target tooling).
func Static(info *Info) Detector {
	return staticDetector{info: info}
}

type staticDetector struct {
	info *Info
}

func (d staticDetector) Detect(ctx context.Context) (*Info, error) {
	return d.info, nil
}
