package platform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported is returned when the host OS/architecture pair has no
// corresponding release artifact.
var ErrUnsupported = errors.New("unsupported platform")

// familyMap maps distribution identifiers to canonical family names.
// gopsutil is not consistent about returning the family versus the
// distro ID, so both appear as keys.
var familyMap = map[string]string{
	"debian":  FamilyDebian,
	"ubuntu":  FamilyDebian,
	"rhel":    FamilyRHEL,
	"centos":  FamilyRHEL,
	"rocky":   FamilyRHEL,
	"fedora":  FamilyFedora,
	"arch":    FamilyArch,
	"manjaro": FamilyArch,
	"alpine":  FamilyAlpine,
}

// normalizeArch converts GOARCH values to normalized architecture names.
// Only the architectures the release publisher builds for are accepted.
func normalizeArch(arch string) (string, error) {
	switch arch {
	case "amd64", "x86_64":
		return "amd64", nil
	case "arm64", "aarch64":
		return "arm64", nil
	case "arm":
		return "arm", nil
	default:
		return "", fmt.Errorf("%w: architecture %s", ErrUnsupported, arch)
	}
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	normalized := strings.ToLower(strings.TrimSpace(family))
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}
	return FamilyUnknown
}
