package dist

import (
	"fmt"
	"strings"

	"github.com/twrun/twrun/internal/platform"
)

// Target maps platform information to the artifact identifier used in
// the publisher's release naming scheme. Pure mapping, no I/O.
//
// Musl-based Linux systems (Alpine) get the dedicated -musl variants
// where the publisher builds them; armv7 only ships a glibc build.
func Target(info *platform.Info) (string, error) {
	if info == nil {
		return "", fmt.Errorf("%w: no platform info", platform.ErrUnsupported)
	}

	switch info.OS {
	case "linux":
		switch info.Arch {
		case "amd64":
			return withMusl("linux-x64", info), nil
		case "arm64":
			return withMusl("linux-arm64", info), nil
		case "arm":
			return "linux-armv7", nil
		}
	case "darwin":
		switch info.Arch {
		case "amd64":
			return "macos-x64", nil
		case "arm64":
			return "macos-arm64", nil
		}
	case "windows":
		switch info.Arch {
		case "amd64":
			return "windows-x64.exe", nil
		case "arm64":
			return "windows-arm64.exe", nil
		}
	}

	return "", fmt.Errorf("%w: %s/%s", platform.ErrUnsupported, info.OS, info.Arch)
}

func withMusl(target string, info *platform.Info) string {
	if info.IsMusl() {
		return target + "-musl"
	}
	return target
}

// ExecutableName returns the name the cached executable is installed
// under for the given platform.
func ExecutableName(info *platform.Info) string {
	if info != nil && info.IsWindows() {
		return "tailwindcss.exe"
	}
	return "tailwindcss"
}

// artifactName expands the artifact filename template for a target.
// The default template matches the official releases; mirrors that
// package artifacts as tarballs can override it, in which case the
// downloaded archive is extracted rather than renamed into place.
func artifactName(template, target string) string {
	return strings.ReplaceAll(template, "{target}", target)
}
