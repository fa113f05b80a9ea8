// Package config loads the project's twrun.lua file. Configs are
// declarative Lua evaluated in a sandboxed VM with a read-only platform
// table injected, so the same file can pick different values per host.
package config

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// FileName is the config file looked up in the working directory.
const FileName = "twrun.lua"

// Config is the parsed project configuration.
type Config struct {
	// Version is the release to use: "latest" or a concrete version.
	Version string
	// Input is the source stylesheet path.
	Input string
	// Output is the generated stylesheet path.
	Output string
	// Content holds glob patterns scanned for class names.
	Content []string
	// ConfigFile is an explicit tailwind config path.
	ConfigFile string
	// PostCSS is an explicit postcss config path.
	PostCSS string

	Minify bool
	Watch  bool
	Poll   bool

	// Autoprefixer is tri-state: nil when the key is absent, so only
	// an explicit `autoprefixer = false` disables vendor prefixing.
	Autoprefixer *bool
}

// ValidationError describes a config field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks field contents. Absent fields are fine; the zero
// config is valid.
func (c *Config) Validate() error {
	if c.Version != "" && c.Version != "latest" {
		v := strings.TrimPrefix(c.Version, "v")
		if _, err := semver.StrictNewVersion(v); err != nil {
			return &ValidationError{Field: "version", Message: fmt.Sprintf("%q is not a release version", c.Version)}
		}
	}

	for _, glob := range c.Content {
		if strings.TrimSpace(glob) == "" {
			return &ValidationError{Field: "content", Message: "empty glob pattern"}
		}
	}

	return nil
}
