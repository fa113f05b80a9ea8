package twrun

import "github.com/twrun/twrun/internal/config"

// Option is one user-facing setting translated to CLI flags. Each
// variant is a pure value; translation happens in Arguments with no
// shell interpretation anywhere downstream.
type Option interface {
	arguments() []string
}

// Input sets the source stylesheet path.
type Input string

func (o Input) arguments() []string { return []string{"--input", string(o)} }

// Output sets the generated stylesheet path.
type Output string

func (o Output) arguments() []string { return []string{"--output", string(o)} }

// ConfigFile points at an explicit tailwind config.
type ConfigFile string

func (o ConfigFile) arguments() []string { return []string{"--config", string(o)} }

// PostCSS points at an explicit postcss config.
type PostCSS string

func (o PostCSS) arguments() []string { return []string{"--postcss", string(o)} }

// Content adds a glob pattern scanned for class names. Repeatable.
type Content string

func (o Content) arguments() []string { return []string{"--content", string(o)} }

// Watch keeps the process running and rebuilding on changes.
type Watch bool

func (o Watch) arguments() []string {
	if o {
		return []string{"--watch"}
	}
	return nil
}

// Poll makes watch mode poll instead of using filesystem events.
type Poll bool

func (o Poll) arguments() []string {
	if o {
		return []string{"--poll"}
	}
	return nil
}

// Minify compresses the generated stylesheet.
type Minify bool

func (o Minify) arguments() []string {
	if o {
		return []string{"--minify"}
	}
	return nil
}

// NoAutoprefixer disables vendor prefixing.
type NoAutoprefixer bool

func (o NoAutoprefixer) arguments() []string {
	if o {
		return []string{"--no-autoprefixer"}
	}
	return nil
}

// Arguments translates options into the ordered flag vector passed to
// the executable.
func Arguments(opts ...Option) []string {
	var args []string
	for _, opt := range opts {
		args = append(args, opt.arguments()...)
	}
	return args
}

// FromConfig converts a loaded twrun.lua into the equivalent options.
// Flag-style CLI overrides can simply be appended after these.
func FromConfig(cfg *config.Config) []Option {
	var opts []Option
	if cfg.Input != "" {
		opts = append(opts, Input(cfg.Input))
	}
	if cfg.Output != "" {
		opts = append(opts, Output(cfg.Output))
	}
	for _, glob := range cfg.Content {
		opts = append(opts, Content(glob))
	}
	if cfg.ConfigFile != "" {
		opts = append(opts, ConfigFile(cfg.ConfigFile))
	}
	if cfg.PostCSS != "" {
		opts = append(opts, PostCSS(cfg.PostCSS))
	}
	opts = append(opts,
		Watch(cfg.Watch),
		Poll(cfg.Poll),
		Minify(cfg.Minify),
	)
	// Only an explicit `autoprefixer = false` turns prefixing off; an
	// absent key keeps the tool's default behavior.
	if cfg.Autoprefixer != nil && !*cfg.Autoprefixer {
		opts = append(opts, NoAutoprefixer(true))
	}
	return opts
}
