// Package scaffold sets up a new project: starter stylesheet, a
// twrun.lua config, and .gitignore entries for generated output.
package scaffold

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/twrun/twrun/internal/config"
)

// ErrExists means a target file is already present and Force is off.
var ErrExists = errors.New("file already exists")

const stylesheetBasic = `@import "tailwindcss";
`

const stylesheetFull = `@import "tailwindcss";

@theme {
  --font-sans: ui-sans-serif, system-ui, sans-serif;
  --font-mono: ui-monospace, monospace;

  --color-primary: oklch(0.6 0.2 260);
  --color-surface: oklch(0.98 0.01 260);

  --spacing: 0.25rem;
}
`

const configTemplate = `-- twrun project configuration. Evaluated in a sandbox with a
-- read-only 'platform' table for per-host conditionals.
twrun = {
	version = "latest",

	input = %q,
	output = %q,

	-- content = {
	-- 	"src/**/*.html",
	-- 	"src/**/*.js",
	-- },
}
`

// gitignoreEntries are appended to the project .gitignore so generated
// stylesheets and the init lock never get committed.
var gitignoreEntries = []string{
	".twrun-init.lock",
}

// Options configures one scaffold run.
type Options struct {
	// Dir is the project root.
	Dir string
	// Input is the starter stylesheet path, relative to Dir.
	Input string
	// Output is the generated stylesheet path recorded in the config
	// and ignored in git, relative to Dir.
	Output string
	// Full writes the annotated @theme starter instead of the minimal
	// import line.
	Full bool
	// Force overwrites existing files.
	Force bool
}

func (o *Options) defaults() {
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.Input == "" {
		o.Input = filepath.Join("src", "app.css")
	}
	if o.Output == "" {
		o.Output = filepath.Join("dist", "app.css")
	}
}

// Scaffolder writes project files.
type Scaffolder struct {
	log zerolog.Logger
}

// New creates a scaffolder. A nil logger disables logging.
func New(log *zerolog.Logger) *Scaffolder {
	l := zerolog.Nop()
	if log != nil {
		l = *log
	}
	return &Scaffolder{log: l}
}

// Run scaffolds the project under an exclusive lock. Existing files
// fail with ErrExists unless Force is set; the .gitignore is always
// merged, never replaced.
func (s *Scaffolder) Run(opts Options) error {
	opts.defaults()

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return fmt.Errorf("create project dir: %w", err)
	}

	lock, err := AcquireLock(opts.Dir)
	if err != nil {
		return err
	}
	defer lock.Release()

	if err := s.writeStylesheet(opts); err != nil {
		return err
	}
	if err := s.writeConfig(opts); err != nil {
		return err
	}
	if err := s.updateGitignore(opts); err != nil {
		return err
	}

	s.log.Info().Str("dir", opts.Dir).Msg("project scaffolded")
	return nil
}

func (s *Scaffolder) writeStylesheet(opts Options) error {
	path := filepath.Join(opts.Dir, opts.Input)

	content := stylesheetBasic
	if opts.Full {
		content = stylesheetFull
	}

	if err := writeNew(path, content, opts.Force); err != nil {
		return fmt.Errorf("stylesheet: %w", err)
	}
	s.log.Debug().Str("path", path).Msg("wrote stylesheet")
	return nil
}

func (s *Scaffolder) writeConfig(opts Options) error {
	path := filepath.Join(opts.Dir, config.FileName)
	content := fmt.Sprintf(configTemplate, filepath.ToSlash(opts.Input), filepath.ToSlash(opts.Output))

	if err := writeNew(path, content, opts.Force); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	s.log.Debug().Str("path", path).Msg("wrote config")
	return nil
}

// updateGitignore appends the output path and scaffold entries to the
// project .gitignore, keeping whatever is already there.
func (s *Scaffolder) updateGitignore(opts Options) error {
	path := filepath.Join(opts.Dir, ".gitignore")

	existing := make(map[string]bool)
	if file, err := os.Open(path); err == nil {
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			existing[strings.TrimSpace(scanner.Text())] = true
		}
		file.Close()
	}

	wanted := append([]string{filepath.ToSlash(opts.Output)}, gitignoreEntries...)

	var missing []string
	for _, entry := range wanted {
		if !existing[entry] {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open .gitignore: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(strings.Join(missing, "\n") + "\n"); err != nil {
		return fmt.Errorf("update .gitignore: %w", err)
	}
	s.log.Debug().Strs("entries", missing).Msg("updated .gitignore")
	return nil
}

// writeNew writes content to path, creating parent directories. An
// existing file is an error unless force is set.
func writeNew(path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
