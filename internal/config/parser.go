package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/twrun/twrun/internal/platform"
)

// ErrNotFound is returned by Load when the directory has no twrun.lua.
var ErrNotFound = errors.New("config file not found")

// ParseError carries a friendly message plus the raw Lua error.
type ParseError struct {
	Message string
	Detail  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// Parser evaluates twrun.lua files with platform info injected.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a parser. A nil detector skips platform injection.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// Load parses the twrun.lua in dir. ErrNotFound when the file does not
// exist, so callers can treat config as optional.
func (p *Parser) Load(ctx context.Context, dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	code, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return p.ParseString(ctx, string(code))
}

// ParseString parses a config from a string. Useful for tests and
// generated configs.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{Message: "Lua syntax error", Detail: err.Error()}
	}

	return extractConfig(L)
}

// extractConfig pulls the global "twrun" table out of the Lua state.
func extractConfig(L *lua.LState) (*Config, error) {
	root := L.GetGlobal("twrun")
	if root.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'twrun' table",
			Detail:  fmt.Sprintf("expected table, got %s", root.Type()),
		}
	}

	table := root.(*lua.LTable)
	cfg := &Config{}

	cfg.Version = stringField(table, "version")
	cfg.Input = stringField(table, "input")
	cfg.Output = stringField(table, "output")
	cfg.ConfigFile = stringField(table, "config")
	cfg.PostCSS = stringField(table, "postcss")

	cfg.Minify = boolField(table, "minify")
	cfg.Watch = boolField(table, "watch")
	cfg.Poll = boolField(table, "poll")
	cfg.Autoprefixer = boolPtrField(table, "autoprefixer")

	if contentVal := table.RawGetString("content"); contentVal.Type() == lua.LTTable {
		cfg.Content = extractContent(contentVal.(*lua.LTable))
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ParseError{Message: "config validation failed", Detail: err.Error()}
	}

	return cfg, nil
}

// extractContent collects glob strings, skipping nils left behind by
// platform conditionals like `platform.when(platform.is_linux, "...")`.
func extractContent(table *lua.LTable) []string {
	var globs []string
	table.ForEach(func(key, value lua.LValue) {
		if value.Type() != lua.LTString {
			return
		}
		globs = append(globs, value.String())
	})
	return globs
}

func stringField(table *lua.LTable, name string) string {
	if v := table.RawGetString(name); v.Type() == lua.LTString {
		return v.String()
	}
	return ""
}

func boolField(table *lua.LTable, name string) bool {
	if v := table.RawGetString(name); v.Type() == lua.LTBool {
		return bool(v.(lua.LBool))
	}
	return false
}

// boolPtrField distinguishes an absent key from an explicit false.
func boolPtrField(table *lua.LTable, name string) *bool {
	if v := table.RawGetString(name); v.Type() == lua.LTBool {
		b := bool(v.(lua.LBool))
		return &b
	}
	return nil
}

// FormatError renders a ParseError for the terminal. Verbose keeps the
// raw Lua detail including the traceback.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		return err.Error()
	}
	if verbose {
		return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
	}
	detail := parseErr.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return fmt.Sprintf("%s: %s", parseErr.Message, detail)
}
