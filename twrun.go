// Package twrun downloads, verifies, and runs the Tailwind CSS
// standalone executable. The heavy lifting lives in internal/dist
// (fetch, checksum, cache) and internal/runner (process launch); this
// package wires them together behind a small client.
package twrun

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/twrun/twrun/internal/dist"
	"github.com/twrun/twrun/internal/platform"
	"github.com/twrun/twrun/internal/runner"
)

// Config configures a Client. The zero value works: latest version,
// detected platform, shared cache directory under the system temp dir.
type Config struct {
	// Version is "latest" or a concrete release like "4.1.5".
	Version string
	// CacheDir overrides where executables are cached.
	CacheDir string
	// WorkDir is the working directory for invocations; empty means
	// the caller's.
	WorkDir string
	// Platform overrides host detection, mainly for tests.
	Platform *platform.Info
	// KeyringPath enables detached signature verification.
	KeyringPath string
	// MaxRetries follows dist.Config semantics.
	MaxRetries int
	// Stdout and Stderr receive the tool's output; nil means the
	// caller's own stdio.
	Stdout io.Writer
	Stderr io.Writer
	// Logger receives debug/progress events; nil disables logging.
	Logger *zerolog.Logger
}

// Client is the high-level entry point.
type Client struct {
	cfg Config
	log zerolog.Logger

	// Overridden in tests to point at a local release server.
	downloadBase string
	releaseIndex string

	mu      sync.Mutex
	manager *dist.Manager
}

// New creates a client.
func New(cfg Config) *Client {
	if cfg.Version == "" {
		cfg.Version = dist.VersionLatest
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = DefaultCacheDir()
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &Client{cfg: cfg, log: log}
}

// DefaultCacheDir is where executables land when Config.CacheDir is
// empty. Shared across projects so one download serves them all.
func DefaultCacheDir() string {
	return filepath.Join(os.TempDir(), "twrun")
}

// Install ensures the configured version is downloaded, verified, and
// cached, returning the executable path.
func (c *Client) Install(ctx context.Context) (*dist.Result, error) {
	m, err := c.distManager(ctx)
	if err != nil {
		return nil, err
	}
	return m.Install(ctx, c.cfg.Version)
}

// Run invokes an already installed executable with the translated
// options. Fails if the executable is not in the cache yet.
func (c *Client) Run(ctx context.Context, opts ...Option) error {
	m, err := c.distManager(ctx)
	if err != nil {
		return err
	}

	version, err := m.ResolveVersion(ctx, c.cfg.Version)
	if err != nil {
		return err
	}
	bin, err := m.ExecutablePath(version)
	if err != nil {
		return err
	}
	if !m.IsInstalled(bin) {
		return fmt.Errorf("executable not installed at %s, run install first", bin)
	}

	return c.run(ctx, bin, opts)
}

// InstallAndRun is Install followed by Run in one call; the common path
// for build scripts.
func (c *Client) InstallAndRun(ctx context.Context, opts ...Option) error {
	result, err := c.Install(ctx)
	if err != nil {
		return err
	}
	return c.run(ctx, result.Path, opts)
}

func (c *Client) run(ctx context.Context, bin string, opts []Option) error {
	return runner.New(&c.log).Run(ctx, runner.Request{
		Bin:    bin,
		Dir:    c.cfg.WorkDir,
		Args:   Arguments(opts...),
		Stdout: c.cfg.Stdout,
		Stderr: c.cfg.Stderr,
	})
}

// distManager lazily builds the distribution manager, detecting the
// host platform on first use.
func (c *Client) distManager(ctx context.Context) (*dist.Manager, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.manager != nil {
		return c.manager, nil
	}

	info := c.cfg.Platform
	if info == nil {
		detected, err := platform.NewDetector().Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("detect platform: %w", err)
		}
		info = detected
	}

	m, err := dist.NewManager(dist.Config{
		CacheDir:     c.cfg.CacheDir,
		Platform:     info,
		MaxRetries:   c.cfg.MaxRetries,
		DownloadBase: c.downloadBase,
		ReleaseIndex: c.releaseIndex,
		KeyringPath:  c.cfg.KeyringPath,
		Logger:       &c.log,
	})
	if err != nil {
		return nil, err
	}
	c.manager = m
	return m, nil
}
