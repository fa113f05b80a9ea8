package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/twrun/twrun"
	"github.com/twrun/twrun/internal/config"
	"github.com/twrun/twrun/internal/platform"
	"github.com/twrun/twrun/internal/runner"
)

// globList collects a repeatable --content flag.
type globList []string

func (g *globList) String() string { return fmt.Sprint([]string(*g)) }

func (g *globList) Set(value string) error {
	*g = append(*g, value)
	return nil
}

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	version := fs.String("use", "", "release version to run (default from twrun.lua, else latest)")
	input := fs.String("input", "", "source stylesheet path")
	output := fs.String("output", "", "generated stylesheet path")
	configFile := fs.String("config", "", "tailwind config path")
	postcss := fs.String("postcss", "", "postcss config path")
	watch := fs.Bool("watch", false, "rebuild on file changes")
	poll := fs.Bool("poll", false, "poll for changes instead of using filesystem events")
	minify := fs.Bool("minify", false, "compress the generated stylesheet")
	noAutoprefixer := fs.Bool("no-autoprefixer", false, "disable vendor prefixing")
	var content globList
	fs.Var(&content, "content", "glob scanned for class names (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	log := newLogger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadProjectConfig(ctx, &log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", config.FormatError(err, os.Getenv("TWRUN_DEBUG") != ""))
		return 1
	}

	// CLI flags override twrun.lua values field by field.
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	applyString := func(name string, flagVal string, target *string) {
		if set[name] {
			*target = flagVal
		}
	}
	applyBool := func(name string, flagVal bool, target *bool) {
		if set[name] {
			*target = flagVal
		}
	}

	applyString("use", *version, &cfg.Version)
	applyString("input", *input, &cfg.Input)
	applyString("output", *output, &cfg.Output)
	applyString("config", *configFile, &cfg.ConfigFile)
	applyString("postcss", *postcss, &cfg.PostCSS)
	applyBool("watch", *watch, &cfg.Watch)
	applyBool("poll", *poll, &cfg.Poll)
	applyBool("minify", *minify, &cfg.Minify)
	if set["no-autoprefixer"] {
		enabled := !*noAutoprefixer
		cfg.Autoprefixer = &enabled
	}
	if set["content"] {
		cfg.Content = content
	}

	opts := twrun.FromConfig(cfg)

	client := twrun.New(twrun.Config{
		Version:  cfg.Version,
		CacheDir: cacheDir(),
		Logger:   &log,
	})

	if err := client.InstallAndRun(ctx, opts...); err != nil {
		var ee *runner.ExitError
		if errors.As(err, &ee) {
			return ee.Code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadProjectConfig reads twrun.lua from the working directory. A
// missing file is fine; the zero config is returned instead.
func loadProjectConfig(ctx context.Context, log *zerolog.Logger) (*config.Config, error) {
	parser := config.NewParser(platform.NewDetector())
	cfg, err := parser.Load(ctx, ".")
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			log.Debug().Msg("no twrun.lua, using flags only")
			return &config.Config{}, nil
		}
		return nil, err
	}
	log.Debug().Msg("loaded twrun.lua")
	return cfg, nil
}
