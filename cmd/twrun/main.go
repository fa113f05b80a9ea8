package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Version is set at build time via -ldflags.
var Version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version":
			fmt.Printf("twrun %s\n", Version)
			return
		case "init":
			if err := runInit(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "install":
			if err := runInstall(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "run":
			os.Exit(runRun(os.Args[2:]))
		}
	}

	fmt.Println("twrun - download, verify, and run the Tailwind CSS standalone CLI")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  twrun --version            Show version information")
	fmt.Println("  twrun init [options]       Scaffold a project (stylesheet, twrun.lua, .gitignore)")
	fmt.Println("  twrun install [version]    Download and verify a release into the cache")
	fmt.Println("  twrun run [options]        Build stylesheets with the cached executable")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  TWRUN_CACHE_DIR            Override the executable cache directory")
	fmt.Println("  TWRUN_DEBUG                Enable debug logging when non-empty")
}

// newLogger builds the console logger shared by all subcommands.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if os.Getenv("TWRUN_DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// cacheDir resolves the cache directory from the environment.
func cacheDir() string {
	return os.Getenv("TWRUN_CACHE_DIR")
}
