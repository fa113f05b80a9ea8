package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/twrun/twrun"
)

func runInstall(args []string) error {
	fs := flag.NewFlagSet("install", flag.ContinueOnError)
	keyring := fs.String("keyring", "", "publisher keyring path for signature verification")
	if err := fs.Parse(args); err != nil {
		return err
	}

	version := "latest"
	if fs.NArg() > 0 {
		version = fs.Arg(0)
	}

	log := newLogger()
	client := twrun.New(twrun.Config{
		Version:     version,
		CacheDir:    cacheDir(),
		KeyringPath: *keyring,
		Logger:      &log,
	})

	result, err := client.Install(context.Background())
	if err != nil {
		return err
	}

	if result.FromCache {
		fmt.Printf("tailwindcss %s already installed (%s)\n", result.Version, result.Path)
	} else {
		fmt.Printf("tailwindcss %s installed (%s)\n", result.Version, result.Path)
	}
	return nil
}
