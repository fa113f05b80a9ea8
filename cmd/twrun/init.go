package main

import (
	"flag"
	"fmt"

	"github.com/twrun/twrun/internal/scaffold"
)

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	full := fs.Bool("full", false, "write the annotated @theme starter stylesheet")
	force := fs.Bool("force", false, "overwrite existing files")
	input := fs.String("input", "", "starter stylesheet path (default src/app.css)")
	output := fs.String("output", "", "generated stylesheet path (default dist/app.css)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir := "."
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}

	log := newLogger()
	err := scaffold.New(&log).Run(scaffold.Options{
		Dir:    dir,
		Input:  *input,
		Output: *output,
		Full:   *full,
		Force:  *force,
	})
	if err != nil {
		return err
	}

	fmt.Println("Project scaffolded. Next steps:")
	fmt.Println("  twrun install")
	fmt.Println("  twrun run")
	return nil
}
