package main

import (
	"context"
	"os"
	"testing"

	"github.com/twrun/twrun/internal/testutil"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Fatal(err)
		}
	})
}

func TestGlobList(t *testing.T) {
	var globs globList
	for _, v := range []string{"src/**/*.html", "src/**/*.js"} {
		if err := globs.Set(v); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}
	if len(globs) != 2 || globs[0] != "src/**/*.html" {
		t.Errorf("globs = %v", globs)
	}
}

func TestLoadProjectConfigMissingFile(t *testing.T) {
	testutil.SetupTestEnv(t)
	chdir(t, t.TempDir())

	log := newLogger()
	cfg, err := loadProjectConfig(context.Background(), &log)
	if err != nil {
		t.Fatalf("missing twrun.lua should not be an error: %v", err)
	}
	if cfg.Version != "" || cfg.Input != "" {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoadProjectConfigReadsFile(t *testing.T) {
	testutil.SetupTestEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	code := `twrun = { version = "4.1.5", input = "src/app.css" }`
	if err := os.WriteFile("twrun.lua", []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}

	log := newLogger()
	cfg, err := loadProjectConfig(context.Background(), &log)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Version != "4.1.5" || cfg.Input != "src/app.css" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadProjectConfigBadLua(t *testing.T) {
	testutil.SetupTestEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	if err := os.WriteFile("twrun.lua", []byte("twrun = {"), 0o644); err != nil {
		t.Fatal(err)
	}

	log := newLogger()
	if _, err := loadProjectConfig(context.Background(), &log); err == nil {
		t.Fatal("broken twrun.lua should surface an error")
	}
}
