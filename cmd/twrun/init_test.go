package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/twrun/twrun/internal/testutil"
)

func TestRunInit(t *testing.T) {
	testutil.SetupTestEnv(t)
	dir := t.TempDir()

	if err := runInit([]string{dir}); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	for _, path := range []string{
		filepath.Join(dir, "src", "app.css"),
		filepath.Join(dir, "twrun.lua"),
		filepath.Join(dir, ".gitignore"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}
}

func TestRunInitFull(t *testing.T) {
	testutil.SetupTestEnv(t)
	dir := t.TempDir()

	if err := runInit([]string{"--full", dir}); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "src", "app.css"))
	if err != nil {
		t.Fatalf("read stylesheet: %v", err)
	}
	if !strings.Contains(string(content), "@theme {") {
		t.Error("full init should write the theme block")
	}
}

func TestRunInitRefusesSecondRun(t *testing.T) {
	testutil.SetupTestEnv(t)
	dir := t.TempDir()

	if err := runInit([]string{dir}); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := runInit([]string{dir}); err == nil {
		t.Fatal("second init without --force should fail")
	}
	if err := runInit([]string{"--force", dir}); err != nil {
		t.Errorf("init with --force failed: %v", err)
	}
}

func TestRunInitCustomPaths(t *testing.T) {
	testutil.SetupTestEnv(t)
	dir := t.TempDir()

	err := runInit([]string{"--input", "styles/main.css", "--output", "public/main.css", dir})
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "styles", "main.css")); err != nil {
		t.Errorf("custom input path not created: %v", err)
	}

	gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		t.Fatalf("read .gitignore: %v", err)
	}
	if !strings.Contains(string(gitignore), "public/main.css") {
		t.Error("custom output path missing from .gitignore")
	}
}
