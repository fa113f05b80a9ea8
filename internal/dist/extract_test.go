package dist

import (
	"archive/tar"
	"compress/gzip"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func createTestTarGz(t *testing.T, files map[string]string) string {
	t.Helper()

	archivePath := filepath.Join(t.TempDir(), "test.tar.gz")
	archiveFile, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	defer archiveFile.Close()

	gzipWriter := gzip.NewWriter(archiveFile)
	defer gzipWriter.Close()
	tarWriter := tar.NewWriter(gzipWriter)
	defer tarWriter.Close()

	for name, content := range files {
		header := &tar.Header{
			Name: name,
			Mode: 0o755,
			Size: int64(len(content)),
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			t.Fatalf("write header for %s: %v", name, err)
		}
		if _, err := tarWriter.Write([]byte(content)); err != nil {
			t.Fatalf("write content for %s: %v", name, err)
		}
	}

	return archivePath
}

func TestExtractBinary(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		binary  string
		want    string
		wantErr bool
	}{
		{
			name:   "top_level_member",
			files:  map[string]string{"tailwindcss": "binary payload"},
			binary: "tailwindcss",
			want:   "binary payload",
		},
		{
			name: "nested_member",
			files: map[string]string{
				"release/tailwindcss": "nested payload",
				"release/LICENSE":     "license text",
			},
			binary: "tailwindcss",
			want:   "nested payload",
		},
		{
			name: "sibling_files_ignored",
			files: map[string]string{
				"README.md":   "docs",
				"tailwindcss": "the one we want",
				"CHANGELOG":   "history",
			},
			binary: "tailwindcss",
			want:   "the one we want",
		},
		{
			name:    "binary_missing",
			files:   map[string]string{"other-tool": "nope"},
			binary:  "tailwindcss",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archivePath := createTestTarGz(t, tt.files)
			destPath := filepath.Join(t.TempDir(), tt.binary)

			err := extractBinary(archivePath, destPath, tt.binary)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("extraction failed: %v", err)
			}

			content, err := os.ReadFile(destPath)
			if err != nil {
				t.Fatalf("read extracted binary: %v", err)
			}
			if string(content) != tt.want {
				t.Errorf("content = %q, want %q", content, tt.want)
			}
		})
	}
}

func TestExtractBinaryNotAnArchive(t *testing.T) {
	tmpDir := t.TempDir()
	bogus := writeFile(t, tmpDir, "bogus.tar.gz", "this is not gzip data")

	err := extractBinary(bogus, filepath.Join(tmpDir, "out"), "tailwindcss")
	if err == nil {
		t.Fatal("expected error for non-gzip input")
	}
}

func TestSetExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}

	path := writeFile(t, t.TempDir(), "bin", "#!/bin/sh\n")
	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	if err := setExecutable(path); err != nil {
		t.Fatalf("setExecutable failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
}
