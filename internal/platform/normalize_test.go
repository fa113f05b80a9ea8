package platform

import (
	"errors"
	"testing"
)

func TestNormalizeArch(t *testing.T) {
	tests := []struct {
		name    string
		arch    string
		want    string
		wantErr bool
	}{
		{name: "amd64", arch: "amd64", want: "amd64"},
		{name: "x86_64_alias", arch: "x86_64", want: "amd64"},
		{name: "arm64", arch: "arm64", want: "arm64"},
		{name: "aarch64_alias", arch: "aarch64", want: "arm64"},
		{name: "arm", arch: "arm", want: "arm"},
		{name: "386_unsupported", arch: "386", wantErr: true},
		{name: "riscv64_unsupported", arch: "riscv64", wantErr: true},
		{name: "empty_unsupported", arch: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeArch(tt.arch)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for arch %q", tt.arch)
				}
				if !errors.Is(err, ErrUnsupported) {
					t.Errorf("expected ErrUnsupported, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("normalizeArch(%q) = %q, want %q", tt.arch, got, tt.want)
			}
		})
	}
}

func TestMapFamily(t *testing.T) {
	tests := []struct {
		family string
		want   string
	}{
		{"debian", FamilyDebian},
		{"ubuntu", FamilyDebian},
		{"Ubuntu", FamilyDebian},
		{"  alpine  ", FamilyAlpine},
		{"rocky", FamilyRHEL},
		{"fedora", FamilyFedora},
		{"manjaro", FamilyArch},
		{"slackware", FamilyUnknown},
		{"", FamilyUnknown},
	}

	for _, tt := range tests {
		if got := mapFamily(tt.family); got != tt.want {
			t.Errorf("mapFamily(%q) = %q, want %q", tt.family, got, tt.want)
		}
	}
}

func TestInfoIsMusl(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want bool
	}{
		{name: "alpine", info: Info{OS: "linux", Family: FamilyAlpine}, want: true},
		{name: "debian", info: Info{OS: "linux", Family: FamilyDebian}, want: false},
		{name: "no_distro", info: Info{OS: "linux"}, want: false},
		{name: "macos", info: Info{OS: "darwin", Family: FamilyAlpine}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.IsMusl(); got != tt.want {
				t.Errorf("IsMusl() = %v, want %v", got, tt.want)
			}
		})
	}
}
