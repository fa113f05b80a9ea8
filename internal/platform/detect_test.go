package platform

import (
	"context"
	"runtime"
	"testing"
)

func TestDetectBasicFields(t *testing.T) {
	if runtime.GOARCH == "386" || runtime.GOARCH == "riscv64" {
		t.Skip("test host architecture has no release artifact")
	}

	detector := NewDetector()
	info, err := detector.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if info.OS != runtime.GOOS {
		t.Errorf("OS = %q, want %q", info.OS, runtime.GOOS)
	}
	if info.ArchRaw != runtime.GOARCH {
		t.Errorf("ArchRaw = %q, want %q", info.ArchRaw, runtime.GOARCH)
	}
	if info.Arch == "" {
		t.Error("Arch should not be empty")
	}
}

func TestDetectCancelledContext(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("distro detection only runs on Linux")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	detector := NewDetector()
	// A cancelled context may or may not be observed before the distro
	// lookup; either a hard failure or a successful basic detection is
	// acceptable, but never a half-filled distro.
	info, err := detector.Detect(ctx)
	if err == nil && info.Platform != "" && info.Family == "" {
		t.Error("distro set without family")
	}
}

func TestStaticDetector(t *testing.T) {
	want := &Info{OS: "linux", Arch: "arm64", Family: FamilyAlpine}
	got, err := Static(want).Detect(context.Background())
	if err != nil {
		t.Fatalf("static detect failed: %v", err)
	}
	if got != want {
		t.Errorf("static detector returned %+v, want %+v", got, want)
	}
}
