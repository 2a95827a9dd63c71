package gate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPolicyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".terragate-policy.yaml")

	content := `version: "1"
rules:
  max_critical: 2
  max_high: 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPolicyFile(path)
	if err != nil {
		t.Fatalf("LoadPolicyFile: %v", err)
	}
	if p == nil {
		t.Fatal("expected policy, got nil")
	}
	if p.MaxCritical != 2 || p.MaxHigh != 10 {
		t.Errorf("expected {2 10}, got %+v", p)
	}
}

func TestLoadPolicyFilePartialUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".terragate-policy.yaml")

	if err := os.WriteFile(path, []byte("rules:\n  max_critical: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPolicyFile(path)
	if err != nil {
		t.Fatalf("LoadPolicyFile: %v", err)
	}
	if p.MaxCritical != 1 {
		t.Errorf("expected max_critical 1, got %d", p.MaxCritical)
	}
	if p.MaxHigh != DefaultPolicy().MaxHigh {
		t.Errorf("absent max_high should default to %d, got %d", DefaultPolicy().MaxHigh, p.MaxHigh)
	}
}

func TestLoadPolicyFileExplicitZero(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".terragate-policy.yaml")

	if err := os.WriteFile(path, []byte("rules:\n  max_high: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPolicyFile(path)
	if err != nil {
		t.Fatalf("LoadPolicyFile: %v", err)
	}
	if p.MaxHigh != 0 {
		t.Errorf("explicit zero must survive loading, got %d", p.MaxHigh)
	}
}

func TestLoadPolicyFileNotFound(t *testing.T) {
	p, err := LoadPolicyFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Errorf("missing file should not error, got %v", err)
	}
	if p != nil {
		t.Errorf("missing file should return nil policy, got %+v", p)
	}
}

func TestLoadPolicyFileNegativeRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".terragate-policy.yaml")

	if err := os.WriteFile(path, []byte("rules:\n  max_critical: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadPolicyFile(path); err == nil {
		t.Error("negative threshold must be rejected")
	}
}
