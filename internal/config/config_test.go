// ABOUTME: Tests for settings loading and the global/project merge
// ABOUTME: XDG_CONFIG_HOME is redirected per test; no t.Parallel where env is touched

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMerge_ProjectOverridesGlobal(t *testing.T) {
	t.Parallel()

	global := &Settings{Shell: "/bin/sh", Ruyi: "/usr/bin/ruyi", ProbeLimit: 4}
	project := &Settings{Shell: "/bin/dash", SwitchDelayMS: 250}

	got := merge(global, project)

	if got.Shell != "/bin/dash" {
		t.Errorf("Shell = %q, want project override", got.Shell)
	}
	if got.Ruyi != "/usr/bin/ruyi" {
		t.Errorf("Ruyi = %q, want global value kept", got.Ruyi)
	}
	if got.ProbeLimit != 4 {
		t.Errorf("ProbeLimit = %d, want 4", got.ProbeLimit)
	}
	if got.SwitchDelayMS != 250 {
		t.Errorf("SwitchDelayMS = %d, want 250", got.SwitchDelayMS)
	}
}

func TestMerge_NilInputs(t *testing.T) {
	t.Parallel()

	if got := merge(nil, nil); got == nil {
		t.Fatal("merge(nil, nil) = nil, want empty settings")
	}
	global := &Settings{Shell: "/bin/sh"}
	if got := merge(global, nil); got.Shell != "/bin/sh" {
		t.Errorf("Shell = %q, want global preserved", got.Shell)
	}
}

func TestSwitchDelay_Default(t *testing.T) {
	t.Parallel()

	s := &Settings{}
	if got := s.SwitchDelay(); got != 100*time.Millisecond {
		t.Errorf("SwitchDelay() = %v, want 100ms", got)
	}

	s.SwitchDelayMS = 250
	if got := s.SwitchDelay(); got != 250*time.Millisecond {
		t.Errorf("SwitchDelay() = %v, want 250ms", got)
	}
}

func TestLoad_MissingFilesYieldDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Shell != "" || cfg.Ruyi != "" {
		t.Errorf("got %+v, want zero settings", cfg)
	}
}

func TestLoad_GlobalAndProjectMerge(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	globalDir := filepath.Join(configHome, "ruyi-tui")
	if err := os.MkdirAll(globalDir, 0o755); err != nil {
		t.Fatal(err)
	}
	globalYAML := "shell: /bin/sh\nprobe_limit: 4\n"
	if err := os.WriteFile(filepath.Join(globalDir, "config.yaml"), []byte(globalYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	root := t.TempDir()
	projectYAML := "shell: /bin/dash\nswitch_delay_ms: 250\n"
	if err := os.WriteFile(filepath.Join(root, ".ruyi-tui.yaml"), []byte(projectYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Shell != "/bin/dash" {
		t.Errorf("Shell = %q, want project override", cfg.Shell)
	}
	if cfg.ProbeLimit != 4 {
		t.Errorf("ProbeLimit = %d, want global 4", cfg.ProbeLimit)
	}
	if cfg.SwitchDelayMS != 250 {
		t.Errorf("SwitchDelayMS = %d, want 250", cfg.SwitchDelayMS)
	}
}

func TestLoad_MalformedProjectConfigFails(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".ruyi-tui.yaml"), []byte("shell: [broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(root); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}
