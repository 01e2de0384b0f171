package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "never.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadConfig_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfig_OverlayKeepsDefaults(t *testing.T) {
	p := writeConfig(t, "notes_dir: /tmp/my-notes\nwindow:\n  width: 640\n")
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.NotesDir != "/tmp/my-notes" || cfg.Window.Width != 640 {
		t.Fatalf("overlay not applied: %+v", cfg)
	}
	if cfg.Window.Height != 480 || cfg.Window.Title != "NeVeR" || !cfg.Window.Resizable {
		t.Fatalf("defaults lost: %+v", cfg.Window)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":  "notes_dir: [",
		"bad level": "log_level: loud\n",
		"bad size":  "window:\n  height: 0\n",
		"no notes":  "notes_dir: \"\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewLogger_Level(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "warn"
	var buf bytes.Buffer
	log := cfg.NewLogger(&buf)
	log.Info("hidden")
	log.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected log output: %q", buf.String())
	}
}
