package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opts.noWindow {
		t.Fatalf("window should be on by default")
	}
	if opts.cfg.Window.Title != "NeVeR" || opts.cfg.Window.Width != 320 || opts.cfg.Window.Height != 480 {
		t.Fatalf("unexpected window defaults: %+v", opts.cfg.Window)
	}
}

func TestParseFlags_FlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never.yaml")
	body := "notes_dir: from-file\nlisten_addr: 127.0.0.1:9000\nwindow:\n  title: Notes\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	opts, err := parseFlags([]string{"-config", path, "-notes", "from-flag", "-no-window"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opts.cfg.NotesDir != "from-flag" {
		t.Fatalf("flag should win: %q", opts.cfg.NotesDir)
	}
	if opts.cfg.ListenAddr != "127.0.0.1:9000" || opts.cfg.Window.Title != "Notes" {
		t.Fatalf("file values lost: %+v", opts.cfg)
	}
	if !opts.noWindow {
		t.Fatalf("-no-window not applied")
	}
}

func TestParseFlags_BadConfig(t *testing.T) {
	if _, err := parseFlags([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatalf("expected error for missing config file")
	}
	if _, err := parseFlags([]string{"-bogus"}); err == nil {
		t.Fatalf("expected error for unknown flag")
	}
}

func TestWaitForHTTP(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := waitForHTTP(context.Background(), srv.URL, 5*time.Second); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("expected 2 polls, got %d", n)
	}
}

func TestWaitForHTTP_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := waitForHTTP(ctx, srv.URL, 5*time.Second); err == nil {
		t.Fatalf("expected error after cancel")
	}
}
