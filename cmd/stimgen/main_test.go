package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
)

func TestParseFlagsLayersConfigUnderFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp.json")
	if err := os.WriteFile(path, []byte(`{"name":"from_file","width":64,"fps":10}`), 0o644); err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard, "", 0)

	cfg, suite := parseFlags([]string{"-config", path, "-fps", "25", "-suite"}, logger)
	if cfg.Name != "from_file" || cfg.Width != 64 {
		t.Fatalf("file values lost: name=%q width=%d", cfg.Name, cfg.Width)
	}
	if cfg.FPS != 25 {
		t.Fatalf("flag should override file, fps=%d", cfg.FPS)
	}
	if !suite {
		t.Fatalf("expected -suite to be honoured")
	}
}

func TestParseFlagsDefaults(t *testing.T) {
	cfg, suite := parseFlags(nil, log.New(io.Discard, "", 0))
	if suite || cfg.Width != 200 || cfg.FPS != 20 {
		t.Fatalf("unexpected defaults: suite=%v %dx%d fps=%d", suite, cfg.Width, cfg.Height, cfg.FPS)
	}
}
