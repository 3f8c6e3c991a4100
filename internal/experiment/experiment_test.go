package experiment

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stimgen/internal/core"
	"stimgen/internal/heatmap"
	"stimgen/internal/noise"
)

func smallConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.OutDir = t.TempDir()
	cfg.Name = "small"
	cfg.Width, cfg.Height = 40, 32
	cfg.PPD = 10
	cfg.PatchSizeDeg = 1.2
	cfg.PatchX, cfg.PatchY = 10, 8
	cfg.Length, cfg.FPS = 1, 4
	cfg.Granularity = 2
	cfg.Percentiles = []float64{100, 90}
	return cfg
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.PatchSize() != 60 || cfg.WindowSize() != 60 || cfg.WindowStep() != 15 {
		t.Fatalf("derived sizes %d/%d/%d", cfg.PatchSize(), cfg.WindowSize(), cfg.WindowStep())
	}
	cfg.Methods = []string{"best_guess"}
	if err := cfg.Validate(); !errors.Is(err, heatmap.ErrUnknownMethod) {
		t.Fatalf("err=%v", err)
	}
}

func TestBindAndFromMap(t *testing.T) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-w", "64", "-methods", "true_ssim, pure_diff", "-percentiles", "99,50"}); err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 64 || len(cfg.Methods) != 2 || cfg.Methods[1] != "pure_diff" || cfg.Percentiles[1] != 50 {
		t.Fatalf("bound config %+v", cfg)
	}

	m := FromMap(map[string]string{"w": "-3", "ppd": "oops", "shift_x": "-2", "stream": "single"})
	def := DefaultConfig()
	if m.Width != def.Width || m.PPD != def.PPD || m.ShiftX != -2 || m.Stream != "single" {
		t.Fatalf("FromMap %+v", m)
	}
}

func TestLoadConfig(t *testing.T) {
	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"), logger)
	if err != nil || cfg.Width != DefaultConfig().Width {
		t.Fatalf("missing file: %v", err)
	}
	if !strings.Contains(logs.String(), "not found") {
		t.Fatalf("expected warning, got %q", logs.String())
	}

	path := filepath.Join(t.TempDir(), "cfg.json")
	if err := os.WriteFile(path, []byte(`{"width": 80, "methods": ["pattern_ssim"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig(path, logger)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 80 || cfg.Height != DefaultConfig().Height || len(cfg.Methods) != 1 {
		t.Fatalf("overlay %+v", cfg)
	}

	if err := os.WriteFile(path, []byte(`{`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path, logger); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestBuildRejectsUnknownNoise(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Noise = "blue"
	if _, err := Build(cfg, core.NewRNG(1)); !errors.Is(err, noise.ErrUnknownNoise) {
		t.Fatalf("err=%v", err)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Methods = nil
	a, err := Build(cfg, core.NewRNG(cfg.Seed))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Build(cfg, core.NewRNG(cfg.Seed))
	for i := 0; i < 3; i++ {
		fa, fb := a.Scene.Next(0.25), b.Scene.Next(0.25)
		if !fa.Equal(fb) {
			t.Fatalf("frame %d differs between equally seeded builds", i)
		}
		if fa.Min() < 0 || fa.Max() > 1 {
			t.Fatalf("scene outside [0,1]")
		}
	}
}

func TestRunWritesArtifacts(t *testing.T) {
	cfg := smallConfig(t)
	cfg.ShiftX = 2
	var logs bytes.Buffer
	res, err := Run(context.Background(), cfg, log.New(&logs, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	if res.Frames != 4 || res.RunID == "" {
		t.Fatalf("result %+v", res)
	}
	// log, scene, one heat map per method, diff maps, table
	if want := 1 + 1 + 6 + 3 + 1; len(res.Files) != want {
		t.Fatalf("%d files, want %d: %v", len(res.Files), want, res.Files)
	}
	for _, f := range res.Files {
		if st, err := os.Stat(f); err != nil || st.Size() == 0 {
			t.Fatalf("artifact %s: %v", f, err)
		}
	}
	header, _ := os.ReadFile(filepath.Join(cfg.OutDir, "small.log"))
	if !strings.Contains(string(header), "Position: dynamic") || !strings.Contains(string(header), res.RunID) {
		t.Fatalf("header\n%s", header)
	}
	table, _ := os.ReadFile(filepath.Join(cfg.OutDir, "small.csv"))
	lines := strings.Split(strings.TrimSpace(string(table)), "\n")
	if len(lines) != 5 || !strings.HasPrefix(lines[0], "time;avg_diff_100_recall;avg_diff_90_recall;avg_diff_100_fpr") {
		t.Fatalf("table\n%s", table)
	}
}

func TestRunHonoursCancel(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Methods = nil
	cfg.Video = "none"
	cfg.Table = "none"
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Run(ctx, cfg, nil)
	if !errors.Is(err, context.Canceled) || res.Frames != 0 {
		t.Fatalf("res=%+v err=%v", res, err)
	}
}

func TestLocalizationSuite(t *testing.T) {
	base := DefaultConfig()
	suite := LocalizationSuite(base)
	if len(suite) != 8 {
		t.Fatalf("%d variants", len(suite))
	}
	names := map[string]Config{}
	for _, c := range suite {
		names[c.Name] = c
	}
	dsd := names["gabor_localization_DSD"]
	if dsd.Stream != "continuous" || len(dsd.Updates) != 0 || dsd.ShiftX == 0 {
		t.Fatalf("DSD %+v", dsd)
	}
	sds := names["gabor_localization_SDS"]
	if sds.Stream != "single" || len(sds.Updates) == 0 || sds.ShiftX != 0 {
		t.Fatalf("SDS %+v", sds)
	}
}
