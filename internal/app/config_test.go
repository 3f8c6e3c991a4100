package app

import (
	"flag"
	"testing"
)

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-scale", "2", "-tps", "20", "-overlay", ""}); err != nil {
		t.Fatal(err)
	}
	if cfg.Scale != 2 || cfg.TPS != 20 || cfg.Overlay != "" {
		t.Fatalf("config %+v", cfg)
	}
	if cfg.DT() != 0.05 {
		t.Fatalf("dt %f", cfg.DT())
	}
	cfg.TPS = 0
	if cfg.DT() != 0 {
		t.Fatal("zero tps should give zero dt")
	}
}
