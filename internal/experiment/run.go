package experiment

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"stimgen/internal/core"
	"stimgen/internal/heatmap"
	"stimgen/internal/sink"
)

// Result summarizes a finished run.
type Result struct {
	RunID  string
	Frames int
	Files  []string
}

// Run builds cfg, drives it for cfg.Length seconds and writes the scene,
// every heat map, a score table and a .log header into cfg.OutDir.
func Run(ctx context.Context, cfg Config, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	p, err := Build(cfg, core.NewRNG(cfg.Seed))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	res := &Result{RunID: uuid.NewString()}
	prefix := filepath.Join(cfg.OutDir, cfg.Name)
	logger.Printf("run %s: %s, %d frames", res.RunID, cfg.Name, cfg.FPS*cfg.Length)

	logPath := prefix + ".log"
	if err := writeHeader(logPath, cfg, res.RunID, p.Parameters()); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, logPath)

	var sinks []sink.FrameSink
	defer func() { _ = sink.CloseAll(sinks...) }()
	open := func(name string) (sink.FrameSink, error) {
		if cfg.Video == "none" {
			return nil, nil
		}
		path := prefix + "_" + name
		if cfg.Video == "" || cfg.Video == "video" {
			path += ".avi"
		}
		s, err := sink.NewFrameSink(cfg.Video, path, p.Scene.Size(), cfg.FPS, cfg.Scale)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
		res.Files = append(res.Files, path)
		logger.Printf("run %s: writing %s", res.RunID, path)
		return s, nil
	}

	scene, err := open("scene")
	if err != nil {
		return nil, err
	}
	obs := &observer{pipeline: p, dt: 1 / float64(cfg.FPS), percentiles: cfg.Percentiles}
	for _, m := range p.Methods {
		t := methodTap{method: m}
		if t.heat, err = open(m.Name + "_heat"); err != nil {
			return nil, err
		}
		if m.Diff != nil {
			if t.diff, err = open(m.Name); err != nil {
				return nil, err
			}
		}
		obs.taps = append(obs.taps, t)
	}

	if cfg.Table != "" && cfg.Table != "none" {
		cols := obs.columns()
		ext := ".csv"
		if cfg.Table == "sqlite" {
			ext = ".db"
		}
		table, err := sink.NewTable(cfg.Table, prefix+ext, res.RunID, sink.Names(cols))
		if err != nil {
			return nil, err
		}
		obs.recorder = sink.NewRecorder(table, cols)
		defer func() {
			if obs.recorder != nil {
				_ = obs.recorder.Close()
			}
		}()
		res.Files = append(res.Files, prefix+ext)
	}

	frameSinks := []sink.FrameSink{obs}
	if scene != nil {
		frameSinks = append([]sink.FrameSink{scene}, frameSinks...)
	}
	n, err := sink.Run(ctx, p.Scene.Next, cfg.FPS, cfg.Length, frameSinks...)
	res.Frames = n
	if err != nil {
		return res, fmt.Errorf("run %s stopped after %d frames: %w", res.RunID, n, err)
	}
	err = sink.CloseAll(sinks...)
	sinks = nil
	if err != nil {
		return res, err
	}
	if obs.recorder != nil {
		err = obs.recorder.Close()
		obs.recorder = nil
		if err != nil {
			return res, fmt.Errorf("close score table: %w", err)
		}
	}
	if e, ok := p.Base.(interface{ Err() error }); ok && e.Err() != nil {
		logger.Printf("run %s: warn: %v, final frame repeated", res.RunID, e.Err())
	}
	logger.Printf("run %s: finished, %d frames", res.RunID, n)
	return res, nil
}

type methodTap struct {
	method     *heatmap.Method
	heat, diff sink.FrameSink
	scores     []heatmap.Detection
}

// observer is a FrameSink that advances every detector once per scene frame,
// records their maps and evaluates them against the patch position.
type observer struct {
	pipeline    *Pipeline
	dt          float64
	percentiles []float64
	taps        []methodTap
	recorder    *sink.Recorder
}

func (o *observer) WriteFrame(*core.Frame) error {
	target := o.pipeline.Target()
	for i := range o.taps {
		t := &o.taps[i]
		hmap := t.method.Map.Next(o.dt)
		if t.heat != nil {
			if err := t.heat.WriteFrame(hmap); err != nil {
				return err
			}
		}
		if t.diff != nil {
			if err := t.diff.WriteFrame(t.method.Diff.Next(0)); err != nil {
				return err
			}
		}
		scores, err := heatmap.Evaluate(hmap, target, o.percentiles...)
		if err != nil {
			return fmt.Errorf("%s: %w", t.method.Name, err)
		}
		t.scores = scores
	}
	if o.recorder != nil {
		return o.recorder.Tick(o.dt)
	}
	return nil
}

func (o *observer) Close() error { return nil }

// columns lists recall then false positive rate per percentile for every
// method.
func (o *observer) columns() []sink.Column {
	var cols []sink.Column
	for i := range o.taps {
		name := o.taps[i].method.Name
		for j, p := range o.percentiles {
			cols = append(cols, sink.Column{
				Name:  fmt.Sprintf("%s_%g_recall", name, p),
				Value: func() float64 { return o.taps[i].scores[j].Recall },
			})
		}
		for j, p := range o.percentiles {
			cols = append(cols, sink.Column{
				Name:  fmt.Sprintf("%s_%g_fpr", name, p),
				Value: func() float64 { return o.taps[i].scores[j].FPR },
			})
		}
	}
	return cols
}

func writeHeader(path string, cfg Config, runID string, snap core.ParameterSnapshot) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Log file for experiment %s\n", cfg.Name)
	fmt.Fprintf(&b, "Run: %s\n", runID)
	fmt.Fprintf(&b, "Scene: %s\n", staticOrDynamic(cfg.Stream != "single"))
	fmt.Fprintf(&b, "Position: %s\n", staticOrDynamic(cfg.ShiftX != 0 || cfg.ShiftY != 0))
	fmt.Fprintf(&b, "Patch: %s\n", staticOrDynamic(len(cfg.Updates) > 0))
	fmt.Fprintf(&b, "Methods: %s\n", strings.Join(cfg.Methods, ", "))
	for _, g := range snap.Groups {
		fmt.Fprintf(&b, "[%s]\n", g.Name)
		for _, p := range g.Params {
			fmt.Fprintf(&b, "  %s = %s\n", p.Label, p.Value)
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write log header: %w", err)
	}
	return nil
}

func staticOrDynamic(dynamic bool) string {
	if dynamic {
		return "dynamic"
	}
	return "static"
}
