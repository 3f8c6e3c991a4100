// Package experiment wires noise, patches, detectors and sinks into
// reproducible localization runs.
package experiment

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"stimgen/internal/heatmap"
)

// UpdateConfig describes one patch parameter update rule.
type UpdateConfig struct {
	Field string `json:"field"`
	// Rule is one of "lin", "sin", "circular", "brownian" or "constant".
	// "circular" oscillates around Initial by ±Step.
	Rule    string  `json:"rule"`
	Initial float64 `json:"initial"`
	Step    float64 `json:"step"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Period  float64 `json:"period"`
}

// Config holds every setting of one run.
type Config struct {
	Name   string `json:"name"`
	OutDir string `json:"out_dir"`
	Seed   int64  `json:"seed"`

	Width  int     `json:"width"`
	Height int     `json:"height"`
	Length int     `json:"length"`
	FPS    int     `json:"fps"`
	Period float64 `json:"period"`

	Noise          string `json:"noise"`
	Stream         string `json:"stream"`
	Interpolation  string `json:"interpolation"`
	CircularFrames int    `json:"circular_frames"`

	PPD          float64        `json:"ppd"`
	PatchSizeDeg float64        `json:"patch_size_deg"`
	PatchKind    string         `json:"patch_kind"`
	Contrast     float64        `json:"contrast"`
	PatchX       float64        `json:"patch_x"`
	PatchY       float64        `json:"patch_y"`
	ShiftX       float64        `json:"shift_x"`
	ShiftY       float64        `json:"shift_y"`
	Updates      []UpdateConfig `json:"updates"`

	Methods     []string  `json:"methods"`
	Granularity int       `json:"granularity"`
	Window      int       `json:"window"`
	Step        int       `json:"step"`
	Percentiles []float64 `json:"percentiles"`

	Video string `json:"video"`
	Table string `json:"table"`
	Scale int    `json:"scale"`
}

// DefaultUpdates drift theta and phase at a medium pace and frequency slowly.
func DefaultUpdates() []UpdateConfig {
	return []UpdateConfig{
		{Field: "theta", Rule: "lin", Step: 5},
		{Field: "phase", Rule: "lin", Step: 0.1},
		{Field: "freq", Rule: "lin", Initial: 6, Step: 0.5},
	}
}

// DefaultConfig returns the localization run settings.
func DefaultConfig() Config {
	return Config{
		Name:           "gabor_localization",
		OutDir:         "results",
		Seed:           42,
		Width:          200,
		Height:         200,
		Length:         6,
		FPS:            20,
		Period:         2,
		Noise:          "pink",
		Stream:         "continuous",
		Interpolation:  "linear",
		CircularFrames: 4,
		PPD:            30,
		PatchSizeDeg:   2,
		PatchKind:      "gabor",
		Contrast:       0.5,
		PatchX:         50,
		PatchY:         50,
		Updates:        DefaultUpdates(),
		Methods:        append([]string(nil), heatmap.Methods...),
		Granularity:    20,
		Percentiles:    []float64{100, 99, 95, 90, 80, 70},
		Video:          "video",
		Table:          "csv",
		Scale:          1,
	}
}

// PatchSize is the patch side length in pixels.
func (c Config) PatchSize() int { return max(int(c.PatchSizeDeg*c.PPD+0.5), 1) }

// WindowSize is the heat map window, defaulting to the patch size.
func (c Config) WindowSize() int {
	if c.Window > 0 {
		return c.Window
	}
	return c.PatchSize()
}

// WindowStep defaults to a quarter of the window.
func (c Config) WindowStep() int {
	if c.Step > 0 {
		return c.Step
	}
	return max(c.WindowSize()/4, 1)
}

// Validate reports settings no run can start with.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("scene size must be positive, got %dx%d", c.Width, c.Height)
	case c.Length <= 0 || c.FPS <= 0:
		return fmt.Errorf("length and fps must be positive, got %d/%d", c.Length, c.FPS)
	case c.Period <= 0:
		return fmt.Errorf("period must be positive, got %v", c.Period)
	case c.PPD <= 0 || c.PatchSizeDeg <= 0:
		return fmt.Errorf("patch size and ppd must be positive, got %v/%v", c.PatchSizeDeg, c.PPD)
	}
	for _, m := range c.Methods {
		if !knownMethod(m) {
			return fmt.Errorf("%w %q", heatmap.ErrUnknownMethod, m)
		}
	}
	return nil
}

func knownMethod(name string) bool {
	for _, m := range heatmap.Methods {
		if m == name {
			return true
		}
	}
	return false
}

// Bind attaches the scalar settings to fs. Lists are given comma separated.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Name, "name", c.Name, "experiment name, used as output file prefix")
	fs.StringVar(&c.OutDir, "out", c.OutDir, "output directory")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed")
	fs.IntVar(&c.Width, "w", c.Width, "scene width")
	fs.IntVar(&c.Height, "h", c.Height, "scene height")
	fs.IntVar(&c.Length, "length", c.Length, "run length in seconds")
	fs.IntVar(&c.FPS, "fps", c.FPS, "frames per second")
	fs.Float64Var(&c.Period, "period", c.Period, "noise period in seconds")
	fs.StringVar(&c.Noise, "noise", c.Noise, "noise kind")
	fs.StringVar(&c.Stream, "stream", c.Stream, "stream kind: single, continuous, circular, running, temporal")
	fs.Float64Var(&c.PPD, "ppd", c.PPD, "pixels per degree")
	fs.Float64Var(&c.PatchSizeDeg, "patch-deg", c.PatchSizeDeg, "patch size in degrees")
	fs.StringVar(&c.PatchKind, "patch", c.PatchKind, "patch kind: gabor or plaid")
	fs.Float64Var(&c.Contrast, "contrast", c.Contrast, "patch contrast")
	fs.Float64Var(&c.PatchX, "x", c.PatchX, "patch x position")
	fs.Float64Var(&c.PatchY, "y", c.PatchY, "patch y position")
	fs.Float64Var(&c.ShiftX, "shift-x", c.ShiftX, "patch x velocity in px/s")
	fs.Float64Var(&c.ShiftY, "shift-y", c.ShiftY, "patch y velocity in px/s")
	fs.IntVar(&c.Granularity, "granularity", c.Granularity, "pattern library sweep steps")
	fs.IntVar(&c.Window, "window", c.Window, "heat map window, 0 for patch size")
	fs.IntVar(&c.Step, "step", c.Step, "heat map step, 0 for window/4")
	fs.StringVar(&c.Video, "video", c.Video, "frame sink: video, images or none")
	fs.StringVar(&c.Table, "table", c.Table, "score table: csv, sqlite or none")
	fs.IntVar(&c.Scale, "upscale", c.Scale, "image sink upscale factor")
	fs.Func("methods", "comma separated detection methods", func(v string) error {
		c.Methods = splitList(v)
		return nil
	})
	fs.Func("percentiles", "comma separated evaluation percentiles", func(v string) error {
		ps, err := parseFloats(v)
		if err != nil {
			return err
		}
		c.Percentiles = ps
		return nil
	})
}

// FromMap populates the config from a string map (flag-style key/value
// pairs). Values that do not parse keep their defaults.
func FromMap(m map[string]string) Config {
	c := DefaultConfig()
	if m == nil {
		return c
	}
	if v, ok := m["name"]; ok && v != "" {
		c.Name = v
	}
	if v, ok := m["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	for key, dst := range map[string]*int{"w": &c.Width, "h": &c.Height, "length": &c.Length, "fps": &c.FPS, "granularity": &c.Granularity} {
		if v, ok := m[key]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				*dst = parsed
			}
		}
	}
	for key, dst := range map[string]*float64{"period": &c.Period, "ppd": &c.PPD, "patch_deg": &c.PatchSizeDeg, "contrast": &c.Contrast} {
		if v, ok := m[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
				*dst = parsed
			}
		}
	}
	for key, dst := range map[string]*float64{"x": &c.PatchX, "y": &c.PatchY, "shift_x": &c.ShiftX, "shift_y": &c.ShiftY} {
		if v, ok := m[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = parsed
			}
		}
	}
	for key, dst := range map[string]*string{"noise": &c.Noise, "stream": &c.Stream, "patch": &c.PatchKind} {
		if v, ok := m[key]; ok && v != "" {
			*dst = v
		}
	}
	if v, ok := m["methods"]; ok && v != "" {
		c.Methods = splitList(v)
	}
	return c
}

// LoadConfig reads a JSON file over DefaultConfig. A missing file logs a
// warning and yields the defaults.
func LoadConfig(path string, logger *log.Logger) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("warn: config file '%s' not found, using default settings.\n", path)
			return cfg, nil
		}
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseFloats(v string) ([]float64, error) {
	var out []float64
	for _, s := range splitList(v) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", s, err)
		}
		out = append(out, f)
	}
	return out, nil
}
