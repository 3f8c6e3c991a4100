package app

import "flag"

// Config represents the display parameters of the live viewer.
type Config struct {
	Scale    int
	TPS      int
	HUDWidth int
	// Overlay names the detection method drawn over the scene; empty draws
	// none.
	Overlay string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Scale: 3, TPS: 30, HUDWidth: 240, Overlay: "threshold_diff"}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "parameter panel width, 0 to hide")
	fs.StringVar(&c.Overlay, "overlay", c.Overlay, "detection method drawn over the scene")
}

// DT is the simulated time of one tick.
func (c *Config) DT() float64 {
	if c.TPS <= 0 {
		return 0
	}
	return 1 / float64(c.TPS)
}
