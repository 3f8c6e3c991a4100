package experiment

// Variant letters: D is dynamic, S is static.
var variants = []byte{'D', 'S'}

// LocalizationSuite expands base into the eight scene/patch/position
// combinations of a localization study. The name suffix lists the three
// letters in that order, e.g. "gabor_localization_DSD".
func LocalizationSuite(base Config) []Config {
	shiftX, shiftY := base.ShiftX, base.ShiftY
	if shiftX == 0 && shiftY == 0 {
		// cross half the scene over the run
		shiftX = float64(base.Width) / float64(2*base.Length)
		shiftY = float64(base.Height) / float64(2*base.Length)
	}
	updates := base.Updates
	if len(updates) == 0 {
		updates = DefaultUpdates()
	}

	var out []Config
	for _, env := range variants {
		for _, pt := range variants {
			for _, pos := range variants {
				c := base
				c.Name = base.Name + "_" + string([]byte{env, pt, pos})
				c.Stream = base.Stream
				if env == 'S' {
					c.Stream = "single"
				} else if c.Stream == "single" || c.Stream == "" {
					c.Stream = "continuous"
				}
				c.Updates = nil
				if pt == 'D' {
					c.Updates = updates
				}
				c.ShiftX, c.ShiftY = 0, 0
				if pos == 'D' {
					c.ShiftX, c.ShiftY = shiftX, shiftY
				}
				out = append(out, c)
			}
		}
	}
	return out
}
