package core

import "sort"

// Size describes the dimensions of a frame.
type Size struct {
	W int
	H int
}

// Source is a time-dependent frame producer. Next advances the source by dt
// and returns an independent copy of the current frame. A dt of zero never
// advances state, except that the very first call always produces a frame.
type Source interface {
	Size() Size
	Next(dt float64) *Frame
}

// StaticSource produces a fresh, statistically independent field on every
// Draw call.
type StaticSource interface {
	Size() Size
	Draw() *Frame
}

// NoiseFactory constructs a static field generator of the given size.
type NoiseFactory func(w, h int, rng *RNG) StaticSource

var noises = map[string]NoiseFactory{}

// Register adds a noise factory under the provided name.
func Register(name string, f NoiseFactory) {
	if name == "" || f == nil {
		return
	}
	noises[name] = f
}

// Noises exposes the registry of available noise factories.
func Noises() map[string]NoiseFactory {
	return noises
}

// NoiseNames lists the registered noise kinds in sorted order.
func NoiseNames() []string {
	names := make([]string, 0, len(noises))
	for name := range noises {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
