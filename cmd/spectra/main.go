// Command spectra renders one field of every registered noise kind next to
// its centred amplitude spectrum, for checking the spectral slopes by eye.
package main

import (
	"flag"
	"log"
	"os"

	"stimgen/internal/core"
	"stimgen/internal/noise"
	"stimgen/internal/sink"
)

func main() {
	logger := log.New(os.Stdout, "[SPECTRA] ", log.LstdFlags)

	out := flag.String("out", "spectra", "output directory")
	size := flag.Int("size", 256, "field width and height")
	seed := flag.Int64("seed", 1, "random seed")
	scale := flag.Int("scale", 2, "image upscale factor")
	flag.Parse()

	rng := core.NewRNG(*seed)
	for _, kind := range core.NoiseNames() {
		gen, err := noise.New(kind, *size, *size, rng)
		if err != nil {
			logger.Fatal(err)
		}
		field := gen.Draw()
		images, err := sink.NewImages(*out, kind, *scale)
		if err != nil {
			logger.Fatal(err)
		}
		for _, f := range []*core.Frame{field, noise.Spectrum(field)} {
			if err := images.WriteFrame(f); err != nil {
				logger.Fatalf("%s: %v", kind, err)
			}
		}
		logger.Printf("%s: mean %.3f std %.3f -> %s, %s", kind, field.Mean(), field.Std(), images.Path(0), images.Path(1))
	}
}
