package patch

import (
	"fmt"
	"strings"
)

// Field names one mutable patch parameter.
type Field int

const (
	// FieldTheta is the grating orientation in degrees. Zero yields vertical bars.
	FieldTheta Field = iota
	// FieldFreq is the grating frequency in cycles per degree.
	FieldFreq
	// FieldPhase is the grating phase as a fraction of one cycle.
	FieldPhase
)

// Fields lists every mutable field in sweep order.
var Fields = []Field{FieldTheta, FieldPhase, FieldFreq}

func (f Field) String() string {
	switch f {
	case FieldTheta:
		return "theta"
	case FieldFreq:
		return "freq"
	case FieldPhase:
		return "phase"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// ParseField resolves a configured parameter name.
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "theta":
		return FieldTheta, nil
	case "freq":
		return FieldFreq, nil
	case "phase":
		return FieldPhase, nil
	default:
		return 0, fmt.Errorf("unknown patch parameter %q", name)
	}
}

// Params is the grating parameter set.
type Params struct {
	Theta float64
	Freq  float64
	Phase float64
}

// DefaultParams are the values used for fields without an update rule.
var DefaultParams = Params{Theta: 45, Freq: 6, Phase: 0.25}

// Get returns the value of field f.
func (p *Params) Get(f Field) float64 {
	switch f {
	case FieldTheta:
		return p.Theta
	case FieldFreq:
		return p.Freq
	default:
		return p.Phase
	}
}

// Set stores v into field f.
func (p *Params) Set(f Field, v float64) {
	switch f {
	case FieldTheta:
		p.Theta = v
	case FieldFreq:
		p.Freq = v
	default:
		p.Phase = v
	}
}

// Binding attaches an update rule to one field.
type Binding struct {
	Field   Field
	Updater Updater
}

// Bind is shorthand for constructing a Binding.
func Bind(f Field, u Updater) Binding { return Binding{Field: f, Updater: u} }
