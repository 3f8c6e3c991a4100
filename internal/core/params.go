package core

import "strconv"

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeFloat denotes floating-point parameters.
	ParamTypeFloat ParamType = "float"
	// ParamTypeString denotes free-form parameters such as kind names.
	ParamTypeString ParamType = "string"
)

// Parameter describes a single value exposed by a source.
type Parameter struct {
	Key   string
	Label string
	Type  ParamType
	Value string
}

// ParameterGroup clusters related parameters for presentation purposes.
type ParameterGroup struct {
	Name   string
	Params []Parameter
}

// ParameterSnapshot captures the current set of values exposed by a source.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// ParameterProvider is implemented by sources that expose live parameters to
// the HUD and to experiment log headers.
type ParameterProvider interface {
	Parameters() ParameterSnapshot
}

// IntParam builds an integer parameter.
func IntParam(key, label string, v int) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeInt, Value: strconv.Itoa(v)}
}

// FloatParam builds a floating point parameter formatted with 3 decimals.
func FloatParam(key, label string, v float64) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeFloat, Value: strconv.FormatFloat(v, 'f', 3, 64)}
}

// StringParam builds a free-form parameter.
func StringParam(key, label, v string) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeString, Value: v}
}

// Merge concatenates the groups of several snapshots.
func Merge(snaps ...ParameterSnapshot) ParameterSnapshot {
	var out ParameterSnapshot
	for _, s := range snaps {
		out.Groups = append(out.Groups, s.Groups...)
	}
	return out
}

// SnapshotOf returns the parameters of src, or an empty snapshot if src does
// not expose any.
func SnapshotOf(src any) ParameterSnapshot {
	if p, ok := src.(ParameterProvider); ok {
		return p.Parameters()
	}
	return ParameterSnapshot{}
}
