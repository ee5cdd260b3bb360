package core

import (
	"fmt"
	"io"
	"strconv"
)

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeFloat denotes floating-point parameters.
	ParamTypeFloat ParamType = "float"
	// ParamTypeString denotes free-form parameters such as plan names.
	ParamTypeString ParamType = "string"
)

// Parameter describes a single generation setting.
type Parameter struct {
	Key         string
	Label       string
	Type        ParamType
	Value       string
	Description string
}

// ParameterGroup clusters related parameters for presentation purposes.
type ParameterGroup struct {
	Name   string
	Params []Parameter
}

// ParameterSnapshot captures the effective settings of one generation run.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// IntParam builds an integer parameter.
func IntParam(key, label string, value int64) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

// FloatParam builds a floating-point parameter.
func FloatParam(key, label string, value float64) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeFloat, Value: strconv.FormatFloat(value, 'f', -1, 64)}
}

// StringParam builds a free-form parameter.
func StringParam(key, label, value string) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeString, Value: value}
}

// Lookup finds a parameter by key across all groups.
func (s ParameterSnapshot) Lookup(key string) (Parameter, bool) {
	for _, g := range s.Groups {
		for _, p := range g.Params {
			if p.Key == key {
				return p, true
			}
		}
	}
	return Parameter{}, false
}

// WriteTo prints the snapshot grouped and indented.
func (s ParameterSnapshot) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, g := range s.Groups {
		n, err := fmt.Fprintf(w, "%s:\n", g.Name)
		total += int64(n)
		if err != nil {
			return total, err
		}
		for _, p := range g.Params {
			n, err := fmt.Fprintf(w, "  %s=%s\n", p.Key, p.Value)
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}
