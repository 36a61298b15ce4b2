package validate

import (
	"fmt"
	"math"
	"strconv"
)

// FormatError reports raw text that does not parse as the required shape.
type FormatError struct {
	Value string
	Want  string // "int", "float" or "time"
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s required", e.Want)
}

// RangeError reports a parsed value outside the field's bounds.
type RangeError struct {
	Value    float64
	Min, Max float64 // Max is +Inf when unbounded.
	Reason   string  // Optional override of the default message.
}

func (e *RangeError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	if math.IsInf(e.Max, 1) {
		return "must be at least " + num(e.Min)
	}
	return fmt.Sprintf("must be between %s and %s", num(e.Min), num(e.Max))
}

// DependencyError marks a field that cannot be checked because a field
// it depends on is already invalid.
type DependencyError struct {
	DependsOn string
}

func (e *DependencyError) Error() string {
	return "depends on invalid " + e.DependsOn
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
