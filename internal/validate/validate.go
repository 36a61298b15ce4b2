// Package validate holds the field validators and the error accumulator
// used while resolving option fields into an encode request.
package validate

import (
	"errors"
	"math"
	"regexp"
	"strconv"

	"webmclip/internal/util/timecode"
)

// NoMax is the upper bound for fields without one.
var NoMax = math.Inf(1)

var (
	reInt   = regexp.MustCompile(`^-?\d+$`)
	reFloat = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// RequireInt parses s as an optionally signed integer.
func RequireInt(s string) (int, error) {
	if !reInt.MatchString(s) {
		return 0, &FormatError{Value: s, Want: "int"}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &FormatError{Value: s, Want: "int"}
	}
	return n, nil
}

// RequireFloat parses s as an optionally signed decimal.
func RequireFloat(s string) (float64, error) {
	if !reFloat.MatchString(s) {
		return 0, &FormatError{Value: s, Want: "float"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &FormatError{Value: s, Want: "float"}
	}
	return v, nil
}

// RequireTime parses s as a timecode in seconds.
func RequireTime(s string) (float64, error) {
	v, err := timecode.Parse(s)
	if err != nil {
		return 0, &FormatError{Value: s, Want: "time"}
	}
	return v, nil
}

// RequireRange checks min <= v <= max.
func RequireRange(v, min, max float64) (float64, error) {
	if v < min || v > max {
		return v, &RangeError{Value: v, Min: min, Max: max}
	}
	return v, nil
}

// Int returns a field check for an optional integer in [min, max].
// Empty input resolves to nil.
func Int(raw string, min, max float64) func() (*int, error) {
	return func() (*int, error) {
		if raw == "" {
			return nil, nil
		}
		n, err := RequireInt(raw)
		if err != nil {
			return nil, err
		}
		if _, err := RequireRange(float64(n), min, max); err != nil {
			return nil, err
		}
		return &n, nil
	}
}

// Float returns a field check for an optional decimal in [min, max].
// Empty input resolves to nil.
func Float(raw string, min, max float64) func() (*float64, error) {
	return func() (*float64, error) {
		if raw == "" {
			return nil, nil
		}
		v, err := RequireFloat(raw)
		if err != nil {
			return nil, err
		}
		if _, err := RequireRange(v, min, max); err != nil {
			return nil, err
		}
		return &v, nil
	}
}

// Group names a set of related fields shown together.
type Group string

const (
	GroupVideoFX Group = "videoFX"
	GroupAudioFX Group = "audioFX"
	GroupCodecs  Group = "codecs"
)

// Groups lists the field groups in display order.
var Groups = []Group{GroupVideoFX, GroupAudioFX, GroupCodecs}

// FieldError is one failed field.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

// Result is the outcome of one validation pass.
type Result struct {
	Errors   map[Group][]FieldError
	AllValid bool
}

// Group returns the errors recorded for g, in the order they were found.
func (r Result) Group(g Group) []FieldError {
	return r.Errors[g]
}

// Lookup returns the error recorded for field, if any.
func (r Result) Lookup(field string) (FieldError, bool) {
	for _, g := range Groups {
		for _, fe := range r.Errors[g] {
			if fe.Field == field {
				return fe, true
			}
		}
	}
	return FieldError{}, false
}

// Count returns the total number of field errors.
func (r Result) Count() int {
	n := 0
	for _, errs := range r.Errors {
		n += len(errs)
	}
	return n
}

// Validator accumulates field errors across a pass. Failures never stop
// the pass; the failing field resolves to its zero value.
type Validator struct {
	res    Result
	failed map[string]bool
}

// New returns a Validator with every group present and AllValid set.
func New() *Validator {
	errs := make(map[Group][]FieldError, len(Groups))
	for _, g := range Groups {
		errs[g] = []FieldError{}
	}
	return &Validator{
		res:    Result{Errors: errs, AllValid: true},
		failed: map[string]bool{},
	}
}

// Fail records err against field in group g.
func (v *Validator) Fail(g Group, field string, err error) {
	v.res.AllValid = false
	v.failed[field] = true
	v.res.Errors[g] = append(v.res.Errors[g], FieldError{Field: field, Message: err.Error(), Err: err})
}

// Failed reports whether field has already been recorded as invalid.
func (v *Validator) Failed(field string) bool {
	return v.failed[field]
}

// Valid reports whether no field has failed so far.
func (v *Validator) Valid() bool {
	return v.res.AllValid
}

// Result returns a copy of the accumulated result.
func (v *Validator) Result() Result {
	errs := make(map[Group][]FieldError, len(v.res.Errors))
	for g, list := range v.res.Errors {
		errs[g] = append([]FieldError(nil), list...)
	}
	return Result{Errors: errs, AllValid: v.res.AllValid}
}

// Field runs check for field. On failure the error is recorded and nil is
// returned so callers can keep resolving the remaining fields.
func Field[T any](v *Validator, g Group, field string, check func() (*T, error)) *T {
	val, err := check()
	if err != nil {
		v.Fail(g, field, err)
		return nil
	}
	return val
}

// IsFormat reports whether err is a FormatError.
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsRange reports whether err is a RangeError.
func IsRange(err error) bool {
	var re *RangeError
	return errors.As(err, &re)
}

// IsDependency reports whether err is a DependencyError.
func IsDependency(err error) bool {
	var de *DependencyError
	return errors.As(err, &de)
}
