// Package timecode converts between seconds and the [[HH:]MM:]SS[.fff]
// notation used by the trim fields.
package timecode

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	reSeconds = regexp.MustCompile(`^\d+(\.\d+)?$`)
	reUnit    = regexp.MustCompile(`^\d+$`)
)

// Parse converts "SS", "MM:SS" or "HH:MM:SS", each with optional
// fractional seconds, into seconds. Minutes and seconds must be below 60
// when a larger unit is present.
func Parse(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if s == "" || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q", s)
	}

	last := parts[len(parts)-1]
	if !reSeconds.MatchString(last) {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	sec, err := strconv.ParseFloat(last, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	if len(parts) == 1 {
		return sec, nil
	}
	if sec >= 60 {
		return 0, fmt.Errorf("invalid time %q: seconds out of range", s)
	}

	total := sec
	mult := 60.0
	for i := len(parts) - 2; i >= 0; i-- {
		p := parts[i]
		if !reUnit.MatchString(p) {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		n, _ := strconv.Atoi(p)
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("invalid time %q: minutes out of range", s)
		}
		total += float64(n) * mult
		mult *= 60
	}
	return total, nil
}

// Format renders seconds as HH:MM:SS, adding .fff only when the value
// has a millisecond part. Negative input renders as zero.
func Format(sec float64) string {
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	ms := int64(math.Round(sec * 1000))
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	out := fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	if ms > 0 {
		out += fmt.Sprintf(".%03d", ms)
	}
	return out
}
