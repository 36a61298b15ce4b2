// Package format renders sizes and rates in the units the size limit
// and the bitrate fields use: MiB and kb/s.
package format

import (
	"math"
	"strconv"
)

var sizeUnits = []string{"KiB", "MiB", "GiB"}

// Size renders b in binary units with one decimal, e.g. "8.0 MiB".
// Negative input renders as "0 B".
func Size(b int64) string {
	if b < 0 {
		b = 0
	}
	if b < 1024 {
		return strconv.FormatInt(b, 10) + " B"
	}
	v := float64(b)
	unit := ""
	for _, u := range sizeUnits {
		v /= 1024
		unit = u
		if v < 1024 {
			break
		}
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + " " + unit
}

// Kbps renders a rate in kilobits per second, e.g. "964 kb/s". Rates at
// or above 10000 kb/s switch to Mb/s with one decimal.
func Kbps(v float64) string {
	if v >= 10000 {
		return strconv.FormatFloat(v/1000, 'f', 1, 64) + " Mb/s"
	}
	return strconv.FormatFloat(math.Max(math.Floor(v), 0), 'f', 0, 64) + " kb/s"
}
