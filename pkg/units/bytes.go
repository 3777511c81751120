/*
 * Copyright © 2019 One Concern
 *
 */

// Package units formats byte counts for reports.
package units

import (
	"fmt"
)

// FieldWidth is the fixed width of a formatted size, left-justified so
// report columns line up.
const FieldWidth = 14

var suffixes = []string{"KiB", "MiB", "GiB", "TiB", "PiB"}

// FormatBytes renders a byte count in the largest binary unit not exceeding
// the value. Counts below 1024 stay integral with a "B" suffix, everything
// else gets exactly two fractional digits.
func FormatBytes(v uint64) string {
	if v < 1024 {
		return pad(fmt.Sprintf("%dB", v))
	}
	f := float64(v) / 1024
	i := 0
	for f >= 1024 && i < len(suffixes)-1 {
		f /= 1024
		i++
	}
	return pad(fmt.Sprintf("%.2f%s", f, suffixes[i]))
}

func pad(s string) string {
	return fmt.Sprintf("%-*s", FieldWidth, s)
}
