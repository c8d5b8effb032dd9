// Package format renders raw seconds and byte counts as human-readable strings.
package format

import "fmt"

// Duration formats a duration in seconds as MM:SS, or HH:MM:SS once the
// duration reaches an hour. Zero and negative values render as "00:00".
func Duration(seconds int) string {
	if seconds <= 0 {
		return "00:00"
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// FileSize formats a byte count with two decimals and the largest unit that
// keeps the value under 1024, capped at GB.
func FileSize(size int64) string {
	if size == 0 {
		return "0 Bytes"
	}

	units := []string{"Bytes", "KB", "MB", "GB"}
	value := float64(size)
	i := 0
	for value >= 1024 && i < len(units)-1 {
		value /= 1024
		i++
	}

	return fmt.Sprintf("%.2f %s", value, units[i])
}
