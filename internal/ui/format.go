package ui

import "github.com/dustin/go-humanize"

// HumanSize formats a byte count for display.
func HumanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
