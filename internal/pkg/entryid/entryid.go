// Package entryid formats and parses the human-readable member entry IDs
// (CUST0001, CUST0002, ...).
package entryid

import (
	"fmt"
	"regexp"
	"strconv"
)

const Prefix = "CUST"

var pattern = regexp.MustCompile(Prefix + `(\d+)`)

// Format zero-pads n to four digits. Larger numbers widen instead of wrapping.
func Format(n uint64) string {
	return fmt.Sprintf("%s%04d", Prefix, n)
}

// Parse extracts the number from an entry ID. It reports false when id holds
// no CUST number.
func Parse(id string) (uint64, bool) {
	m := pattern.FindStringSubmatch(id)
	if m == nil {
		return 0, false
	}

	n, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, false
	}

	return n, true
}
