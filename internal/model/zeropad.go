package model

import "strings"

// ZeroPad left-pads s with '0' until it is at least width characters wide. It
// never truncates and never inspects the content of s: a non-numeric or
// mixed-length ident such as "36R" is already >= width and passes through
// unchanged, matching the source pipeline's zfill helper.
func ZeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
