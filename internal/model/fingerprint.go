package model

import (
	"fmt"
	"strconv"
)

// ProcedureFingerprint returns the file-level fingerprint "{icao}.{transition}.{via}"
// described in spec §3, used to check a merged record's procedure is already listed.
func ProcedureFingerprint(icao, transition, via string) string {
	return fmt.Sprintf("%s.%s.%s", icao, transition, via)
}

// DetailFingerprint returns the detail-block fingerprint "{transition}.{via}".
func DetailFingerprint(transition, via string) string {
	return fmt.Sprintf("%s.%s", transition, via)
}

// TransitionVia computes the (transition, via) pair a merged record belongs under,
// per spec §4.6 step 1: transition procedures (type 6 or A) key off the leg's own
// transition and the terminal name; all other legs key off the terminal name and a
// zero-padded runway.
func TransitionVia(r MergedRecord) (transition, via string) {
	if isTransitionType(r.Type) {
		return r.Transition, r.Terminal
	}
	return r.Terminal, ZeroPad(r.Rwy, 2)
}

// isTransitionType mirrors the source pipeline's own comparison: Type is stringified
// and checked against "6" or "A". Since Type is always numeric, the "A" branch can
// never match a real leg — that is a property of the source data, not a bug here —
// but it is kept so the predicate reads the same as every other type comparison in
// this package.
func isTransitionType(t *int) bool {
	if t == nil {
		return false
	}
	s := strconv.Itoa(*t)
	return s == "6" || s == "A"
}
