package merge

import (
	"regexp"
	"sort"

	"navterm/internal/model"
)

var digitRE = regexp.MustCompile(`\d`)

// DeriveTransitionTerminals builds the secondary projection C4 consumes: the
// Terminals table restricted to ICAOs with no digit, plus one synthetic
// TerminalRecord per merged record whose leg type is a transition type (6 or
// A), with any record still missing a runway expanded against the distinct
// runways the merge stream actually produced for that (icao, name) pair.
// Grounded on get_terminals/generate_transitions in the source pipeline's list
// module; the spec's §4.5 note describes only the first two pieces, the rwy
// expansion is a supplemented behavior the distillation dropped.
func DeriveTransitionTerminals(terminals []model.Terminal, merged []model.MergedRecord) []model.TerminalRecord {
	var recs []model.TerminalRecord

	for _, t := range terminals {
		if digitRE.MatchString(t.ICAO) {
			continue
		}
		rec := model.TerminalRecord{Proc: t.Proc, ICAO: t.ICAO, Name: t.Name}
		if t.Rwy != nil {
			rec.Rwy = *t.Rwy
		}
		recs = append(recs, rec)
	}

	for _, r := range merged {
		if r.Type == nil {
			continue
		}
		proc := transitionProcCode(*r.Type)
		if proc == "" {
			continue
		}
		recs = append(recs, model.TerminalRecord{
			Proc: proc,
			ICAO: r.ICAO,
			Name: r.Transition,
			Rwy:  r.Rwy,
		})
	}

	var withRwy, withoutRwy []model.TerminalRecord
	for _, r := range recs {
		if r.Rwy != "" {
			withRwy = append(withRwy, r)
		} else {
			withoutRwy = append(withoutRwy, r)
		}
	}

	out := append([]model.TerminalRecord{}, withRwy...)
	for _, rec := range withoutRwy {
		uniqueRwys := distinctRunways(merged, rec.ICAO, rec.Name)
		if len(uniqueRwys) == 0 {
			out = append(out, rec)
			continue
		}
		for _, rwy := range uniqueRwys {
			expanded := rec
			expanded.Rwy = rwy
			out = append(out, expanded)
		}
	}

	return out
}

// transitionProcCode returns the procedure code a merged record's leg type
// corresponds to in the TerminalRecord space, or "" if it is not a transition
// type. Only type 6 (SID transition) and the nominal "A" (APP transition, which
// a numeric Type field can never actually encode — see model.isTransitionType)
// are transition types.
func transitionProcCode(t int) string {
	if t == 6 {
		return "6"
	}
	return ""
}

// distinctRunways returns the sorted, de-duplicated set of non-empty runway
// idents among merged records matching (icao, terminal name).
func distinctRunways(merged []model.MergedRecord, icao, terminal string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range merged {
		if r.ICAO != icao || r.Terminal != terminal || r.Rwy == "" {
			continue
		}
		if _, ok := seen[r.Rwy]; ok {
			continue
		}
		seen[r.Rwy] = struct{}{}
		out = append(out, r.Rwy)
	}
	sort.Strings(out)
	return out
}
