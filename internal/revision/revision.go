// Package revision implements the revision stamper (C7): writing the
// Supplemental/FMC_Ident.txt identity file with the current NAIP revision code.
package revision

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"navterm/internal/model"
)

// entry is one (rev code, effective date) pair from the hard-coded 2025 table.
// date is always midnight in shanghai, so it compares directly against a
// now-instant localized and truncated to its Shanghai calendar date.
type entry struct {
	code int
	date time.Time
}

// shanghai is loaded once at init: every effective date and every CurrentCode
// comparison is anchored to it, so "today" means the Shanghai calendar date,
// not the UTC instant.
var shanghai = mustLoadLocation("Asia/Shanghai")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err) // the zone database is a deployment invariant, a load failure is a programming/environment error
	}
	return loc
}

var table = buildTable([]struct {
	code int
	date string
}{
	{2501, "2025-01-23"},
	{2502, "2025-02-20"},
	{2503, "2025-03-20"},
	{2504, "2025-04-17"},
	{2505, "2025-05-15"},
	{2506, "2025-06-12"},
	{2507, "2025-07-10"},
	{2508, "2025-08-07"},
	{2509, "2025-09-04"},
	{2510, "2025-10-02"},
	{2511, "2025-10-30"},
	{2512, "2025-11-27"},
	{2513, "2025-12-25"},
})

func buildTable(raw []struct {
	code int
	date string
}) []entry {
	out := make([]entry, len(raw))
	for i, r := range raw {
		d, err := time.ParseInLocation("2006-01-02", r.date, shanghai)
		if err != nil {
			panic(err) // table is a compile-time constant, a parse failure is a programming error
		}
		out[i] = entry{r.code, d}
	}
	return out
}

// CurrentCode returns the revision code in effect at now, evaluated against
// the Shanghai calendar date: the last table entry whose effective date is on
// or before today, defaulting to the first entry. now is truncated to its
// Shanghai calendar date before comparing, so the boundary falls at Shanghai
// local midnight rather than UTC midnight.
func CurrentCode(now time.Time) (int, error) {
	local := now.In(shanghai)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, shanghai)

	code := table[0].code
	for _, e := range table {
		if !today.Before(e.date) {
			code = e.code
		}
	}
	return code, nil
}

// Stamp writes Supplemental/FMC_Ident.txt under supplementalDir, overwriting it
// unconditionally with the revision code in effect at now.
func Stamp(supplementalDir string, now time.Time) error {
	code, err := CurrentCode(now)
	if err != nil {
		return err
	}

	path := filepath.Join(supplementalDir, "FMC_Ident.txt")
	content := fmt.Sprintf("[Ident]\nSuppData=NAIP-%d\n", code)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return &model.IoError{Op: "write", Path: path, Err: err}
	}
	return nil
}
