// Package procfile implements the procedure-list writer (C4), the
// procedure/detail parser (C5), and the leg emitter (C6): the three stages
// that read and rewrite individual Supplemental files.
package procfile

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"navterm/internal/model"
)

// AllowedExtensions are the file types C5 will parse. .startrs is intentionally
// excluded here even though C3 mirrors it.
var AllowedExtensions = map[string]bool{
	".app":    true,
	".apptrs": true,
	".sid":    true,
	".sidtrs": true,
	".star":   true,
}

var (
	procLineRE   = regexp.MustCompile(`^Procedure\.(\d+)=(\S+)\.(\S+)`)
	detailLineRE = regexp.MustCompile(`^\[(\S+)\.(\S+)\.(\d+)\]$`)
)

// Parsed holds the procedure and detail fingerprints an existing file carries.
type Parsed struct {
	Procedures []string
	Details    map[string]bool
}

// Parse extracts procedure and detail fingerprints from path, per C5. A file
// whose extension is not in AllowedExtensions yields an empty, non-nil Parsed.
// A missing file is not an error: it yields the same empty result a brand new
// file would.
func Parse(path string) (Parsed, error) {
	result := Parsed{Details: make(map[string]bool)}

	ext := filepath.Ext(path)
	if !AllowedExtensions[ext] {
		return result, nil
	}

	icao := icaoStem(filepath.Base(path))

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return result, &model.IoError{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	listStarted := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "[list]") {
			listStarted = true
			continue
		}
		if listStarted {
			if strings.HasPrefix(line, "[") {
				listStarted = false
			} else if m := procLineRE.FindStringSubmatch(line); m != nil {
				result.Procedures = append(result.Procedures, icao+"."+m[2]+"."+m[3])
			}
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			if m := detailLineRE.FindStringSubmatch(line); m != nil {
				result.Details[m[1]+"."+m[2]] = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return result, &model.IoError{Op: "read", Path: path, Err: err}
	}

	return result, nil
}

// HasProcedure reports whether fingerprint appears among the parsed procedures.
func (p Parsed) HasProcedure(fingerprint string) bool {
	for _, pr := range p.Procedures {
		if pr == fingerprint {
			return true
		}
	}
	return false
}

// icaoStem is the filename up to (not including) its first dot.
func icaoStem(base string) string {
	if i := strings.Index(base, "."); i >= 0 {
		return base[:i]
	}
	return base
}

// seqFromNum is a small helper kept alongside Parse since both C4 and C5 share
// the "Procedure.N=name.rwy" grammar; it is used by list.go's own scan.
func seqFromNum(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
