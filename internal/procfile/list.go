package procfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"navterm/internal/model"
)

var listEntryRE = regexp.MustCompile(`^Procedure\.(\d+)=(\S+)\.(\S+)`)

// procDir maps a procedure code to its Supplemental directory and extension,
// per spec §4.5. Proc codes outside this table are not written.
var procDir = map[string]struct {
	dir string
	ext string
}{
	"2": {"SID", ".sid"},
	"1": {"STAR", ".star"},
	"3": {"STAR", ".app"},
	"6": {"SID", ".sidtrs"},
	"A": {"STAR", ".apptrs"},
}

// FilePath returns the Supplemental file path for an (icao, proc) pair, or ""
// if proc is not one of the five known codes.
func FilePath(navdataPath, icao, proc string) string {
	d, ok := procDir[proc]
	if !ok {
		return ""
	}
	return filepath.Join(navdataPath, "Supplemental", d.dir, icao+d.ext)
}

// WriteList rewrites the [list] section of the file for (icao, proc), assigning
// stable monotonic sequence numbers to any record not already listed and
// keeping the lines after the first [list] marker (see existingTail), per C4
// (spec §4.5). Lines before that marker are not kept.
func WriteList(navdataPath, icao, proc string, records []model.TerminalRecord) error {
	path := FilePath(navdataPath, icao, proc)
	if path == "" {
		return nil
	}

	entries, nextSeq, err := scanExistingList(path)
	if err != nil {
		return err
	}

	for _, rec := range records {
		if rec.Rwy == "" {
			continue
		}
		key := rec.Name + "." + model.ZeroPad(rec.Rwy, 2)
		if _, ok := entries[key]; ok {
			continue
		}
		entries[key] = nextSeq
		nextSeq++
	}

	type numbered struct {
		key string
		num int
	}
	sorted := make([]numbered, 0, len(entries))
	for k, n := range entries {
		sorted = append(sorted, numbered{k, n})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].num < sorted[j].num })

	var body strings.Builder
	body.WriteString("[list]\n")
	for _, e := range sorted {
		name, rwy, ok := strings.Cut(e.key, ".")
		if !ok {
			continue
		}
		fmt.Fprintf(&body, "Procedure.%d=%s.%s\n", e.num, name, rwy)
	}

	tail, err := existingTail(path)
	if err != nil {
		return err
	}
	body.WriteString(tail)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &model.IoError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	if err := os.WriteFile(path, []byte(body.String()), 0o644); err != nil {
		return &model.IoError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// scanExistingList reads every Procedure.N=name.rwy line of a file, wherever it
// appears, returning its (key, num) entries and the next sequence number to
// assign (max seen + 1, or 1 if the file is absent or has no entries).
func scanExistingList(path string) (map[string]int, int, error) {
	entries := make(map[string]int)
	maxSeq := 0

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, 1, nil
		}
		return nil, 0, &model.IoError{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := listEntryRE.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		num, ok := seqFromNum(m[1])
		if !ok {
			continue
		}
		entries[m[2]+"."+m[3]] = num
		if num > maxSeq {
			maxSeq = num
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, &model.IoError{Op: "read", Path: path, Err: err}
	}

	return entries, maxSeq + 1, nil
}

// existingTail returns the lines of path after its [list] section (the line
// after the first "[list]" marker onward), with any Procedure. line dropped. An
// absent file yields an empty tail.
func existingTail(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", &model.IoError{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	var tail strings.Builder
	seenList := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !seenList {
			if strings.TrimSpace(line) == "[list]" {
				seenList = true
			}
			continue
		}
		if strings.HasPrefix(line, "Procedure.") {
			continue
		}
		tail.WriteString(line)
		tail.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return "", &model.IoError{Op: "read", Path: path, Err: err}
	}

	return tail.String(), nil
}
