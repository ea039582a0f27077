package procfile

import (
	"os"
	"path/filepath"
	"testing"

	"navterm/internal/model"
)

func TestFilePath(t *testing.T) {
	got := FilePath("/nav", "ZBAA", "2")
	want := filepath.Join("/nav", "Supplemental", "SID", "ZBAA.sid")
	if got != want {
		t.Errorf("FilePath() = %q, want %q", got, want)
	}
	if got := FilePath("/nav", "ZBAA", "9"); got != "" {
		t.Errorf("FilePath() for unknown proc = %q, want empty", got)
	}
}

func TestWriteList_AssignsStableMonotonicSequence(t *testing.T) {
	dir := t.TempDir()
	records := []model.TerminalRecord{
		{Proc: "2", ICAO: "ZBAA", Name: "PIK01", Rwy: "18"},
		{Proc: "2", ICAO: "ZBAA", Name: "PIK01", Rwy: "36"},
	}

	if err := WriteList(dir, "ZBAA", "2", records); err != nil {
		t.Fatalf("WriteList() error = %v", err)
	}

	path := FilePath(dir, "ZBAA", "2")
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	wantFirst := "[list]\nProcedure.1=PIK01.18\nProcedure.2=PIK01.36\n"
	if string(first) != wantFirst {
		t.Errorf("first write = %q, want %q", first, wantFirst)
	}

	// A re-run with the same records must not renumber existing entries (P3),
	// and must not grow the list (P2 is trivially satisfied: no new keys).
	if err := WriteList(dir, "ZBAA", "2", records); err != nil {
		t.Fatalf("WriteList() second call error = %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(second) != string(first) {
		t.Errorf("second write = %q, want unchanged %q", second, first)
	}

	// A third call adding one brand new key must only ever append, keeping the
	// existing two entries' numbers stable.
	records = append(records, model.TerminalRecord{Proc: "2", ICAO: "ZBAA", Name: "PIK01", Rwy: "09"})
	if err := WriteList(dir, "ZBAA", "2", records); err != nil {
		t.Fatalf("WriteList() third call error = %v", err)
	}
	third, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "[list]\nProcedure.1=PIK01.18\nProcedure.2=PIK01.36\nProcedure.3=PIK01.09\n"
	if string(third) != want {
		t.Errorf("third write = %q, want %q", third, want)
	}
}

func TestWriteList_PreservesTrailingDetailBlocks(t *testing.T) {
	dir := t.TempDir()
	path := FilePath(dir, "ZBAA", "2")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	seed := "[list]\nProcedure.1=PIK01.18\n[PIK01.18.0]\nleg=IF\n"
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	records := []model.TerminalRecord{{Proc: "2", ICAO: "ZBAA", Name: "PIK01", Rwy: "18"}}
	if err := WriteList(dir, "ZBAA", "2", records); err != nil {
		t.Fatalf("WriteList() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "[list]\nProcedure.1=PIK01.18\n[PIK01.18.0]\nleg=IF\n"
	if string(got) != want {
		t.Errorf("WriteList() = %q, want %q (detail blocks preserved verbatim)", got, want)
	}
}

func TestWriteList_SkipsRecordsWithoutRunway(t *testing.T) {
	dir := t.TempDir()
	records := []model.TerminalRecord{{Proc: "2", ICAO: "ZBAA", Name: "PIK01", Rwy: ""}}
	if err := WriteList(dir, "ZBAA", "2", records); err != nil {
		t.Fatalf("WriteList() error = %v", err)
	}
	got, err := os.ReadFile(FilePath(dir, "ZBAA", "2"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "[list]\n" {
		t.Errorf("WriteList() = %q, want empty list", got)
	}
}
