package mirror

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMirror_CopiesEligibleFilesAndSkipsOthers(t *testing.T) {
	root := t.TempDir()
	permanent := filepath.Join(root, "Permanent")
	supplemental := filepath.Join(root, "Supplemental")

	mustWrite(t, filepath.Join(permanent, "SID", "ZBAA.sid"), "sid data")
	mustWrite(t, filepath.Join(permanent, "SID", "ZBAA.txt"), "ignored extension")
	mustWrite(t, filepath.Join(permanent, "STAR", "KJFK.star"), "ineligible prefix")

	if err := Mirror(context.Background(), permanent, supplemental); err != nil {
		t.Fatalf("Mirror() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(supplemental, "SID", "ZBAA.sid"))
	if err != nil {
		t.Fatalf("expected ZBAA.sid to be mirrored: %v", err)
	}
	if string(got) != "sid data" {
		t.Errorf("mirrored content = %q, want %q", got, "sid data")
	}

	if _, err := os.Stat(filepath.Join(supplemental, "SID", "ZBAA.txt")); !os.IsNotExist(err) {
		t.Error("ZBAA.txt should not have been mirrored (disallowed extension)")
	}
	if _, err := os.Stat(filepath.Join(supplemental, "STAR", "KJFK.star")); !os.IsNotExist(err) {
		t.Error("KJFK.star should not have been mirrored (ineligible ICAO prefix)")
	}
}

func TestMirror_IsIdempotentAndPreservesExistingDestination(t *testing.T) {
	root := t.TempDir()
	permanent := filepath.Join(root, "Permanent")
	supplemental := filepath.Join(root, "Supplemental")

	mustWrite(t, filepath.Join(permanent, "SID", "ZBAA.sid"), "original")

	if err := Mirror(context.Background(), permanent, supplemental); err != nil {
		t.Fatalf("Mirror() first call error = %v", err)
	}

	// A destination file that already exists (e.g. locally edited) must never
	// be overwritten by a later mirror pass.
	destPath := filepath.Join(supplemental, "SID", "ZBAA.sid")
	mustWrite(t, destPath, "locally edited")

	if err := Mirror(context.Background(), permanent, supplemental); err != nil {
		t.Fatalf("Mirror() second call error = %v", err)
	}

	got, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "locally edited" {
		t.Errorf("second Mirror() call overwrote an existing destination: got %q", got)
	}
}

func TestMirror_MissingPermanentDirIsNotAnError(t *testing.T) {
	root := t.TempDir()
	if err := Mirror(context.Background(), filepath.Join(root, "Permanent"), filepath.Join(root, "Supplemental")); err != nil {
		t.Errorf("Mirror() with a missing Permanent dir returned %v, want nil", err)
	}
}

func mustWrite(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}
