// Package mirror implements the file-tree mirroring stage (C3): copying
// eligible procedure files from the Permanent tree into the Supplemental tree.
package mirror

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"navterm/internal/concur"
	"navterm/internal/model"
)

var icaoPrefixes = []string{"VQPR", "ZB", "ZG", "ZH", "ZJ", "ZL", "ZP", "ZS", "ZU", "ZW", "ZY"}

var allowedExtensions = map[string]bool{
	".sid":    true,
	".sidtrs": true,
	".app":    true,
	".apptrs": true,
	".star":   true,
	".startrs": true,
}

// Mirror copies every eligible file under permanentDir into supplementalDir,
// preserving its relative path, skipping any destination that already exists.
// It parallelizes over permanentDir's immediate subdirectories: each worker
// walks one subtree, and since sources are disjoint the destinations they
// produce are too, so no cross-worker synchronization is required.
func Mirror(ctx context.Context, permanentDir, supplementalDir string) error {
	entries, err := os.ReadDir(permanentDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &model.IoError{Op: "readdir", Path: permanentDir, Err: err}
	}

	var dirs []string
	var rootFiles []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(permanentDir, e.Name()))
		} else {
			rootFiles = append(rootFiles, filepath.Join(permanentDir, e.Name()))
		}
	}

	for _, f := range rootFiles {
		if err := mirrorFile(f, permanentDir, supplementalDir); err != nil {
			return err
		}
	}

	return concur.Each(ctx, dirs, 0, func(_ context.Context, dir string) error {
		return mirrorTree(dir, permanentDir, supplementalDir)
	})
}

// mirrorTree walks one directory (recursively) and mirrors every eligible
// file it contains.
func mirrorTree(dir, permanentDir, supplementalDir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return &model.IoError{Op: "walk", Path: path, Err: err}
		}
		if info.IsDir() {
			return nil
		}
		return mirrorFile(path, permanentDir, supplementalDir)
	})
}

// mirrorFile copies a single eligible file if its destination is absent.
func mirrorFile(path, permanentDir, supplementalDir string) error {
	base := filepath.Base(path)
	if !eligible(base) {
		return nil
	}

	rel, err := filepath.Rel(permanentDir, path)
	if err != nil {
		return &model.IoError{Op: "relativize", Path: path, Err: err}
	}
	dest := filepath.Join(supplementalDir, rel)

	if _, err := os.Stat(dest); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return &model.IoError{Op: "stat", Path: dest, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return &model.IoError{Op: "mkdir", Path: filepath.Dir(dest), Err: err}
	}
	return copyFile(path, dest)
}

func eligible(base string) bool {
	hasPrefix := false
	for _, p := range icaoPrefixes {
		if strings.HasPrefix(base, p) {
			hasPrefix = true
			break
		}
	}
	if !hasPrefix {
		return false
	}
	return allowedExtensions[filepath.Ext(base)]
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return &model.IoError{Op: "open", Path: src, Err: err}
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return &model.IoError{Op: "create", Path: dest, Err: err}
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return &model.IoError{Op: "copy", Path: dest, Err: err}
	}
	return nil
}
