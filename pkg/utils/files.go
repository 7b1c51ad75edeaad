package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MakeDir creates a directory with all parent directories
func MakeDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// MoveFile moves or renames a file
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to move file from %s to %s: %w", src, dst, err)
	}
	return nil
}

// ListFilesWithSuffix returns the regular files directly inside dir whose
// names end in one of suffixes, compared case-insensitively. The result is
// sorted lexicographically by full path.
func ListFilesWithSuffix(dir string, suffixes ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		for _, suf := range suffixes {
			if strings.HasSuffix(name, strings.ToLower(suf)) {
				out = append(out, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// WriteFileAtomic writes data through a temp file in the same directory
// and renames it into place.
func WriteFileAtomic(path string, write func(tmpPath string) error) error {
	if err := MakeDir(filepath.Dir(path)); err != nil {
		return err
	}
	tmpPath := path + ".tmp"
	defer os.Remove(tmpPath)

	if err := write(tmpPath); err != nil {
		return err
	}
	return MoveFile(tmpPath, path)
}
