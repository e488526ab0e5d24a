package generate

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// Write materializes rendered files under outputDir, creating parent
// directories as needed. The target must not exist or must be empty; this is
// checked before anything is written. A mid-run write failure aborts the rest
// of the manifest and is returned with the failing path; files already written
// are left in place for the operator to inspect or delete.
func Write(fsys afero.Fs, outputDir string, files []File) ([]string, error) {
	info, err := fsys.Stat(outputDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("checking output path %s: %w", outputDir, err)
	}
	if err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("output path %s exists and is not a directory", outputDir)
		}
		entries, readErr := afero.ReadDir(fsys, outputDir)
		if readErr != nil {
			return nil, fmt.Errorf("reading output directory %s: %w", outputDir, readErr)
		}
		if len(entries) > 0 {
			return nil, fmt.Errorf("output directory %s is not empty; remove existing files first", outputDir)
		}
	}

	if err := fsys.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	var written []string
	for _, f := range files {
		full := filepath.Join(outputDir, filepath.FromSlash(f.Path))
		if dir := filepath.Dir(full); dir != "." {
			if err := fsys.MkdirAll(dir, 0755); err != nil {
				return written, fmt.Errorf("creating directory %s: %w", dir, err)
			}
		}
		if err := afero.WriteFile(fsys, full, f.Content, 0644); err != nil {
			return written, fmt.Errorf("writing %s: %w", full, err)
		}
		written = append(written, f.Path)
	}
	return written, nil
}
