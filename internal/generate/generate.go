package generate

import (
	"github.com/spf13/afero"

	"github.com/pyforge-dev/pyforge/internal/project"
)

// Result holds the outcome of a project generation.
type Result struct {
	OutputDir string
	Files     []string
}

// Generate renders the full manifest for a configuration and writes it under
// outputDir (defaulting to the project slug). Validation happened earlier, at
// Config construction; the only failures here are template errors and
// filesystem problems.
func Generate(fsys afero.Fs, cfg *project.Config, outputDir string) (*Result, error) {
	if outputDir == "" {
		outputDir = cfg.Slug
	}

	files, err := Render(cfg)
	if err != nil {
		return nil, err
	}

	written, err := Write(fsys, outputDir, files)
	if err != nil {
		return nil, err
	}

	return &Result{OutputDir: outputDir, Files: written}, nil
}
