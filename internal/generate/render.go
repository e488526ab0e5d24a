package generate

import (
	"bytes"
	"fmt"
	"runtime"
	"text/template"

	"golang.org/x/sync/errgroup"

	"github.com/pyforge-dev/pyforge/internal/project"
)

// fileTemplates holds every embedded template, parsed once. The [[ ]]
// delimiters leave GitHub's ${{ }} workflow syntax alone.
var fileTemplates = template.Must(
	template.New("files").Delims("[[", "]]").ParseFS(templatesFS, "templates/*.tmpl"),
)

// File is one rendered manifest entry: a project-relative path and its
// content.
type File struct {
	Path    string
	Content []byte
}

// Render computes the manifest for a configuration and renders every included
// file. Renders are pure and independent, so they run concurrently; the result
// order matches the manifest table. Rendering the same configuration twice
// yields byte-identical content.
func Render(cfg *project.Config) ([]File, error) {
	entries, err := selectEntries(cfg)
	if err != nil {
		return nil, err
	}

	files := make([]File, len(entries))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, entry := range entries {
		g.Go(func() error {
			var buf bytes.Buffer
			if err := fileTemplates.ExecuteTemplate(&buf, entry.template, cfg); err != nil {
				return fmt.Errorf("rendering %s: %w", entry.path, err)
			}
			files[i] = File{Path: entry.path, Content: buf.Bytes()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
