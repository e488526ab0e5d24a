package generate

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/pyforge-dev/pyforge/internal/project"
)

// fileEntry maps one candidate output file to the predicate that decides
// whether it is emitted. Paths use [[ ]] template delimiters so the literal
// {{ }} in generated GitHub workflow files needs no escaping.
type fileEntry struct {
	path     string
	when     func(*project.Config) bool
	template string
}

func always(*project.Config) bool { return true }

// plainApplication matches runnable projects whose entry point is the simple
// main module (plain and pyo3 flavors). The fastapi flavor ships its own app.
func plainApplication(c *project.Config) bool {
	return c.IsApplication() && c.Flavor != project.FlavorFastAPI
}

func fastapi(c *project.Config) bool {
	return c.Flavor == project.FlavorFastAPI
}

// manifestTable is the complete set of files the generator can emit. For any
// valid configuration the matching predicates must select collision-free
// paths; verifyManifestTable checks that over the whole flag space before the
// first manifest is computed.
var manifestTable = []fileEntry{
	// Repository basics.
	{path: ".gitignore", when: always, template: "gitignore.tmpl"},
	{path: ".pre-commit-config.yaml", when: always, template: "pre_commit.tmpl"},
	{path: "README.md", when: always, template: "readme.tmpl"},
	{
		path:     "LICENSE",
		when:     func(c *project.Config) bool { return c.License == project.LicenseMIT },
		template: "license_mit.tmpl",
	},
	{
		path:     "LICENSE",
		when:     func(c *project.Config) bool { return c.License == project.LicenseApache },
		template: "license_apache.tmpl",
	},

	// Python package skeleton.
	{path: "[[ .SourceDir ]]/__init__.py", when: always, template: "package_init.tmpl"},
	{path: "[[ .SourceDir ]]/_version.py", when: always, template: "package_version.tmpl"},
	{path: "[[ .SourceDir ]]/py.typed", when: always, template: "empty.tmpl"},
	{path: "tests/__init__.py", when: always, template: "empty.tmpl"},
	{path: "tests/test_version.py", when: always, template: "test_version.tmpl"},

	// Entry point, sync or async variant.
	{
		path:     "[[ .SourceDir ]]/main.py",
		when:     func(c *project.Config) bool { return plainApplication(c) && !c.Async },
		template: "main_sync.tmpl",
	},
	{
		path:     "[[ .SourceDir ]]/main.py",
		when:     func(c *project.Config) bool { return plainApplication(c) && c.Async },
		template: "main_async.tmpl",
	},
	{path: "[[ .SourceDir ]]/__main__.py", when: plainApplication, template: "main_dunder.tmpl"},
	{
		path:     "tests/test_main.py",
		when:     func(c *project.Config) bool { return plainApplication(c) && !c.Async },
		template: "test_main_sync.tmpl",
	},
	{
		path:     "tests/test_main.py",
		when:     func(c *project.Config) bool { return plainApplication(c) && c.Async },
		template: "test_main_async.tmpl",
	},

	// Build descriptors, mutually exclusive by project manager.
	{path: "pyproject.toml", when: managerIs(project.ManagerPoetry), template: "pyproject_poetry.tmpl"},
	{path: "pyproject.toml", when: managerIs(project.ManagerUv), template: "pyproject_uv.tmpl"},
	{path: "pyproject.toml", when: managerIs(project.ManagerSetuptools), template: "pyproject_setuptools.tmpl"},
	{path: "pyproject.toml", when: managerIs(project.ManagerPixi), template: "pyproject_pixi.tmpl"},
	{path: "pyproject.toml", when: managerIs(project.ManagerMaturin), template: "pyproject_maturin.tmpl"},
	{path: "Cargo.toml", when: managerIs(project.ManagerMaturin), template: "cargo_toml.tmpl"},
	{path: "src/lib.rs", when: managerIs(project.ManagerMaturin), template: "lib_rs.tmpl"},

	// CI workflows. The two testing variants share a path on purpose.
	{
		path:     ".github/workflows/testing.yml",
		when:     func(c *project.Config) bool { return !c.MultiOSCI },
		template: "ci_testing_linux.tmpl",
	},
	{
		path:     ".github/workflows/testing.yml",
		when:     func(c *project.Config) bool { return c.MultiOSCI },
		template: "ci_testing_multi_os.tmpl",
	},
	{
		path:     ".github/dependabot.yml",
		when:     func(c *project.Config) bool { return c.Dependabot },
		template: "dependabot.tmpl",
	},
	{
		path:     ".github/workflows/release_drafter.yml",
		when:     func(c *project.Config) bool { return c.ReleaseDrafter },
		template: "release_drafter.tmpl",
	},
	{
		path:     ".github/release_drafter_template.yml",
		when:     func(c *project.Config) bool { return c.ReleaseDrafter },
		template: "release_drafter_template.tmpl",
	},
	{
		path:     ".github/workflows/pypi_publish.yml",
		when:     func(c *project.Config) bool { return c.ContinuousDeployment },
		template: "pypi_publish.tmpl",
	},

	// Documentation subtree and its publish workflow.
	{path: "mkdocs.yml", when: docsEnabled, template: "mkdocs.tmpl"},
	{path: "docs/index.md", when: docsEnabled, template: "docs_index.tmpl"},
	{path: ".github/workflows/docs_publish.yml", when: docsEnabled, template: "docs_publish.tmpl"},

	// FastAPI application files.
	{path: "[[ .SourceDir ]]/main.py", when: fastapi, template: "fastapi_main.tmpl"},
	{path: "[[ .SourceDir ]]/core/__init__.py", when: fastapi, template: "empty.tmpl"},
	{path: "[[ .SourceDir ]]/core/config.py", when: fastapi, template: "fastapi_config.tmpl"},
	{path: "[[ .SourceDir ]]/api/__init__.py", when: fastapi, template: "empty.tmpl"},
	{path: "[[ .SourceDir ]]/api/routes/__init__.py", when: fastapi, template: "empty.tmpl"},
	{path: "[[ .SourceDir ]]/api/routes/health.py", when: fastapi, template: "fastapi_health.tmpl"},
	{path: "tests/test_health.py", when: fastapi, template: "fastapi_test_health.tmpl"},
	{path: "Dockerfile", when: fastapi, template: "dockerfile.tmpl"},
	{path: ".dockerignore", when: fastapi, template: "dockerignore.tmpl"},
	{path: "docker-compose.yml", when: fastapi, template: "docker_compose.tmpl"},
	{path: "migrations/0001_init.up.sql", when: fastapi, template: "migration_up.tmpl"},
	{path: "migrations/0001_init.down.sql", when: fastapi, template: "migration_down.tmpl"},
}

func managerIs(m project.Manager) func(*project.Config) bool {
	return func(c *project.Config) bool { return c.Manager == m }
}

func docsEnabled(c *project.Config) bool { return c.Docs }

var (
	verifyOnce sync.Once
	verifyErr  error
)

// Manifest returns the relative output paths selected for a configuration,
// in table order. The collision check over the predicate table runs once,
// before the first manifest is computed.
func Manifest(cfg *project.Config) ([]string, error) {
	entries, err := selectEntries(cfg)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.path)
	}
	return paths, nil
}

type selectedEntry struct {
	path     string
	template string
}

func selectEntries(cfg *project.Config) ([]selectedEntry, error) {
	verifyOnce.Do(func() { verifyErr = verifyManifestTable() })
	if verifyErr != nil {
		return nil, verifyErr
	}

	var entries []selectedEntry
	for _, e := range manifestTable {
		if !e.when(cfg) {
			continue
		}
		path, err := renderPath(e.path, cfg)
		if err != nil {
			return nil, err
		}
		entries = append(entries, selectedEntry{path: path, template: e.template})
	}
	return entries, nil
}

// renderPath expands [[ .SourceDir ]] style references in a manifest path.
func renderPath(path string, cfg *project.Config) (string, error) {
	if !strings.Contains(path, "[[") {
		return path, nil
	}
	tmpl, err := template.New("path").Delims("[[", "]]").Parse(path)
	if err != nil {
		return "", fmt.Errorf("parsing path template %q: %w", path, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, cfg); err != nil {
		return "", fmt.Errorf("expanding path template %q: %w", path, err)
	}
	return b.String(), nil
}

// verifyManifestTable checks that no two predicates can both match files on
// the same path, for every combination of the configuration fields the
// predicates read. A failure here is a programming error in the table.
func verifyManifestTable() error {
	managers := []project.Manager{
		project.ManagerPoetry, project.ManagerSetuptools, project.ManagerUv,
		project.ManagerPixi, project.ManagerMaturin,
	}
	kinds := []project.Kind{project.KindApplication, project.KindLibrary}
	flavors := []project.Flavor{project.FlavorPlain, project.FlavorPyO3, project.FlavorFastAPI}
	licenses := []project.License{project.LicenseMIT, project.LicenseApache, project.LicenseNone}
	bools := []bool{false, true}

	for _, manager := range managers {
		for _, kind := range kinds {
			for _, flavor := range flavors {
				for _, license := range licenses {
					for _, async := range bools {
						for _, docs := range bools {
							for _, multiOS := range bools {
								for _, dependabot := range bools {
									for _, drafter := range bools {
										for _, cd := range bools {
											cfg := &project.Config{
												SourceDir:            "pkg",
												Manager:              manager,
												Kind:                 kind,
												Flavor:               flavor,
												License:              license,
												Async:                async,
												Docs:                 docs,
												MultiOSCI:            multiOS,
												Dependabot:           dependabot,
												ReleaseDrafter:       drafter,
												ContinuousDeployment: cd,
											}
											if err := checkCollisions(cfg); err != nil {
												return err
											}
										}
									}
								}
							}
						}
					}
				}
			}
		}
	}
	return nil
}

func checkCollisions(cfg *project.Config) error {
	seen := make(map[string]string)
	var collisions []string
	for _, e := range manifestTable {
		if !e.when(cfg) {
			continue
		}
		path, err := renderPath(e.path, cfg)
		if err != nil {
			return err
		}
		if prev, ok := seen[path]; ok {
			collisions = append(collisions, fmt.Sprintf("%s (%s and %s)", path, prev, e.template))
			continue
		}
		seen[path] = e.template
	}
	if len(collisions) > 0 {
		sort.Strings(collisions)
		return fmt.Errorf("manifest table has colliding paths: %s", strings.Join(collisions, "; "))
	}
	return nil
}
