package generate

import (
	"strings"
	"testing"

	"github.com/pyforge-dev/pyforge/internal/project"
)

func buildConfig(t *testing.T, mutate func(*project.Answers)) *project.Config {
	t.Helper()
	a := project.Answers{
		ProjectName:  "My Project",
		Creator:      "Ada Lovelace",
		CreatorEmail: "ada@example.com",
	}
	if mutate != nil {
		mutate(&a)
	}
	cfg, err := project.Build(a, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return cfg
}

func manifestSet(t *testing.T, cfg *project.Config) map[string]bool {
	t.Helper()
	paths, err := Manifest(cfg)
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		if set[p] {
			t.Fatalf("duplicate path %q in manifest", p)
		}
		set[p] = true
	}
	return set
}

func TestManifestBase(t *testing.T) {
	set := manifestSet(t, buildConfig(t, nil))

	want := []string{
		".gitignore",
		".pre-commit-config.yaml",
		"README.md",
		"LICENSE",
		"my_project/__init__.py",
		"my_project/_version.py",
		"my_project/py.typed",
		"my_project/main.py",
		"my_project/__main__.py",
		"tests/__init__.py",
		"tests/test_version.py",
		"tests/test_main.py",
		"pyproject.toml",
		".github/workflows/testing.yml",
	}
	for _, p := range want {
		if !set[p] {
			t.Errorf("missing %q", p)
		}
	}

	absent := []string{
		"Cargo.toml",
		"src/lib.rs",
		"mkdocs.yml",
		".github/dependabot.yml",
		".github/workflows/release_drafter.yml",
		".github/workflows/pypi_publish.yml",
		"Dockerfile",
	}
	for _, p := range absent {
		if set[p] {
			t.Errorf("unexpected %q for a default configuration", p)
		}
	}
}

func TestManifestLibraryHasNoEntryPoint(t *testing.T) {
	set := manifestSet(t, buildConfig(t, func(a *project.Answers) { a.Kind = "library" }))
	for _, p := range []string{"my_project/main.py", "my_project/__main__.py", "tests/test_main.py"} {
		if set[p] {
			t.Errorf("library manifest should not include %q", p)
		}
	}
}

func TestManifestLicenseNone(t *testing.T) {
	set := manifestSet(t, buildConfig(t, func(a *project.Answers) { a.License = "None" }))
	if set["LICENSE"] {
		t.Error("License None should not emit a LICENSE file")
	}
}

func TestManifestDocsDiff(t *testing.T) {
	base := manifestSet(t, buildConfig(t, nil))
	docs := manifestSet(t, buildConfig(t, func(a *project.Answers) { on := true; a.Docs = &on }))

	var added []string
	for p := range docs {
		if !base[p] {
			added = append(added, p)
		}
	}
	for p := range base {
		if !docs[p] {
			t.Errorf("enabling docs removed %q", p)
		}
	}

	wantAdded := map[string]bool{
		"mkdocs.yml":                         true,
		"docs/index.md":                      true,
		".github/workflows/docs_publish.yml": true,
	}
	if len(added) != len(wantAdded) {
		t.Fatalf("docs flag added %v, want exactly the docs subtree and its workflow", added)
	}
	for _, p := range added {
		if !wantAdded[p] {
			t.Errorf("docs flag unexpectedly added %q", p)
		}
	}
}

func TestManifestMaturin(t *testing.T) {
	set := manifestSet(t, buildConfig(t, func(a *project.Answers) {
		a.Manager = "maturin"
		a.Flavor = "pyo3"
	}))
	for _, p := range []string{"pyproject.toml", "Cargo.toml", "src/lib.rs"} {
		if !set[p] {
			t.Errorf("missing %q for a maturin project", p)
		}
	}
}

func TestManifestFastAPI(t *testing.T) {
	set := manifestSet(t, buildConfig(t, func(a *project.Answers) {
		a.Flavor = "fastapi"
		a.Manager = "uv"
	}))

	want := []string{
		"my_project/main.py",
		"my_project/core/config.py",
		"my_project/api/routes/health.py",
		"tests/test_health.py",
		"Dockerfile",
		".dockerignore",
		"docker-compose.yml",
		"migrations/0001_init.up.sql",
		"migrations/0001_init.down.sql",
	}
	for _, p := range want {
		if !set[p] {
			t.Errorf("missing %q for a fastapi project", p)
		}
	}
	if set["my_project/__main__.py"] {
		t.Error("fastapi projects ship their own app, not the plain entry point")
	}
	if set["tests/test_main.py"] {
		t.Error("fastapi projects should not include the plain entry point test")
	}
}

func TestManifestCIFlags(t *testing.T) {
	set := manifestSet(t, buildConfig(t, func(a *project.Answers) {
		on := true
		a.Dependabot = &on
		a.ReleaseDrafter = &on
		a.ContinuousDeployment = &on
		a.MultiOSCI = &on
	}))
	for _, p := range []string{
		".github/dependabot.yml",
		".github/workflows/release_drafter.yml",
		".github/release_drafter_template.yml",
		".github/workflows/pypi_publish.yml",
		".github/workflows/testing.yml",
	} {
		if !set[p] {
			t.Errorf("missing %q with all CI flags on", p)
		}
	}
}

// Every literal top-level directory in the table must be a reserved name, so
// a validated source directory can never shadow one of them. The collision
// cube fixes the source directory to a single value and cannot catch this on
// its own.
func TestManifestLiteralDirsReserved(t *testing.T) {
	for _, e := range manifestTable {
		if strings.Contains(e.path, "[[") {
			continue
		}
		slash := strings.Index(e.path, "/")
		if slash < 0 {
			continue
		}
		dir := e.path[:slash]
		if strings.HasPrefix(dir, ".") {
			// Dotted directories are unreachable by a valid source dir.
			continue
		}
		if !project.ReservedDirName(dir) {
			t.Errorf("top-level directory %q of %q is not a reserved name", dir, e.path)
		}
	}
}

// A source directory named after a literal manifest directory would make the
// package skeleton and the fixed files share paths; such configurations never
// survive validation.
func TestManifestReservedSourceDirRejected(t *testing.T) {
	a := project.Answers{
		ProjectName:  "Tests",
		Creator:      "Ada Lovelace",
		CreatorEmail: "ada@example.com",
	}
	if _, err := project.Build(a, nil); err == nil {
		t.Fatal("a project deriving source dir tests must not validate")
	}
}

// Every manifest path must be unique for every manager/flavor combination the
// validator can produce; the predicate-table check runs implicitly on the
// first Manifest call, so any collision fails all of these.
func TestManifestCollisionFree(t *testing.T) {
	cases := []func(*project.Answers){
		nil,
		func(a *project.Answers) { a.Manager = "setuptools" },
		func(a *project.Answers) { a.Manager = "uv" },
		func(a *project.Answers) { a.Manager = "pixi" },
		func(a *project.Answers) { a.Manager = "maturin"; a.Flavor = "pyo3" },
		func(a *project.Answers) { a.Flavor = "fastapi" },
		func(a *project.Answers) { a.Kind = "library" },
	}
	for _, mutate := range cases {
		manifestSet(t, buildConfig(t, mutate))
	}
}
