package project

import (
	"fmt"
	"sort"
	"strings"
)

// License identifies the license text emitted into the generated project.
type License string

// Supported license choices.
const (
	LicenseMIT    License = "MIT"
	LicenseApache License = "Apache-2.0"
	LicenseNone   License = "None"
)

// Manager selects the Python packaging toolchain the project is built with.
type Manager string

// Supported package managers.
const (
	ManagerPoetry     Manager = "poetry"
	ManagerSetuptools Manager = "setuptools"
	ManagerUv         Manager = "uv"
	ManagerPixi       Manager = "pixi"
	ManagerMaturin    Manager = "maturin"
)

// Kind distinguishes runnable applications from importable libraries.
type Kind string

// Project kinds.
const (
	KindApplication Kind = "application"
	KindLibrary     Kind = "library"
)

// Flavor is the overall project shape. It gates which optional fields and
// dependencies apply.
type Flavor string

// Project flavors.
const (
	FlavorPlain   Flavor = "plain"
	FlavorPyO3    Flavor = "pyo3"
	FlavorFastAPI Flavor = "fastapi"
)

// PyO3Backend is the Python-side manager used alongside maturin.
type PyO3Backend string

// PyO3 Python managers.
const (
	PyO3BackendUv         PyO3Backend = "uv"
	PyO3BackendSetuptools PyO3Backend = "setuptools"
)

// Schedule is the Dependabot update interval.
type Schedule string

// Dependabot schedules.
const (
	ScheduleDaily   Schedule = "daily"
	ScheduleWeekly  Schedule = "weekly"
	ScheduleMonthly Schedule = "monthly"
)

// Constraint describes how a dependency version is written into the build file.
type Constraint string

// Constraint kinds. Applications pin exact versions, libraries declare a
// lower bound.
const (
	ConstraintPinned  Constraint = "pinned"
	ConstraintMinimum Constraint = "minimum"
)

// Group places a dependency in the generated build file's dependency section.
type Group string

// Dependency groups.
const (
	GroupMain Group = "main"
	GroupDev  Group = "dev"
	GroupDocs Group = "docs"
)

// PackageSpec is one third-party dependency of the generated project. Version
// starts as the compiled-in default and is replaced in place by the version
// resolver when a live lookup succeeds. An empty Version means unconstrained
// (user-supplied extras with no known default). Python, when set, restricts
// the dependency to an interpreter range, e.g. "<3.11" for tomli.
type PackageSpec struct {
	Name       string
	Group      Group
	Constraint Constraint
	Version    string
	Python     string
}

// Requirement renders the spec as a PEP 508 requirement string.
func (p *PackageSpec) Requirement() string {
	req := p.Name
	if p.Version != "" {
		op := ">="
		if p.Constraint == ConstraintPinned {
			op = "=="
		}
		req += op + p.Version
	}
	if p.Python != "" {
		op, ver := splitConstraint(p.Python)
		req += fmt.Sprintf("; python_version %s %q", op, ver)
	}
	return req
}

// splitConstraint splits an operator-prefixed version like "<3.11" into its
// operator and version parts.
func splitConstraint(s string) (op, version string) {
	i := 0
	for i < len(s) && (s[i] == '<' || s[i] == '>' || s[i] == '=' || s[i] == '!') {
		i++
	}
	return s[:i], s[i:]
}

// DocsInfo holds the mkdocs site fields. Present only when docs generation is
// enabled.
type DocsInfo struct {
	SiteName        string
	SiteDescription string
	SiteURL         string
	Locale          string
	RepoName        string
	RepoURL         string
}

// Config is the validated, immutable description of one project to generate.
// Construct it with Build; after that only the version resolver mutates it,
// replacing default dependency versions with resolved ones.
type Config struct {
	Name          string
	Slug          string
	SourceDir     string
	Description   string
	Creator       string
	CreatorEmail  string
	License       License
	CopyrightYear int
	Version       string

	PythonVersion    string
	MinPythonVersion string
	TestedVersions   []string

	Manager     Manager
	Kind        Kind
	Flavor      Flavor
	PyO3Backend PyO3Backend
	Async       bool

	MaxLineLength int

	Dependabot           bool
	DependabotSchedule   Schedule
	ContinuousDeployment bool
	ReleaseDrafter       bool
	MultiOSCI            bool

	Docs     bool
	DocsInfo *DocsInfo

	ExtraDependencies []string

	Dependencies map[string]*PackageSpec
}

// IsApplication reports whether the project has a runnable entry point.
func (c *Config) IsApplication() bool {
	return c.Kind == KindApplication
}

// HasLicense reports whether a license file is generated.
func (c *Config) HasLicense() bool {
	return c.License != LicenseNone
}

// MinPythonNoDots returns the minimum Python version with separators removed,
// e.g. "3.9" -> "39". Used for ruff's target-version setting.
func (c *Config) MinPythonNoDots() string {
	return strings.ReplaceAll(c.MinPythonVersion, ".", "")
}

// TestedVersionsQuoted joins the tested versions as a quoted, comma-separated
// list for YAML matrix axes, e.g. `"3.9", "3.10"`.
func (c *Config) TestedVersionsQuoted() string {
	quoted := make([]string, 0, len(c.TestedVersions))
	for _, v := range c.TestedVersions {
		quoted = append(quoted, fmt.Sprintf("%q", v))
	}
	return strings.Join(quoted, ", ")
}

// Requirements returns the rendered requirement strings for one dependency
// group, sorted by package name for deterministic output.
func (c *Config) Requirements(group Group) []string {
	reqs := make([]string, 0, len(c.Dependencies))
	for _, spec := range c.specs(group) {
		reqs = append(reqs, spec.Requirement())
	}
	return reqs
}

// MainRequirements, DevRequirements, and DocsRequirements are template-facing
// wrappers around Requirements.
func (c *Config) MainRequirements() []string { return c.Requirements(GroupMain) }
func (c *Config) DevRequirements() []string  { return c.Requirements(GroupDev) }
func (c *Config) DocsRequirements() []string { return c.Requirements(GroupDocs) }

// poetryDeps renders one group as Poetry dependency-table lines: exact
// versions for pinned dependencies, ">=" bounds otherwise, "*" when no version
// is known. Extras and interpreter markers use Poetry's inline-table form so
// the output stays valid TOML.
func (c *Config) poetryDeps(group Group) []string {
	lines := make([]string, 0, len(c.Dependencies))
	for _, spec := range c.specs(group) {
		constraint := "*"
		switch {
		case spec.Version == "":
		case spec.Constraint == ConstraintPinned:
			constraint = spec.Version
		default:
			constraint = ">=" + spec.Version
		}

		name := spec.Name
		var extras string
		if i := strings.IndexByte(name, '['); i >= 0 {
			for _, extra := range strings.Split(strings.TrimSuffix(name[i+1:], "]"), ",") {
				if extras != "" {
					extras += ", "
				}
				extras += fmt.Sprintf("%q", strings.TrimSpace(extra))
			}
			name = name[:i]
		}

		switch {
		case extras != "" && spec.Python != "":
			lines = append(lines, fmt.Sprintf("%s = { version = %q, extras = [%s], python = %q }", name, constraint, extras, spec.Python))
		case extras != "":
			lines = append(lines, fmt.Sprintf("%s = { version = %q, extras = [%s] }", name, constraint, extras))
		case spec.Python != "":
			lines = append(lines, fmt.Sprintf("%s = { version = %q, python = %q }", name, constraint, spec.Python))
		default:
			lines = append(lines, fmt.Sprintf("%s = %q", name, constraint))
		}
	}
	return lines
}

// PoetryMain, PoetryDev, and PoetryDocs are template-facing wrappers around
// poetryDeps.
func (c *Config) PoetryMain() []string { return c.poetryDeps(GroupMain) }
func (c *Config) PoetryDev() []string  { return c.poetryDeps(GroupDev) }
func (c *Config) PoetryDocs() []string { return c.poetryDeps(GroupDocs) }

// specs returns the specs of one group sorted by package name.
func (c *Config) specs(group Group) []*PackageSpec {
	var names []string
	for name, spec := range c.Dependencies {
		if spec.Group == group {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	specs := make([]*PackageSpec, 0, len(names))
	for _, name := range names {
		specs = append(specs, c.Dependencies[name])
	}
	return specs
}
