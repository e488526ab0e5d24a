package project

// Compiled-in fallback versions for every package the generator can write a
// reference to. The version resolver replaces these with live PyPI versions
// unless lookups are skipped or fail.

var devPackages = map[string]string{
	"mypy":       "1.17.1",
	"pre-commit": "4.3.0",
	"pytest":     "8.4.1",
	"pytest-cov": "6.2.1",
	"ruff":       "0.12.7",
}

// tomli backports tomllib and is only needed below Python 3.11.
const (
	tomliPackage = "tomli"
	tomliVersion = "2.2.1"
)

const (
	maturinPackage = "maturin"
	maturinVersion = "1.9.2"
)

var docsPackages = map[string]string{
	"mkdocs":               "1.6.1",
	"mkdocs-material":      "9.6.16",
	"mkdocstrings[python]": "0.30.0",
}

var fastapiPackages = map[string]string{
	"fastapi":           "0.116.1",
	"granian":           "2.5.1",
	"asyncpg":           "0.30.0",
	"loguru":            "0.7.3",
	"orjson":            "3.11.1",
	"pydantic":          "2.11.7",
	"pydantic-settings": "2.10.1",
	"pyjwt":             "2.10.1",
	"python-multipart":  "0.0.20",
}

var fastapiDevPackages = map[string]string{
	"httpx": "0.28.1",
}

// NeedsTomli reports whether the generated project carries the tomli
// backport, i.e. whether it supports interpreters older than 3.11.
func (c *Config) NeedsTomli() bool {
	_, ok := c.Dependencies[tomliPackage]
	return ok
}

// defaultDependencies builds the dependency map implied by the configuration:
// manager and flavor specific tooling, docs extras, and user-supplied extra
// dependencies. Applications pin exact versions; libraries declare minimums.
func defaultDependencies(c *Config) map[string]*PackageSpec {
	constraint := ConstraintMinimum
	if c.Kind == KindApplication {
		constraint = ConstraintPinned
	}

	deps := make(map[string]*PackageSpec)
	add := func(name, version string, group Group) {
		deps[name] = &PackageSpec{
			Name:       name,
			Group:      group,
			Constraint: constraint,
			Version:    version,
		}
	}

	for name, version := range devPackages {
		add(name, version, GroupDev)
	}
	if !pythonVersionAtLeast(c.MinPythonVersion, "3.11") {
		add(tomliPackage, tomliVersion, GroupDev)
		deps[tomliPackage].Python = "<3.11"
	}
	if c.Manager == ManagerMaturin {
		add(maturinPackage, maturinVersion, GroupDev)
	}

	if c.Docs {
		for name, version := range docsPackages {
			add(name, version, GroupDocs)
		}
	}

	if c.Flavor == FlavorFastAPI {
		for name, version := range fastapiPackages {
			add(name, version, GroupMain)
		}
		for name, version := range fastapiDevPackages {
			add(name, version, GroupDev)
		}
	}

	for _, name := range c.ExtraDependencies {
		// No compiled-in version for user extras; the resolver may fill one in.
		add(name, "", GroupMain)
	}

	return deps
}
