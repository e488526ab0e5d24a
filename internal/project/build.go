package project

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

var (
	slugPattern      = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	sourceDirPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	extraDepPattern  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*(\[[A-Za-z0-9._,-]+\])?$`)
)

// reservedDirNames are top-level directories the generator emits alongside
// the Python package. A source directory sharing one of these names would
// collide with them in the output tree.
var reservedDirNames = map[string]bool{
	"tests":      true,
	"docs":       true,
	"migrations": true,
	"src":        true,
}

// ReservedDirName reports whether name is a top-level directory the
// generator emits itself.
func ReservedDirName(name string) bool { return reservedDirNames[name] }

// Issue is a single validation failure found while building a Config.
type Issue struct {
	Field   string
	Message string
}

// ValidationError reports every invariant violated by a set of answers, not
// just the first one found.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("invalid configuration: %s: %s", e.Issues[0].Field, e.Issues[0].Message)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "invalid configuration (%d problems):", len(e.Issues))
	for _, issue := range e.Issues {
		fmt.Fprintf(&b, "\n  %s: %s", issue.Field, issue.Message)
	}
	return b.String()
}

// Slugify derives a filesystem-safe slug from a project name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	return strings.ReplaceAll(slug, "_", "-")
}

// moduleName derives the Python package directory from a project name.
func moduleName(name string) string {
	dir := strings.ToLower(strings.TrimSpace(name))
	dir = strings.ReplaceAll(dir, " ", "_")
	return strings.ReplaceAll(dir, "-", "_")
}

// Build validates raw answers against the stored defaults chain and produces
// an immutable Config. Field precedence is explicit answer > stored default >
// compiled-in default. On failure the returned error is a *ValidationError
// listing every violated invariant; no Config is produced.
func Build(a Answers, defaults Defaults) (*Config, error) {
	if defaults == nil {
		defaults = NoDefaults{}
	}

	var issues []Issue
	addIssue := func(field, format string, args ...any) {
		issues = append(issues, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	resolveString := func(answer, key, fallback string) string {
		if answer != "" {
			return answer
		}
		if stored, ok := defaults.GetString(key); ok && stored != "" {
			return stored
		}
		return fallback
	}
	resolveBool := func(answer *bool, key string, fallback bool) bool {
		if answer != nil {
			return *answer
		}
		if stored, ok := defaults.GetBool(key); ok {
			return stored
		}
		return fallback
	}

	name := strings.TrimSpace(a.ProjectName)
	if name == "" {
		addIssue("project_name", "a project name is required")
	}

	slug := a.ProjectSlug
	if slug == "" {
		slug = Slugify(name)
	}
	if !slugPattern.MatchString(slug) {
		addIssue("project_slug", "%q must match pattern [a-z0-9][a-z0-9-]*", slug)
	}

	sourceDir := a.SourceDir
	if sourceDir == "" {
		sourceDir = moduleName(name)
	}
	if !sourceDirPattern.MatchString(sourceDir) {
		addIssue("source_dir", "%q must match pattern [a-z_][a-z0-9_]*", sourceDir)
	} else if ReservedDirName(sourceDir) {
		addIssue("source_dir", "%q collides with a directory the generator emits", sourceDir)
	}

	creator := resolveString(a.Creator, KeyCreator, "")
	if creator == "" {
		addIssue("creator", "a creator name is required")
	}
	creatorEmail := resolveString(a.CreatorEmail, KeyCreatorEmail, "")
	if creatorEmail == "" {
		addIssue("creator_email", "a creator email is required")
	}

	license, err := parseLicense(resolveString(a.License, KeyLicense, string(defaultLicense)))
	if err != nil {
		addIssue("license", "%v", err)
	}

	year := a.CopyrightYear
	if year == 0 {
		year = time.Now().Year()
	}
	if license != LicenseNone && (year < 1000 || year > 9999) {
		addIssue("copyright_year", "%d is not a valid year", year)
	}

	version := resolveString(a.Version, "", defaultVersion)
	if _, err := semver.NewVersion(version); err != nil {
		addIssue("version", "%q is not a valid version", version)
	}

	pythonVersion := resolveString(a.PythonVersion, KeyPythonVersion, defaultPythonVersion)
	if !ValidPythonVersion(pythonVersion) {
		addIssue("python_version", "%q is not a valid Python version", pythonVersion)
	}
	minPythonVersion := resolveString(a.MinPythonVersion, KeyMinPythonVersion, defaultMinPythonVersion)
	if !ValidPythonVersion(minPythonVersion) {
		addIssue("min_python_version", "%q is not a valid Python version", minPythonVersion)
	}

	tested := a.TestedVersions
	if len(tested) == 0 {
		if stored, ok := defaults.GetStringSlice(KeyTestedVersions); ok && len(stored) > 0 {
			tested = stored
		} else {
			tested = defaultTestedVersions()
		}
	}
	testedValid := true
	for _, v := range tested {
		if !ValidPythonVersion(v) {
			addIssue("tested_python_versions", "%q is not a valid Python version", v)
			testedValid = false
		}
	}
	if seen := duplicates(tested); len(seen) > 0 {
		addIssue("tested_python_versions", "duplicate versions: %s", strings.Join(seen, ", "))
	}

	// Ordering invariants only make sense once the individual versions parse.
	if ValidPythonVersion(pythonVersion) && ValidPythonVersion(minPythonVersion) {
		if !pythonVersionAtLeast(pythonVersion, minPythonVersion) {
			addIssue("min_python_version", "minimum version %s is greater than target version %s", minPythonVersion, pythonVersion)
		}
		if testedValid {
			for _, v := range tested {
				if !pythonVersionAtLeast(v, minPythonVersion) {
					addIssue("tested_python_versions", "tested version %s is below the minimum version %s", v, minPythonVersion)
				}
				if !pythonVersionAtLeast(pythonVersion, v) {
					addIssue("tested_python_versions", "tested version %s is above the target version %s", v, pythonVersion)
				}
			}
		}
	}

	manager, err := parseManager(resolveString(a.Manager, KeyManager, string(defaultManager)))
	if err != nil {
		addIssue("project_manager", "%v", err)
	}
	kind, err := parseKind(resolveString(a.Kind, KeyKind, string(defaultKind)))
	if err != nil {
		addIssue("kind", "%v", err)
	}
	flavor, err := parseFlavor(resolveString(a.Flavor, "", string(defaultFlavor)))
	if err != nil {
		addIssue("flavor", "%v", err)
	}

	// Flavor and manager consistency.
	switch flavor {
	case FlavorPyO3:
		if manager != ManagerMaturin {
			addIssue("project_manager", "pyo3 projects must use the maturin project manager, got %q", manager)
		}
	case FlavorFastAPI:
		if manager == ManagerPixi || manager == ManagerMaturin {
			addIssue("project_manager", "fastapi projects do not support the %s project manager", manager)
		}
		// FastAPI projects are runnable services.
		kind = KindApplication
	default:
		if manager == ManagerMaturin {
			addIssue("project_manager", "the maturin project manager requires the pyo3 flavor")
		}
	}

	var pyo3Backend PyO3Backend
	if manager == ManagerMaturin {
		pyo3Backend, err = parsePyO3Backend(resolveString(a.PyO3Backend, "", string(PyO3BackendUv)))
		if err != nil {
			addIssue("pyo3_python_manager", "%v", err)
		}
	} else if a.PyO3Backend != "" {
		addIssue("pyo3_python_manager", "only applies to maturin projects")
	}

	async := resolveBool(a.Async, "", false)
	if flavor == FlavorFastAPI {
		// Forced for the async framework flavor regardless of the answer.
		async = true
	}

	maxLineLength := a.MaxLineLength
	if maxLineLength == 0 {
		if stored, ok := defaults.GetInt(KeyMaxLineLength); ok && stored != 0 {
			maxLineLength = stored
		} else {
			maxLineLength = defaultMaxLineLength
		}
	}
	if maxLineLength < 0 {
		addIssue("max_line_length", "%d is not a valid line length", maxLineLength)
	}

	dependabot := resolveBool(a.Dependabot, KeyDependabot, false)
	var schedule Schedule
	if dependabot {
		schedule, err = parseSchedule(resolveString(a.DependabotSchedule, KeyDependabotSchedule, string(defaultSchedule)))
		if err != nil {
			addIssue("dependabot_schedule", "%v", err)
		}
	} else if a.DependabotSchedule != "" {
		addIssue("dependabot_schedule", "only applies when dependabot is enabled")
	}

	continuousDeployment := resolveBool(a.ContinuousDeployment, KeyContinuousDeployment, false)
	releaseDrafter := resolveBool(a.ReleaseDrafter, KeyReleaseDrafter, false)
	multiOSCI := resolveBool(a.MultiOSCI, KeyMultiOSCI, false)

	docs := resolveBool(a.Docs, KeyDocs, false)
	var docsInfo *DocsInfo
	if docs {
		// The site and repo URLs need a hosting account name nothing else
		// provides, so they stay empty unless answered.
		docsInfo = &DocsInfo{
			SiteName:        resolveString(a.DocsSiteName, "", name),
			SiteDescription: resolveString(a.DocsSiteDescription, "", a.Description),
			SiteURL:         a.DocsSiteURL,
			Locale:          resolveString(a.DocsLocale, "", defaultLocale),
			RepoName:        resolveString(a.DocsRepoName, "", slug),
			RepoURL:         a.DocsRepoURL,
		}
	} else {
		for field, value := range map[string]string{
			"docs_site_name":        a.DocsSiteName,
			"docs_site_description": a.DocsSiteDescription,
			"docs_site_url":         a.DocsSiteURL,
			"docs_locale":           a.DocsLocale,
			"docs_repo_name":        a.DocsRepoName,
			"docs_repo_url":         a.DocsRepoURL,
		} {
			if value != "" {
				addIssue(field, "only applies when docs are enabled")
			}
		}
	}

	extras := make([]string, 0, len(a.ExtraDependencies))
	for _, dep := range a.ExtraDependencies {
		dep = strings.TrimSpace(dep)
		if dep == "" {
			continue
		}
		if !extraDepPattern.MatchString(dep) {
			addIssue("extra_dependencies", "%q is not a valid package name", dep)
			continue
		}
		extras = append(extras, dep)
	}
	if seen := duplicates(extras); len(seen) > 0 {
		addIssue("extra_dependencies", "duplicate packages: %s", strings.Join(seen, ", "))
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	cfg := &Config{
		Name:                 name,
		Slug:                 slug,
		SourceDir:            sourceDir,
		Description:          a.Description,
		Creator:              creator,
		CreatorEmail:         creatorEmail,
		License:              license,
		CopyrightYear:        year,
		Version:              version,
		PythonVersion:        pythonVersion,
		MinPythonVersion:     minPythonVersion,
		TestedVersions:       tested,
		Manager:              manager,
		Kind:                 kind,
		Flavor:               flavor,
		PyO3Backend:          pyo3Backend,
		Async:                async,
		MaxLineLength:        maxLineLength,
		Dependabot:           dependabot,
		DependabotSchedule:   schedule,
		ContinuousDeployment: continuousDeployment,
		ReleaseDrafter:       releaseDrafter,
		MultiOSCI:            multiOSCI,
		Docs:                 docs,
		DocsInfo:             docsInfo,
		ExtraDependencies:    extras,
	}
	cfg.Dependencies = defaultDependencies(cfg)

	return cfg, nil
}

func parseLicense(s string) (License, error) {
	switch strings.ToLower(s) {
	case "mit":
		return LicenseMIT, nil
	case "apache-2.0", "apache2", "apache":
		return LicenseApache, nil
	case "none", "nolicense":
		return LicenseNone, nil
	}
	return "", fmt.Errorf("%q is not a supported license (MIT, Apache-2.0, None)", s)
}

func parseManager(s string) (Manager, error) {
	switch strings.ToLower(s) {
	case "poetry":
		return ManagerPoetry, nil
	case "setuptools":
		return ManagerSetuptools, nil
	case "uv":
		return ManagerUv, nil
	case "pixi":
		return ManagerPixi, nil
	case "maturin":
		return ManagerMaturin, nil
	}
	return "", fmt.Errorf("%q is not a supported project manager (poetry, setuptools, uv, pixi, maturin)", s)
}

func parseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "application", "app":
		return KindApplication, nil
	case "library", "lib":
		return KindLibrary, nil
	}
	return "", fmt.Errorf("%q is not a supported kind (application, library)", s)
}

func parseFlavor(s string) (Flavor, error) {
	switch strings.ToLower(s) {
	case "plain", "":
		return FlavorPlain, nil
	case "pyo3":
		return FlavorPyO3, nil
	case "fastapi":
		return FlavorFastAPI, nil
	}
	return "", fmt.Errorf("%q is not a supported flavor (plain, pyo3, fastapi)", s)
}

func parsePyO3Backend(s string) (PyO3Backend, error) {
	switch strings.ToLower(s) {
	case "uv":
		return PyO3BackendUv, nil
	case "setuptools":
		return PyO3BackendSetuptools, nil
	}
	return "", fmt.Errorf("%q is not a supported PyO3 Python manager (uv, setuptools)", s)
}

func parseSchedule(s string) (Schedule, error) {
	switch strings.ToLower(s) {
	case "daily":
		return ScheduleDaily, nil
	case "weekly":
		return ScheduleWeekly, nil
	case "monthly":
		return ScheduleMonthly, nil
	}
	return "", fmt.Errorf("%q is not a supported schedule (daily, weekly, monthly)", s)
}

// duplicates returns the values that appear more than once, in first-seen order.
func duplicates(values []string) []string {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	var dups []string
	seen := make(map[string]bool)
	for _, v := range values {
		if counts[v] > 1 && !seen[v] {
			dups = append(dups, v)
			seen[v] = true
		}
	}
	return dups
}
