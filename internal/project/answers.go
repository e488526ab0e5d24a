package project

// Answers holds the raw field values collected for one project before
// validation. Pointer fields distinguish "not answered" from an explicit
// false/zero so the defaults chain can fill them in.
//
// The YAML tags define the answers-file format accepted by
// LoadAnswersFile.
type Answers struct {
	ProjectName   string `yaml:"project_name"`
	ProjectSlug   string `yaml:"project_slug,omitempty"`
	SourceDir     string `yaml:"source_dir,omitempty"`
	Description   string `yaml:"description,omitempty"`
	Creator       string `yaml:"creator,omitempty"`
	CreatorEmail  string `yaml:"creator_email,omitempty"`
	License       string `yaml:"license,omitempty"`
	CopyrightYear int    `yaml:"copyright_year,omitempty"`
	Version       string `yaml:"version,omitempty"`

	PythonVersion    string   `yaml:"python_version,omitempty"`
	MinPythonVersion string   `yaml:"min_python_version,omitempty"`
	TestedVersions   []string `yaml:"tested_python_versions,omitempty"`

	Manager     string `yaml:"project_manager,omitempty"`
	Kind        string `yaml:"kind,omitempty"`
	Flavor      string `yaml:"flavor,omitempty"`
	PyO3Backend string `yaml:"pyo3_python_manager,omitempty"`
	Async       *bool  `yaml:"async,omitempty"`

	MaxLineLength int `yaml:"max_line_length,omitempty"`

	Dependabot           *bool  `yaml:"use_dependabot,omitempty"`
	DependabotSchedule   string `yaml:"dependabot_schedule,omitempty"`
	ContinuousDeployment *bool  `yaml:"use_continuous_deployment,omitempty"`
	ReleaseDrafter       *bool  `yaml:"use_release_drafter,omitempty"`
	MultiOSCI            *bool  `yaml:"use_multi_os_ci,omitempty"`

	Docs                *bool  `yaml:"use_docs,omitempty"`
	DocsSiteName        string `yaml:"docs_site_name,omitempty"`
	DocsSiteDescription string `yaml:"docs_site_description,omitempty"`
	DocsSiteURL         string `yaml:"docs_site_url,omitempty"`
	DocsLocale          string `yaml:"docs_locale,omitempty"`
	DocsRepoName        string `yaml:"docs_repo_name,omitempty"`
	DocsRepoURL         string `yaml:"docs_repo_url,omitempty"`

	ExtraDependencies []string `yaml:"extra_dependencies,omitempty"`
}

// Defaults supplies stored user defaults for fields the answers leave blank.
// Precedence at Build time is explicit answer > stored default > compiled-in
// default. The zero lookup result (ok == false) falls through to the
// compiled-in value.
type Defaults interface {
	GetString(key string) (string, bool)
	GetBool(key string) (bool, bool)
	GetInt(key string) (int, bool)
	GetStringSlice(key string) ([]string, bool)
}

// NoDefaults is a Defaults provider with nothing stored.
type NoDefaults struct{}

func (NoDefaults) GetString(string) (string, bool)        { return "", false }
func (NoDefaults) GetBool(string) (bool, bool)            { return false, false }
func (NoDefaults) GetInt(string) (int, bool)              { return 0, false }
func (NoDefaults) GetStringSlice(string) ([]string, bool) { return nil, false }

// Default-store keys understood at Build time. The config command persists
// values under these names.
const (
	KeyCreator              = "creator"
	KeyCreatorEmail         = "creator_email"
	KeyLicense              = "license"
	KeyPythonVersion        = "python_version"
	KeyMinPythonVersion     = "min_python_version"
	KeyTestedVersions       = "tested_python_versions"
	KeyManager              = "project_manager"
	KeyKind                 = "kind"
	KeyMaxLineLength        = "max_line_length"
	KeyDependabot           = "use_dependabot"
	KeyDependabotSchedule   = "dependabot_schedule"
	KeyContinuousDeployment = "use_continuous_deployment"
	KeyReleaseDrafter       = "use_release_drafter"
	KeyMultiOSCI            = "use_multi_os_ci"
	KeyDocs                 = "use_docs"
)

// Compiled-in defaults used when neither the answer nor the store provides a
// value.
const (
	defaultVersion          = "0.1.0"
	defaultPythonVersion    = "3.13"
	defaultMinPythonVersion = "3.9"
	defaultMaxLineLength    = 100
	defaultLicense          = LicenseMIT
	defaultManager          = ManagerPoetry
	defaultKind             = KindApplication
	defaultFlavor           = FlavorPlain
	defaultSchedule         = ScheduleDaily
	defaultLocale           = "en"
)

func defaultTestedVersions() []string {
	return []string{"3.9", "3.10", "3.11", "3.12", "3.13"}
}
