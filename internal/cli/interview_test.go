package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/pyforge-dev/pyforge/internal/project"
)

func TestRunInterviewScripted(t *testing.T) {
	input := strings.Join([]string{
		"Demo Service",     // project name
		"demo-service",     // slug
		"demo_service",     // source directory
		"A demo service.",  // description
		"Ada Lovelace",     // creator
		"ada@example.com",  // creator email
		"apache-2.0",       // license
		"2024",             // copyright year
		"1.0.0",            // version
		"3.12",             // python version
		"3.10",             // minimum python version
		"3.10, 3.11, 3.12", // tested versions
		"uv",               // project manager
		"fastapi",          // flavor (no kind/async questions follow)
		"120",              // max line length
		"y",                // dependabot
		"weekly",           // dependabot schedule
		"n",                // continuous deployment
		"",                 // release drafter (accept default)
		"y",                // multi OS CI
		"y",                // docs
		"Demo Docs",        // docs site name
		"",                 // docs site description
		"",                 // docs site url
		"",                 // docs locale
		"",                 // docs repo name
		"",                 // docs repo url
		"requests, httpx",  // extra dependencies
	}, "\n") + "\n"

	var out bytes.Buffer
	a, err := runInterview(strings.NewReader(input), &out, project.NoDefaults{}, "", false)
	if err != nil {
		t.Fatalf("runInterview: %v", err)
	}

	if a.ProjectName != "Demo Service" || a.ProjectSlug != "demo-service" || a.SourceDir != "demo_service" {
		t.Errorf("name/slug/dir = %q/%q/%q", a.ProjectName, a.ProjectSlug, a.SourceDir)
	}
	if a.Creator != "Ada Lovelace" || a.CreatorEmail != "ada@example.com" {
		t.Errorf("creator = %q <%q>", a.Creator, a.CreatorEmail)
	}
	if a.License != "apache-2.0" || a.CopyrightYear != 2024 {
		t.Errorf("license/year = %q/%d", a.License, a.CopyrightYear)
	}
	if a.Version != "1.0.0" || a.PythonVersion != "3.12" || a.MinPythonVersion != "3.10" {
		t.Errorf("versions = %q/%q/%q", a.Version, a.PythonVersion, a.MinPythonVersion)
	}
	if len(a.TestedVersions) != 3 || a.TestedVersions[0] != "3.10" {
		t.Errorf("TestedVersions = %v", a.TestedVersions)
	}
	if a.Manager != "uv" || a.Flavor != "fastapi" {
		t.Errorf("manager/flavor = %q/%q", a.Manager, a.Flavor)
	}
	if a.Kind != "" || a.Async != nil {
		t.Error("fastapi interviews should not ask for kind or async")
	}
	if a.MaxLineLength != 120 {
		t.Errorf("MaxLineLength = %d", a.MaxLineLength)
	}
	if a.Dependabot == nil || !*a.Dependabot || a.DependabotSchedule != "weekly" {
		t.Errorf("dependabot = %v/%q", a.Dependabot, a.DependabotSchedule)
	}
	if a.ContinuousDeployment == nil || *a.ContinuousDeployment {
		t.Errorf("ContinuousDeployment = %v", a.ContinuousDeployment)
	}
	if a.ReleaseDrafter != nil {
		t.Error("blank answers should stay unset")
	}
	if a.MultiOSCI == nil || !*a.MultiOSCI {
		t.Errorf("MultiOSCI = %v", a.MultiOSCI)
	}
	if a.Docs == nil || !*a.Docs || a.DocsSiteName != "Demo Docs" {
		t.Errorf("docs = %v/%q", a.Docs, a.DocsSiteName)
	}
	if len(a.ExtraDependencies) != 2 || a.ExtraDependencies[1] != "httpx" {
		t.Errorf("ExtraDependencies = %v", a.ExtraDependencies)
	}

	// The answers must build into a valid configuration.
	if _, err := project.Build(a, nil); err != nil {
		t.Errorf("interview answers do not build: %v", err)
	}
}

func TestRunInterviewEOFAcceptsDefaults(t *testing.T) {
	var out bytes.Buffer
	a, err := runInterview(strings.NewReader("my-project\n"), &out, project.NoDefaults{}, "", false)
	if err != nil {
		t.Fatalf("runInterview: %v", err)
	}
	if a.ProjectName != "my-project" {
		t.Errorf("ProjectName = %q", a.ProjectName)
	}
	if a.License != "" || a.Manager != "" || a.Dependabot != nil {
		t.Error("questions after EOF should stay unset")
	}
}

func TestRunInterviewAcceptDefaults(t *testing.T) {
	var out bytes.Buffer
	a, err := runInterview(strings.NewReader(""), &out, project.NoDefaults{}, "my-project", true)
	if err != nil {
		t.Fatalf("runInterview: %v", err)
	}
	if a.ProjectName != "my-project" {
		t.Errorf("ProjectName = %q", a.ProjectName)
	}
	if out.Len() != 0 {
		t.Errorf("accept mode should not prompt, wrote %q", out.String())
	}
	if _, err := project.Build(a, mapAnswersDefaults{
		project.KeyCreator:      "Ada",
		project.KeyCreatorEmail: "ada@example.com",
	}); err != nil {
		t.Errorf("default answers do not build: %v", err)
	}
}

func TestRunInterviewMaturinAsksBackend(t *testing.T) {
	input := strings.Join([]string{
		"", "", "",                 // slug, source dir, description
		"Ada", "ada@example.com",   // creator, email
		"", "",                     // license, year
		"", "", "", "",             // version, python, min python, tested
		"maturin",                  // project manager
		"setuptools",               // pyo3 python manager
		"library",                  // kind
		"",                         // max line length
		"", "", "", "", "", "",     // dependabot, cd, drafter, multi-os, docs, extras
	}, "\n") + "\n"

	var out bytes.Buffer
	a, err := runInterview(strings.NewReader(input), &out, project.NoDefaults{}, "ext-module", false)
	if err != nil {
		t.Fatalf("runInterview: %v", err)
	}
	if a.Manager != "maturin" || a.Flavor != "pyo3" || a.PyO3Backend != "setuptools" {
		t.Errorf("manager/flavor/backend = %q/%q/%q", a.Manager, a.Flavor, a.PyO3Backend)
	}
	if a.Kind != "library" {
		t.Errorf("Kind = %q", a.Kind)
	}
}

func TestAskBoolRejectsGarbage(t *testing.T) {
	var out bytes.Buffer
	iv := &interview{in: bufio.NewScanner(strings.NewReader("maybe\ny\n")), out: &out}
	got := iv.askBool("Use dependabot", false)
	if got == nil || !*got {
		t.Fatalf("askBool = %v, want true after reprompt", got)
	}
	if !strings.Contains(out.String(), "Please answer y or n.") {
		t.Error("invalid input should reprompt")
	}
}

func TestAskChoiceRejectsUnknownOption(t *testing.T) {
	var out bytes.Buffer
	iv := &interview{in: bufio.NewScanner(strings.NewReader("hatch\nuv\n")), out: &out}
	got := iv.askChoice("Project manager", []string{"poetry", "uv"}, "poetry")
	if got != "uv" {
		t.Fatalf("askChoice = %q, want uv after reprompt", got)
	}
}

// mapAnswersDefaults is a stub defaults store for build checks.
type mapAnswersDefaults map[string]string

func (m mapAnswersDefaults) GetString(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
func (m mapAnswersDefaults) GetBool(string) (bool, bool)            { return false, false }
func (m mapAnswersDefaults) GetInt(string) (int, bool)              { return 0, false }
func (m mapAnswersDefaults) GetStringSlice(string) ([]string, bool) { return nil, false }
