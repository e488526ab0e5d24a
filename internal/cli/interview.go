package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pyforge-dev/pyforge/internal/project"
)

// interview collects answers line by line. A blank answer leaves the field
// unset so the defaults chain fills it in at build time; in accept mode every
// question resolves to its default without prompting. Errors are sticky: after
// a read failure every ask returns the zero answer and the error is reported
// once, at the end.
type interview struct {
	in       *bufio.Scanner
	out      io.Writer
	defaults project.Defaults
	accept   bool
	err      error
}

func (iv *interview) ask(label, hint string) string {
	if iv.err != nil || iv.accept {
		return ""
	}
	if hint != "" {
		fmt.Fprintf(iv.out, "%s [%s]: ", label, hint)
	} else {
		fmt.Fprintf(iv.out, "%s: ", label)
	}
	if !iv.in.Scan() {
		// EOF accepts the defaults for the remaining questions.
		iv.err = iv.in.Err()
		iv.accept = true
		return ""
	}
	return strings.TrimSpace(iv.in.Text())
}

func (iv *interview) askBool(label string, fallback bool) *bool {
	hint := "y/N"
	if fallback {
		hint = "Y/n"
	}
	for {
		answer := iv.ask(label, hint)
		if answer == "" {
			return nil
		}
		switch strings.ToLower(answer) {
		case "y", "yes", "true":
			yes := true
			return &yes
		case "n", "no", "false":
			no := false
			return &no
		}
		fmt.Fprintln(iv.out, "Please answer y or n.")
	}
}

func (iv *interview) askChoice(label string, options []string, fallback string) string {
	hint := strings.Join(options, "/")
	if fallback != "" {
		hint += ", default " + fallback
	}
	for {
		answer := strings.ToLower(iv.ask(label, hint))
		if answer == "" {
			return ""
		}
		for _, opt := range options {
			if answer == opt {
				return answer
			}
		}
		fmt.Fprintf(iv.out, "Please choose one of: %s.\n", strings.Join(options, ", "))
	}
}

func (iv *interview) askInt(label string, fallback int) int {
	for {
		answer := iv.ask(label, strconv.Itoa(fallback))
		if answer == "" {
			return 0
		}
		n, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(iv.out, "Please enter a number.")
			continue
		}
		return n
	}
}

func (iv *interview) askList(label, hint string) []string {
	answer := iv.ask(label, hint)
	if answer == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(answer, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func (iv *interview) stored(key, fallback string) string {
	if v, ok := iv.defaults.GetString(key); ok && v != "" {
		return v
	}
	return fallback
}

func (iv *interview) storedBool(key string, fallback bool) bool {
	if v, ok := iv.defaults.GetBool(key); ok {
		return v
	}
	return fallback
}

func (iv *interview) storedInt(key string, fallback int) int {
	if v, ok := iv.defaults.GetInt(key); ok && v != 0 {
		return v
	}
	return fallback
}

// runInterview walks through the create questions in order. Conditional
// questions (dependabot schedule, docs fields, the PyO3 Python manager) only
// appear when the gating answer enables them.
func runInterview(in io.Reader, out io.Writer, defaults project.Defaults, name string, acceptDefaults bool) (project.Answers, error) {
	iv := &interview{in: bufio.NewScanner(in), out: out, defaults: defaults}

	var a project.Answers
	a.ProjectName = name
	if a.ProjectName == "" {
		a.ProjectName = iv.ask("Project name", "")
	}
	iv.accept = acceptDefaults

	slugHint := project.Slugify(a.ProjectName)
	a.ProjectSlug = iv.ask("Project slug", slugHint)
	a.SourceDir = iv.ask("Source directory", strings.ReplaceAll(slugHint, "-", "_"))
	a.Description = iv.ask("Description", "")
	a.Creator = iv.ask("Creator", iv.stored(project.KeyCreator, ""))
	a.CreatorEmail = iv.ask("Creator email", iv.stored(project.KeyCreatorEmail, ""))

	a.License = iv.askChoice("License", []string{"mit", "apache-2.0", "none"}, strings.ToLower(iv.stored(project.KeyLicense, "mit")))
	license := a.License
	if license == "" {
		license = strings.ToLower(iv.stored(project.KeyLicense, "mit"))
	}
	if license != "none" {
		a.CopyrightYear = iv.askInt("Copyright year", time.Now().Year())
	}

	a.Version = iv.ask("Version", "0.1.0")
	a.PythonVersion = iv.ask("Python version", iv.stored(project.KeyPythonVersion, "3.13"))
	a.MinPythonVersion = iv.ask("Minimum Python version", iv.stored(project.KeyMinPythonVersion, "3.9"))
	a.TestedVersions = iv.askList("Tested Python versions (comma separated)", "3.9, 3.10, 3.11, 3.12, 3.13")

	a.Manager = iv.askChoice("Project manager", []string{"poetry", "setuptools", "uv", "pixi", "maturin"}, strings.ToLower(iv.stored(project.KeyManager, "poetry")))
	manager := a.Manager
	if manager == "" {
		manager = strings.ToLower(iv.stored(project.KeyManager, "poetry"))
	}
	if manager == "maturin" {
		a.Flavor = "pyo3"
		a.PyO3Backend = iv.askChoice("PyO3 Python manager", []string{"uv", "setuptools"}, "uv")
	} else {
		a.Flavor = iv.askChoice("Flavor", []string{"plain", "fastapi"}, "plain")
	}
	flavor := a.Flavor
	if flavor == "" {
		flavor = "plain"
	}

	if flavor != "fastapi" {
		a.Kind = iv.askChoice("Application or library", []string{"application", "library"}, strings.ToLower(iv.stored(project.KeyKind, "application")))
		kind := a.Kind
		if kind == "" {
			kind = strings.ToLower(iv.stored(project.KeyKind, "application"))
		}
		if kind == "application" {
			a.Async = iv.askBool("Async entry point", false)
		}
	}

	a.MaxLineLength = iv.askInt("Max line length", iv.storedInt(project.KeyMaxLineLength, 100))

	a.Dependabot = iv.askBool("Use dependabot", iv.storedBool(project.KeyDependabot, false))
	dependabot := iv.storedBool(project.KeyDependabot, false)
	if a.Dependabot != nil {
		dependabot = *a.Dependabot
	}
	if dependabot {
		a.DependabotSchedule = iv.askChoice("Dependabot schedule", []string{"daily", "weekly", "monthly"}, strings.ToLower(iv.stored(project.KeyDependabotSchedule, "daily")))
	}

	a.ContinuousDeployment = iv.askBool("Use continuous deployment", iv.storedBool(project.KeyContinuousDeployment, false))
	a.ReleaseDrafter = iv.askBool("Use release drafter", iv.storedBool(project.KeyReleaseDrafter, false))
	a.MultiOSCI = iv.askBool("Test on macOS and Windows in CI", iv.storedBool(project.KeyMultiOSCI, false))

	a.Docs = iv.askBool("Generate a docs site", iv.storedBool(project.KeyDocs, false))
	docs := iv.storedBool(project.KeyDocs, false)
	if a.Docs != nil {
		docs = *a.Docs
	}
	if docs {
		a.DocsSiteName = iv.ask("Docs site name", a.ProjectName)
		a.DocsSiteDescription = iv.ask("Docs site description", a.Description)
		a.DocsSiteURL = iv.ask("Docs site URL", "")
		a.DocsLocale = iv.ask("Docs locale", "en")
		a.DocsRepoName = iv.ask("Docs repo name", slugHint)
		a.DocsRepoURL = iv.ask("Docs repo URL", "")
	}

	a.ExtraDependencies = iv.askList("Extra dependencies (comma separated)", "")

	return a, iv.err
}
