package cli

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pyforge-dev/pyforge/internal/config"
	"github.com/pyforge-dev/pyforge/internal/generate"
	"github.com/pyforge-dev/pyforge/internal/project"
	"github.com/pyforge-dev/pyforge/internal/pypi"
)

var (
	createFromFile   string
	createOutputDir  string
	createSkipLatest bool
	createDefaults   bool
)

func init() {
	createCmd.Flags().StringVarP(&createFromFile, "from-file", "f", "", "Read answers from a YAML file instead of prompting")
	createCmd.Flags().StringVarP(&createOutputDir, "output-dir", "o", "", "Output directory (default: ./<project-slug>)")
	createCmd.Flags().BoolVar(&createSkipLatest, "skip-download-latest-packages", false, "Keep built-in package versions instead of asking PyPI")
	createCmd.Flags().BoolVarP(&createDefaults, "default", "d", false, "Accept the default answer for every question")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new Python project",
	Long: `Create a new Python project directory with packaging, linting, testing, and
CI configuration already in place.

Answers come from an interactive interview by default. Saved defaults
(see 'pyforge config') pre-fill the interview, --default accepts every
pre-filled answer, and --from-file skips the interview entirely.

Package versions written into the project are the latest stable releases on
PyPI, looked up concurrently at create time. A package whose lookup fails
keeps its built-in version and is reported as a warning; use
--skip-download-latest-packages to keep the built-in versions without any
network access.

Examples:
  pyforge create
  pyforge create my-project --default
  pyforge create --from-file answers.yaml --output-dir /tmp/my-project`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	config.Load()
	store := config.Store{}

	var answers project.Answers
	if createFromFile != "" {
		if len(args) > 0 {
			return fmt.Errorf("cannot combine a name argument with --from-file")
		}
		var err error
		answers, err = project.LoadAnswersFile(createFromFile)
		if err != nil {
			return err
		}
	} else {
		var name string
		if len(args) > 0 {
			name = args[0]
		}
		var err error
		answers, err = runInterview(cmd.InOrStdin(), cmd.ErrOrStderr(), store, name, createDefaults)
		if err != nil {
			return fmt.Errorf("collecting answers: %w", err)
		}
	}

	cfg, err := project.Build(answers, store)
	if err != nil {
		return err
	}

	resolver := pypi.NewResolver(pypi.NewClient())
	for _, fb := range resolver.Resolve(cmd.Context(), cfg, createSkipLatest) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: using default version for %s: %v\n", fb.Name, fb.Err)
	}

	result, err := generate.Generate(afero.NewOsFs(), cfg, createOutputDir)
	if err != nil {
		return err
	}

	if err := initGitRepo(result.OutputDir); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipping git repository setup: %v\n", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s at %s/ (%d files)\n", cfg.Slug, result.OutputDir, len(result.Files))
	return nil
}

// initGitRepo turns the generated directory into a fresh git repository.
func initGitRepo(dir string) error {
	git, err := exec.LookPath("git")
	if err != nil {
		return fmt.Errorf("git not found in PATH: %w", err)
	}
	out, err := exec.Command(git, "init", dir).CombinedOutput()
	if err != nil {
		return fmt.Errorf("git init: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
