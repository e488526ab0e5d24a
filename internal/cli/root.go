package cli

import (
	"github.com/spf13/cobra"

	"github.com/pyforge-dev/pyforge/internal/branding"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds Python projects. It collects project settings from a
short interview or an answers file, resolves current package versions from
PyPI, and writes a complete starter project with packaging, linting, testing,
and CI already wired up.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
