package main

import (
	"os"

	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"

	"github.com/verbranch/verbranch/pkg/log"
)

var rootCmd = &cobra.Command{
	Use:   "verbranch",
	Short: "Versioning branch automation for GitHub repositories",
	Long: `verbranch computes the next semantic version from a repository's
manifest, creates a versioning branch for it, and keeps an associated
pull request, info comment, and collaborator set in sync.

It is designed to run inside a GitHub Actions workflow, reading its
configuration from workflow inputs and publishing results as outputs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("run failed", "error", err)
		githubactions.Errorf("%v", err)
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}
