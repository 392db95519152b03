// Package config assembles and validates the run configuration.
//
// Values come from the invoking workflow's string-keyed inputs, with
// project-level defaults from a .verbranch/config.yaml file. Precedence:
// input > project config > built-in default. Validation happens once here,
// before any pipeline stage runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/verbranch/verbranch/pkg/github"
	"github.com/verbranch/verbranch/pkg/manifest"
	"github.com/verbranch/verbranch/pkg/version"
)

const (
	// RepositoryEnv is the environment variable carrying owner/repo.
	RepositoryEnv = "GITHUB_REPOSITORY"

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "progress"
)

// InputSource is a string-keyed input lookup. Missing keys yield the empty
// string.
type InputSource interface {
	GetInput(name string) string
}

// ValidationError indicates a missing or unrecognized configuration value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Field, e.Reason)
}

// Config enumerates every recognized option.
type Config struct {
	// Token authenticates against the GitHub API.
	Token string
	// Repo is the repository to operate on.
	Repo github.Repo
	// BaseBranch is the branch versions are computed from.
	BaseBranch string

	// BumpLevel is one of major, minor, patch, prerelease. Ignored when
	// CustomVersion is set.
	BumpLevel string
	// PreReleaseID is an optional pre-release identifier token.
	PreReleaseID string
	// CustomVersion overrides version computation entirely.
	CustomVersion string
	// BranchPrefix is prepended verbatim to the resolved version.
	BranchPrefix string
	// VersionFile is the manifest path read from the base branch.
	VersionFile string

	// PullRequest enables pull request reconciliation.
	PullRequest bool
	// Draft creates new pull requests as drafts.
	Draft bool
	// FailIfExists aborts when an open pull request already exists.
	FailIfExists bool
	// Title and Body are optional pull request fields.
	Title string
	Body  string
	// CommentTemplate is a path to a custom info comment template.
	CommentTemplate string

	Assignees     []string
	Reviewers     []string
	TeamReviewers []string
	Labels        []string

	LogLevel string
}

// FromInputs builds a validated Config from workflow inputs and optional
// project-file defaults. A nil file behaves like an empty one.
func FromInputs(inputs InputSource, file *FileConfig) (*Config, error) {
	if file == nil {
		file = &FileConfig{}
	}

	cfg := &Config{
		Token:           inputs.GetInput("token"),
		BaseBranch:      inputs.GetInput("base-branch"),
		BumpLevel:       inputs.GetInput("bump-level"),
		PreReleaseID:    inputs.GetInput("pre-release-id"),
		CustomVersion:   inputs.GetInput("custom-version"),
		Title:           inputs.GetInput("title"),
		Body:            inputs.GetInput("body"),
		Assignees:       splitList(inputs.GetInput("assignees")),
		Reviewers:       splitList(inputs.GetInput("reviewers")),
		TeamReviewers:   splitList(inputs.GetInput("team-reviewers")),
		Labels:          splitList(inputs.GetInput("labels")),
		BranchPrefix:    resolveString(inputs.GetInput("branch-prefix"), file.BranchPrefix, ""),
		VersionFile:     resolveString(inputs.GetInput("version-file"), file.VersionFile, manifest.DefaultPath),
		CommentTemplate: resolveString(inputs.GetInput("comment-template"), file.CommentTemplate, ""),
		LogLevel:        resolveString(inputs.GetInput("log-level"), file.LogLevel, DefaultLogLevel),
	}

	if cfg.Token == "" {
		cfg.Token = os.Getenv(github.TokenEnv)
	}

	var err error
	if cfg.PullRequest, err = parseBool("pull-request", inputs.GetInput("pull-request")); err != nil {
		return nil, err
	}
	if cfg.Draft, err = parseBool("draft", inputs.GetInput("draft")); err != nil {
		return nil, err
	}
	if cfg.FailIfExists, err = parseBool("fail-if-exists", inputs.GetInput("fail-if-exists")); err != nil {
		return nil, err
	}

	repository := inputs.GetInput("repository")
	if repository == "" {
		repository = os.Getenv(RepositoryEnv)
	}
	if repository == "" {
		return nil, &ValidationError{Field: "repository", Reason: "value is required"}
	}
	if cfg.Repo, err = github.ParseRepo(repository); err != nil {
		return nil, &ValidationError{Field: "repository", Reason: err.Error()}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields and closed sets.
func (c *Config) Validate() error {
	if c.Token == "" {
		return &ValidationError{Field: "token", Reason: "value is required"}
	}
	if c.BaseBranch == "" {
		return &ValidationError{Field: "base-branch", Reason: "value is required"}
	}
	if c.CustomVersion == "" {
		if _, err := version.ParseBumpLevel(c.BumpLevel); err != nil {
			return &ValidationError{Field: "bump-level", Reason: err.Error()}
		}
	}
	return nil
}

// resolveString returns the effective value for a string option.
// Precedence: input > project config > default.
func resolveString(inputValue, fileValue, defaultValue string) string {
	if inputValue != "" {
		return inputValue
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// parseBool parses a boolean input; the empty string means false.
func parseBool(field, value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, &ValidationError{Field: field, Reason: fmt.Sprintf("invalid boolean %q", value)}
	}
	return parsed, nil
}

// splitList parses a comma-separated input into trimmed, non-empty items.
func splitList(value string) []string {
	if value == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
