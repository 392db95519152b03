package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"

	"github.com/verbranch/verbranch/pkg/comment"
	"github.com/verbranch/verbranch/pkg/config"
	"github.com/verbranch/verbranch/pkg/github"
	"github.com/verbranch/verbranch/pkg/log"
	"github.com/verbranch/verbranch/pkg/manifest"
	"github.com/verbranch/verbranch/pkg/reconcile"
	"github.com/verbranch/verbranch/pkg/version"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Reconcile the versioning branch and pull request",
	Long: `Read the workflow inputs, compute the next version from the manifest
on the base branch, and converge the repository onto the matching
versioning branch, pull request, info comment, and collaborators.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), githubactions.New())
	},
}

func run(ctx context.Context, action *githubactions.Action) error {
	fileCfg, err := config.LoadFileFromCurrentDir()
	if err != nil {
		return err
	}

	cfg, err := config.FromInputs(action, fileCfg)
	if err != nil {
		return err
	}

	log.Init(log.Level(cfg.LogLevel))
	log.Info("starting run", "repository", cfg.Repo.String(), "base_branch", cfg.BaseBranch)

	client := github.NewClient(cfg.Token, github.WithRateLimitTracking(true))

	m, err := manifest.Fetch(ctx, client, cfg.Repo.Owner, cfg.Repo.Name, cfg.VersionFile, cfg.BaseBranch)
	if err != nil {
		return fmt.Errorf("failed to read %s from %s: %w", cfg.VersionFile, cfg.BaseBranch, err)
	}

	resolution, err := version.Resolve(m.Version, cfg.BumpLevel, cfg.PreReleaseID, cfg.CustomVersion)
	if err != nil {
		return err
	}

	headBranch := version.BranchName(cfg.BranchPrefix, resolution.Version)
	log.Info("resolved head version",
		"base_version", m.Version,
		"head_version", resolution.Version,
		"head_branch", headBranch,
		"prerelease", resolution.Prerelease)

	plan := reconcile.Plan{
		BaseBranch:    cfg.BaseBranch,
		BaseVersion:   m.Version,
		HeadVersion:   resolution.Version,
		HeadBranch:    headBranch,
		HeadBranchRef: version.BranchRef(headBranch),
		IsPrerelease:  resolution.Prerelease,
	}

	if cfg.PullRequest {
		prPlan, err := buildPullRequestPlan(cfg)
		if err != nil {
			return err
		}
		plan.PullRequest = prPlan
	}

	result, err := reconcile.New(client, cfg.Repo).Run(ctx, plan)
	if err != nil {
		return err
	}

	setOutputs(action, result)
	log.Info("run complete", "head_branch", result.HeadBranch, "new_branch", result.IsNewBranch)
	return nil
}

func buildPullRequestPlan(cfg *config.Config) (*reconcile.PullRequestPlan, error) {
	tmpl, err := comment.Load(cfg.CommentTemplate)
	if err != nil {
		return nil, err
	}

	return &reconcile.PullRequestPlan{
		Title:        cfg.Title,
		Body:         cfg.Body,
		Draft:        cfg.Draft,
		FailIfExists: cfg.FailIfExists,
		BuildComment: func(res reconcile.Result) (string, error) {
			return tmpl.Render(comment.Vars{
				BaseBranch:        res.BaseBranch,
				BaseVersion:       res.BaseVersion,
				HeadBranch:        res.HeadBranch,
				HeadVersion:       res.HeadVersion,
				IsNewBranch:       res.IsNewBranch,
				IsPrerelease:      res.IsPrerelease,
				PullRequestNumber: res.PullRequestNumber,
				PullRequestURL:    res.PullRequestURL,
			})
		},
		Assignees:     cfg.Assignees,
		Reviewers:     cfg.Reviewers,
		TeamReviewers: cfg.TeamReviewers,
		Labels:        cfg.Labels,
	}, nil
}

func setOutputs(action *githubactions.Action, result *reconcile.Result) {
	action.SetOutput("base-branch", result.BaseBranch)
	action.SetOutput("base-version", result.BaseVersion)
	action.SetOutput("head-branch", result.HeadBranch)
	action.SetOutput("head-version", result.HeadVersion)
	action.SetOutput("is-new-branch", strconv.FormatBool(result.IsNewBranch))
	action.SetOutput("is-prerelease", strconv.FormatBool(result.IsPrerelease))

	prNumber := ""
	if result.PullRequestNumber != 0 {
		prNumber = strconv.Itoa(result.PullRequestNumber)
	}
	action.SetOutput("pull-request-number", prNumber)
	action.SetOutput("pull-request-url", result.PullRequestURL)

	action.SetOutput("assignees", strings.Join(result.Assignees, ","))
	action.SetOutput("reviewers", strings.Join(result.Reviewers, ","))
	action.SetOutput("team-reviewers", strings.Join(result.TeamReviewers, ","))
	action.SetOutput("labels", strings.Join(result.Labels, ","))
}
