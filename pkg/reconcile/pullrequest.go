package reconcile

import (
	"context"
	"fmt"

	gh "github.com/verbranch/verbranch/pkg/github"
	"github.com/verbranch/verbranch/pkg/log"
)

// reconcilePullRequest converges on exactly one pull request for the
// (head, base) branch pair. The most recently updated existing pull request
// is the canonical one; it is updated and reopened if needed, and only when
// none exists is a new one created.
func (r *Reconciler) reconcilePullRequest(ctx context.Context, plan Plan) (*gh.PRInfo, error) {
	prPlan := plan.PullRequest

	existing, err := r.api.ListPullRequestsByBranch(ctx, r.repo.Owner, r.repo.Name, plan.HeadBranch, plan.BaseBranch)
	if err != nil {
		return nil, fmt.Errorf("failed to find pull requests for %s: %w", plan.HeadBranch, err)
	}

	if len(existing) == 0 {
		// The create API requires a title; an omitted one defaults to the
		// head branch name. Updates pass the title through as-is, so an
		// omitted title leaves the existing one untouched.
		title := prPlan.Title
		if title == "" {
			title = plan.HeadBranch
		}

		pr, err := r.api.CreatePullRequest(ctx, r.repo.Owner, r.repo.Name, &gh.NewPullRequest{
			Title: title,
			Head:  plan.HeadBranch,
			Base:  plan.BaseBranch,
			Body:  prPlan.Body,
			Draft: prPlan.Draft,
		})
		if err != nil {
			return nil, err
		}
		log.Info("created pull request", "number", pr.Number, "url", pr.URL)
		return pr, nil
	}

	canonical := existing[0]

	if prPlan.FailIfExists && canonical.State == gh.PRStateOpen {
		return nil, &DuplicatePullRequestError{Number: canonical.Number, URL: canonical.URL}
	}

	updated, err := r.api.UpdatePullRequest(ctx, r.repo.Owner, r.repo.Name, canonical.Number, gh.PullRequestUpdate{
		Title: prPlan.Title,
		Body:  prPlan.Body,
		State: gh.PRStateOpen,
	})
	if err != nil {
		return nil, err
	}

	if canonical.State == gh.PRStateClosed {
		log.Info("reopened pull request", "number", updated.Number, "url", updated.URL)
	} else {
		log.Debug("updated pull request", "number", updated.Number)
	}
	return updated, nil
}
