package reconcile

import (
	"context"
	"sync"

	"github.com/verbranch/verbranch/pkg/log"
)

// appliedCollaborators reports what the collaborator stage actually applied.
type appliedCollaborators struct {
	assignees     []string
	reviewers     []string
	teamReviewers []string
	labels        []string
}

// reconcileCollaborators assigns users, requests reviews, and adds labels.
// Assignees are first checked for assignability concurrently; a failed or
// negative check drops that user from the list rather than aborting the
// stage. Reviewers and labels each go out in a single call.
func (r *Reconciler) reconcileCollaborators(ctx context.Context, prNumber int, plan *PullRequestPlan) (appliedCollaborators, error) {
	var applied appliedCollaborators

	if len(plan.Assignees) > 0 {
		assignable := r.filterAssignable(ctx, plan.Assignees)
		if len(assignable) > 0 {
			if err := r.api.AddAssignees(ctx, r.repo.Owner, r.repo.Name, prNumber, assignable); err != nil {
				return applied, err
			}
		}
		applied.assignees = assignable
	}

	if len(plan.Reviewers) > 0 || len(plan.TeamReviewers) > 0 {
		if err := r.api.RequestReviewers(ctx, r.repo.Owner, r.repo.Name, prNumber, plan.Reviewers, plan.TeamReviewers); err != nil {
			return applied, err
		}
		applied.reviewers = plan.Reviewers
		applied.teamReviewers = plan.TeamReviewers
	}

	if len(plan.Labels) > 0 {
		if err := r.api.AddLabels(ctx, r.repo.Owner, r.repo.Name, prNumber, plan.Labels); err != nil {
			return applied, err
		}
		applied.labels = plan.Labels
	}

	return applied, nil
}

// filterAssignable checks each candidate concurrently and returns the
// assignable subset in the original request order. Each check is isolated:
// one user's failure never blocks the others.
func (r *Reconciler) filterAssignable(ctx context.Context, candidates []string) []string {
	results := make([]bool, len(candidates))

	var wg sync.WaitGroup
	for i, user := range candidates {
		wg.Add(1)
		go func(i int, user string) {
			defer wg.Done()
			ok, err := r.api.IsUserAssignable(ctx, r.repo.Owner, r.repo.Name, user)
			if err != nil {
				log.Warn("assignability check failed, skipping user", "user", user, "error", err)
				return
			}
			if !ok {
				log.Warn("skipping non-assignable user", "user", user)
			}
			results[i] = ok
		}(i, user)
	}
	wg.Wait()

	assignable := make([]string, 0, len(candidates))
	for i, user := range candidates {
		if results[i] {
			assignable = append(assignable, user)
		}
	}
	return assignable
}
