package reconcile

import (
	"context"

	gh "github.com/verbranch/verbranch/pkg/github"
	"github.com/verbranch/verbranch/pkg/log"
)

// reconcileRef ensures headRef exists, creating it from the tip of
// baseBranch when absent. Returns true when the ref was created by this
// run.
func (r *Reconciler) reconcileRef(ctx context.Context, baseBranch, headRef string) (bool, error) {
	sha, err := r.api.ResolveBranchSHA(ctx, r.repo.Owner, r.repo.Name, baseBranch)
	if err != nil {
		if gh.IsNotFoundError(err) {
			return false, &BaseBranchNotFoundError{Branch: baseBranch}
		}
		return false, err
	}

	lookup, err := r.api.LookupRef(ctx, r.repo.Owner, r.repo.Name, headRef)
	if err != nil {
		return false, &UnexpectedRefStateError{Ref: headRef, Status: lookup.Status, Err: err}
	}

	if lookup.Outcome == gh.RefFound {
		log.Debug("head ref already exists", "ref", headRef, "sha", lookup.SHA)
		return false, nil
	}

	if err := r.api.CreateRef(ctx, r.repo.Owner, r.repo.Name, headRef, sha); err != nil {
		return false, err
	}
	log.Info("created head ref", "ref", headRef, "sha", sha)
	return true, nil
}
