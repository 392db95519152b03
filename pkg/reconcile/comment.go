package reconcile

import (
	"context"
	"fmt"

	"github.com/verbranch/verbranch/pkg/log"
)

// reconcileInfoComment keeps a single automation-owned comment on the pull
// request up to date. The bot's comment is matched by login or by numeric
// user id; the first match is edited in place, otherwise a new comment is
// created.
func (r *Reconciler) reconcileInfoComment(ctx context.Context, prNumber int, body string) error {
	comments, err := r.api.ListIssueComments(ctx, r.repo.Owner, r.repo.Name, prNumber)
	if err != nil {
		return fmt.Errorf("failed to list comments on #%d: %w", prNumber, err)
	}

	for _, comment := range comments {
		if comment.Author != r.botLogin && comment.AuthorID != r.botUserID {
			continue
		}
		if err := r.api.EditIssueComment(ctx, r.repo.Owner, r.repo.Name, comment.CommentID, body); err != nil {
			return err
		}
		log.Debug("updated info comment", "comment_id", comment.CommentID)
		return nil
	}

	commentID, err := r.api.CreateIssueComment(ctx, r.repo.Owner, r.repo.Name, prNumber, body)
	if err != nil {
		return err
	}
	log.Debug("created info comment", "comment_id", commentID)
	return nil
}
