package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v68/github"
)

// qualifyRef converts a fully-qualified ref ("refs/heads/x") into the form
// the git data API expects ("heads/x").
func qualifyRef(ref string) string {
	return strings.TrimPrefix(ref, "refs/")
}

// ResolveBranchSHA resolves the commit SHA a branch currently points at.
func (c *Client) ResolveBranchSHA(ctx context.Context, owner, repo, branch string) (string, error) {
	ref, _, err := c.GitHubClient().Git.GetRef(ctx, owner, repo, "heads/"+branch)
	if err != nil {
		return "", err
	}
	return ref.GetObject().GetSHA(), nil
}

// LookupRef looks up a fully-qualified ref and reports a tagged outcome.
// Absence is a normal result, not an error; any other failure yields the
// RefError outcome with the observed HTTP status alongside the error.
func (c *Client) LookupRef(ctx context.Context, owner, repo, ref string) (RefLookup, error) {
	found, resp, err := c.GitHubClient().Git.GetRef(ctx, owner, repo, qualifyRef(ref))
	if err != nil {
		if IsNotFoundError(err) {
			return RefLookup{Outcome: RefNotFound}, nil
		}
		status := statusCodeOf(err)
		if status == 0 && resp != nil {
			status = resp.StatusCode
		}
		return RefLookup{Outcome: RefError, Status: status}, err
	}

	return RefLookup{Outcome: RefFound, SHA: found.GetObject().GetSHA()}, nil
}

// CreateRef creates a fully-qualified ref pointing at the given commit SHA.
// A race with another creator surfaces as an error; the caller does not
// retry.
func (c *Client) CreateRef(ctx context.Context, owner, repo, ref, sha string) error {
	_, _, err := c.GitHubClient().Git.CreateRef(ctx, owner, repo, &github.Reference{
		Ref:    github.String(ref),
		Object: &github.GitObject{SHA: github.String(sha)},
	})
	if err != nil {
		return fmt.Errorf("failed to create ref %s: %w", ref, err)
	}
	return nil
}

// ListPullRequestsByBranch lists pull requests for an exact (head, base)
// pair across all states, sorted by most-recent update first.
func (c *Client) ListPullRequestsByBranch(ctx context.Context, owner, repo, head, base string) ([]*PRInfo, error) {
	opts := &github.PullRequestListOptions{
		State:       "all",
		Head:        owner + ":" + head,
		Base:        base,
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var allPRs []*PRInfo
	for {
		prs, resp, err := c.GitHubClient().PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list pull requests: %w", err)
		}

		for _, pr := range prs {
			allPRs = append(allPRs, convertFromGitHubPR(pr))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allPRs, nil
}

// CreatePullRequest creates a new pull request.
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo string, newPR *NewPullRequest) (*PRInfo, error) {
	pr, _, err := c.GitHubClient().PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.String(newPR.Title),
		Head:  github.String(newPR.Head),
		Base:  github.String(newPR.Base),
		Body:  github.String(newPR.Body),
		Draft: github.Bool(newPR.Draft),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}
	return convertFromGitHubPR(pr), nil
}

// UpdatePullRequest updates a pull request in place. Empty title or body
// leave the current values untouched; the state is always applied, which is
// how a closed pull request gets reopened.
func (c *Client) UpdatePullRequest(ctx context.Context, owner, repo string, prNumber int, update PullRequestUpdate) (*PRInfo, error) {
	edit := &github.PullRequest{}
	if update.Title != "" {
		edit.Title = github.String(update.Title)
	}
	if update.Body != "" {
		edit.Body = github.String(update.Body)
	}
	if update.State != "" {
		edit.State = github.String(string(update.State))
	}

	pr, _, err := c.GitHubClient().PullRequests.Edit(ctx, owner, repo, prNumber, edit)
	if err != nil {
		return nil, fmt.Errorf("failed to update pull request: %w", err)
	}
	return convertFromGitHubPR(pr), nil
}

// ListIssueComments fetches all comments on an issue or pull request with
// pagination.
func (c *Client) ListIssueComments(ctx context.Context, owner, repo string, issueNumber int) ([]IssueComment, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var allComments []IssueComment
	for {
		comments, resp, err := c.GitHubClient().Issues.ListComments(ctx, owner, repo, issueNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issue comments: %w", err)
		}

		for _, comment := range comments {
			allComments = append(allComments, convertFromGitHubIssueComment(comment))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allComments, nil
}

// CreateIssueComment creates a new comment on an issue or pull request.
func (c *Client) CreateIssueComment(ctx context.Context, owner, repo string, issueNumber int, body string) (int64, error) {
	comment, _, err := c.GitHubClient().Issues.CreateComment(ctx, owner, repo, issueNumber, &github.IssueComment{Body: github.String(body)})
	if err != nil {
		return 0, fmt.Errorf("failed to create issue comment: %w", err)
	}
	return comment.GetID(), nil
}

// EditIssueComment replaces the body of an existing comment.
func (c *Client) EditIssueComment(ctx context.Context, owner, repo string, commentID int64, body string) error {
	_, _, err := c.GitHubClient().Issues.EditComment(ctx, owner, repo, commentID, &github.IssueComment{Body: github.String(body)})
	if err != nil {
		return fmt.Errorf("failed to edit issue comment: %w", err)
	}
	return nil
}

// IsUserAssignable checks whether a user may be assigned to issues in the
// repository. An unknown user is reported as not assignable, not as an
// error.
func (c *Client) IsUserAssignable(ctx context.Context, owner, repo, user string) (bool, error) {
	assignable, _, err := c.GitHubClient().Issues.IsAssignee(ctx, owner, repo, user)
	if err != nil {
		return false, fmt.Errorf("failed to check assignee %s: %w", user, err)
	}
	return assignable, nil
}

// AddAssignees assigns users to an issue or pull request in one call.
func (c *Client) AddAssignees(ctx context.Context, owner, repo string, issueNumber int, assignees []string) error {
	_, _, err := c.GitHubClient().Issues.AddAssignees(ctx, owner, repo, issueNumber, assignees)
	if err != nil {
		return fmt.Errorf("failed to add assignees: %w", err)
	}
	return nil
}

// RequestReviewers requests reviews from users and teams in one call.
func (c *Client) RequestReviewers(ctx context.Context, owner, repo string, prNumber int, reviewers, teamReviewers []string) error {
	_, _, err := c.GitHubClient().PullRequests.RequestReviewers(ctx, owner, repo, prNumber, github.ReviewersRequest{
		Reviewers:     reviewers,
		TeamReviewers: teamReviewers,
	})
	if err != nil {
		return fmt.Errorf("failed to request reviewers: %w", err)
	}
	return nil
}

// AddLabels adds labels to an issue or pull request in one call.
func (c *Client) AddLabels(ctx context.Context, owner, repo string, issueNumber int, labels []string) error {
	_, _, err := c.GitHubClient().Issues.AddLabelsToIssue(ctx, owner, repo, issueNumber, labels)
	if err != nil {
		return fmt.Errorf("failed to add labels: %w", err)
	}
	return nil
}

// FetchFileContent fetches the raw contents of a file at a given ref using
// the contents API. The read is bounded by the client timeout.
func (c *Client) FetchFileContent(ctx context.Context, owner, repo, path, ref string) ([]byte, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		c.baseURL, owner, repo, path, url.QueryEscape(ref))

	req, err := c.NewRequest(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.raw+json")

	resp, err := c.Do(req, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s at %s: %w", path, ref, err)
	}

	data, err := resp.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return data, nil
}

// convertFromGitHubPR converts a github.PullRequest to our PRInfo type.
func convertFromGitHubPR(pr *github.PullRequest) *PRInfo {
	var baseRef, headRef string
	if base := pr.GetBase(); base != nil {
		baseRef = base.GetRef()
	}
	if head := pr.GetHead(); head != nil {
		headRef = head.GetRef()
	}

	author := ""
	if user := pr.GetUser(); user != nil {
		author = user.GetLogin()
	}

	return &PRInfo{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Body:      pr.GetBody(),
		State:     PRState(pr.GetState()),
		Draft:     pr.GetDraft(),
		URL:       pr.GetHTMLURL(),
		BaseRef:   baseRef,
		HeadRef:   headRef,
		Author:    author,
		CreatedAt: pr.GetCreatedAt().Time,
		UpdatedAt: pr.GetUpdatedAt().Time,
	}
}

// convertFromGitHubIssueComment converts a github.IssueComment to our
// IssueComment type.
func convertFromGitHubIssueComment(comment *github.IssueComment) IssueComment {
	author := ""
	var authorID int64
	if user := comment.GetUser(); user != nil {
		author = user.GetLogin()
		authorID = user.GetID()
	}

	return IssueComment{
		CommentID: comment.GetID(),
		URL:       comment.GetHTMLURL(),
		Body:      comment.GetBody(),
		Author:    author,
		AuthorID:  authorID,
		CreatedAt: comment.GetCreatedAt().Time,
		UpdatedAt: comment.GetUpdatedAt().Time,
	}
}
