// Package reconcile converges the remote repository onto a target
// versioning branch and pull request.
//
// The pipeline runs its stages strictly in order: ref, pull request, info
// comment, collaborators. Each stage depends on state established by the
// previous one and any unrecoverable error aborts the rest of the run.
// Nothing is rolled back and nothing is retried here.
package reconcile

import (
	"context"

	gh "github.com/verbranch/verbranch/pkg/github"
)

// Default identity of the automation account that owns the info comment.
const (
	DefaultBotLogin  = "github-actions[bot]"
	DefaultBotUserID = 41898282
)

// API is the remote mutation surface the reconcilers require. It is
// satisfied by *github.Client.
type API interface {
	ResolveBranchSHA(ctx context.Context, owner, repo, branch string) (string, error)
	LookupRef(ctx context.Context, owner, repo, ref string) (gh.RefLookup, error)
	CreateRef(ctx context.Context, owner, repo, ref, sha string) error

	ListPullRequestsByBranch(ctx context.Context, owner, repo, head, base string) ([]*gh.PRInfo, error)
	CreatePullRequest(ctx context.Context, owner, repo string, pr *gh.NewPullRequest) (*gh.PRInfo, error)
	UpdatePullRequest(ctx context.Context, owner, repo string, prNumber int, update gh.PullRequestUpdate) (*gh.PRInfo, error)

	ListIssueComments(ctx context.Context, owner, repo string, issueNumber int) ([]gh.IssueComment, error)
	CreateIssueComment(ctx context.Context, owner, repo string, issueNumber int, body string) (int64, error)
	EditIssueComment(ctx context.Context, owner, repo string, commentID int64, body string) error

	IsUserAssignable(ctx context.Context, owner, repo, user string) (bool, error)
	AddAssignees(ctx context.Context, owner, repo string, issueNumber int, assignees []string) error
	RequestReviewers(ctx context.Context, owner, repo string, prNumber int, reviewers, teamReviewers []string) error
	AddLabels(ctx context.Context, owner, repo string, issueNumber int, labels []string) error
}

// Plan is the fully resolved target state for one run.
type Plan struct {
	BaseBranch    string
	BaseVersion   string
	HeadVersion   string
	HeadBranch    string
	HeadBranchRef string
	IsPrerelease  bool

	// PullRequest enables the pull request stages; nil reconciles the
	// branch only.
	PullRequest *PullRequestPlan
}

// PullRequestPlan describes the pull request stages of a Plan.
type PullRequestPlan struct {
	// Title and Body are optional; empty values leave an updated pull
	// request unchanged and a created one with the platform defaults.
	Title string
	Body  string
	Draft bool
	// FailIfExists aborts instead of updating when an open pull request
	// already exists for the (head, base) pair.
	FailIfExists bool

	// BuildComment renders the info comment body from the run result so
	// far. Nil skips the comment stage; templating stays outside the core.
	BuildComment func(Result) (string, error)

	Assignees     []string
	Reviewers     []string
	TeamReviewers []string
	Labels        []string
}

// Result is the reported outcome of a run.
type Result struct {
	BaseBranch   string
	BaseVersion  string
	HeadBranch   string
	HeadVersion  string
	IsNewBranch  bool
	IsPrerelease bool

	PullRequestNumber int
	PullRequestURL    string

	// Assignees is the platform-confirmed subset of the requested
	// assignees; the remaining lists are the requested values when
	// applied.
	Assignees     []string
	Reviewers     []string
	TeamReviewers []string
	Labels        []string
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithBotIdentity overrides the automation identity used to find the info
// comment.
func WithBotIdentity(login string, userID int64) Option {
	return func(r *Reconciler) {
		r.botLogin = login
		r.botUserID = userID
	}
}

// Reconciler drives the pipeline against one repository.
type Reconciler struct {
	api       API
	repo      gh.Repo
	botLogin  string
	botUserID int64
}

// New creates a Reconciler for the given repository.
func New(api API, repo gh.Repo, opts ...Option) *Reconciler {
	r := &Reconciler{
		api:       api,
		repo:      repo,
		botLogin:  DefaultBotLogin,
		botUserID: DefaultBotUserID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the pipeline for the given plan.
func (r *Reconciler) Run(ctx context.Context, plan Plan) (*Result, error) {
	result := &Result{
		BaseBranch:   plan.BaseBranch,
		BaseVersion:  plan.BaseVersion,
		HeadBranch:   plan.HeadBranch,
		HeadVersion:  plan.HeadVersion,
		IsPrerelease: plan.IsPrerelease,
	}

	isNewBranch, err := r.reconcileRef(ctx, plan.BaseBranch, plan.HeadBranchRef)
	if err != nil {
		return nil, err
	}
	result.IsNewBranch = isNewBranch

	if plan.PullRequest == nil {
		return result, nil
	}

	pr, err := r.reconcilePullRequest(ctx, plan)
	if err != nil {
		return nil, err
	}
	result.PullRequestNumber = pr.Number
	result.PullRequestURL = pr.URL

	if plan.PullRequest.BuildComment != nil {
		body, err := plan.PullRequest.BuildComment(*result)
		if err != nil {
			return nil, err
		}
		if body != "" {
			if err := r.reconcileInfoComment(ctx, pr.Number, body); err != nil {
				return nil, err
			}
		}
	}

	applied, err := r.reconcileCollaborators(ctx, pr.Number, plan.PullRequest)
	if err != nil {
		return nil, err
	}
	result.Assignees = applied.assignees
	result.Reviewers = applied.reviewers
	result.TeamReviewers = applied.teamReviewers
	result.Labels = applied.labels

	return result, nil
}
