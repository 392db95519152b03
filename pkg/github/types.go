package github

import (
	"fmt"
	"regexp"
	"time"
)

// PRState is the lifecycle state of a pull request.
type PRState string

const (
	// PRStateOpen is an open pull request.
	PRStateOpen PRState = "open"
	// PRStateClosed is a closed pull request.
	PRStateClosed PRState = "closed"
)

// PRInfo contains the pull request information the reconcilers act on.
type PRInfo struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	State     PRState   `json:"state"`
	Draft     bool      `json:"draft"`
	URL       string    `json:"url"`
	BaseRef   string    `json:"base_ref"`
	HeadRef   string    `json:"head_ref"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IssueComment represents a comment on an issue or pull request.
type IssueComment struct {
	CommentID int64     `json:"comment_id"`
	URL       string    `json:"url"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RefOutcome is the tagged result of a ref lookup.
type RefOutcome int

const (
	// RefFound means the ref exists.
	RefFound RefOutcome = iota
	// RefNotFound means the ref does not exist; expected on first run.
	RefNotFound
	// RefError means the lookup failed for a reason other than absence.
	RefError
)

// String returns a short label for logs and error messages.
func (o RefOutcome) String() string {
	switch o {
	case RefFound:
		return "found"
	case RefNotFound:
		return "not-found"
	default:
		return "error"
	}
}

// RefLookup is the result of looking up a ref.
type RefLookup struct {
	Outcome RefOutcome
	// SHA is the commit the ref points at, set only when Outcome is RefFound.
	SHA string
	// Status is the HTTP status observed, set when Outcome is RefError.
	Status int
}

// NewPullRequest contains the information for creating a pull request.
type NewPullRequest struct {
	Title string `json:"title"`
	Head  string `json:"head"`
	Base  string `json:"base"`
	Body  string `json:"body"`
	Draft bool   `json:"draft"`
}

// PullRequestUpdate describes an in-place pull request update. Empty Title
// and Body leave the existing values unchanged; State is always applied.
type PullRequestUpdate struct {
	Title string
	Body  string
	State PRState
}

// repoPattern matches owner/repo identifiers.
var repoPattern = regexp.MustCompile(`^([\w.-]+)/([\w.-]+)$`)

// Repo identifies a repository by owner and name.
type Repo struct {
	Owner string
	Name  string
}

// ParseRepo parses an owner/repo identifier.
func ParseRepo(s string) (Repo, error) {
	matches := repoPattern.FindStringSubmatch(s)
	if matches == nil {
		return Repo{}, fmt.Errorf("invalid repository format: %s (expected owner/repo)", s)
	}
	return Repo{Owner: matches[1], Name: matches[2]}, nil
}

// String returns the owner/repo form.
func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}
