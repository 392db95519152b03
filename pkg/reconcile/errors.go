package reconcile

import "fmt"

// BaseBranchNotFoundError indicates the configured base branch does not
// exist in the repository.
type BaseBranchNotFoundError struct {
	Branch string
}

func (e *BaseBranchNotFoundError) Error() string {
	return fmt.Sprintf("base branch %q not found", e.Branch)
}

// UnexpectedRefStateError indicates a ref lookup that returned neither
// found nor not-found.
type UnexpectedRefStateError struct {
	Ref    string
	Status int
	Err    error
}

func (e *UnexpectedRefStateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected state for ref %q (status %d): %v", e.Ref, e.Status, e.Err)
	}
	return fmt.Sprintf("unexpected state for ref %q (status %d)", e.Ref, e.Status)
}

func (e *UnexpectedRefStateError) Unwrap() error { return e.Err }

// DuplicatePullRequestError indicates an open pull request already exists
// for the (head, base) pair while duplicate prevention is enabled.
type DuplicatePullRequestError struct {
	Number int
	URL    string
}

func (e *DuplicatePullRequestError) Error() string {
	return fmt.Sprintf("an open pull request already exists: #%d (%s)", e.Number, e.URL)
}
