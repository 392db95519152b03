package github

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setupTestClient creates a test client with VCR recording.
func setupTestClient(t *testing.T, fixtureName string) (*Client, *Recorder) {
	t.Helper()

	fixturesDir := filepath.Join("testdata", "fixtures")
	if _, err := os.Stat(fixturesDir); os.IsNotExist(err) {
		t.Skipf("fixtures directory not found. To record fixtures, run: VERBRANCH_VCR_MODE=record GITHUB_TOKEN=your_token go test ./pkg/github/...")
	}

	rec, err := NewRecorder(t, fixtureName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			t.Skipf("fixture %q not found. To record it, run: VERBRANCH_VCR_MODE=record GITHUB_TOKEN=your_token go test -v ./pkg/github/ -run %s", fixtureName, t.Name())
		}
		t.Fatalf("failed to create recorder: %v", err)
	}

	var token string
	if rec.IsRecording() {
		token = os.Getenv("GITHUB_TOKEN")
		if token == "" {
			t.Fatal("GITHUB_TOKEN environment variable must be set when recording fixtures")
		}
	} else {
		// Dummy token for replay; it is filtered from recordings.
		token = "test-token"
	}

	client := NewClient(token,
		WithTimeout(10*time.Second),
		WithHTTPClient(rec.HTTPClient()),
	)

	return client, rec
}

func TestLookupRefRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	client, rec := setupTestClient(t, "lookup_ref")
	defer rec.Stop()

	ctx := context.Background()

	lookup, err := client.LookupRef(ctx, "verbranch", "fixture-repo", "refs/heads/main")
	if err != nil {
		t.Fatalf("LookupRef() error = %v", err)
	}
	if lookup.Outcome != RefFound {
		t.Errorf("Outcome = %v, want %v", lookup.Outcome, RefFound)
	}
	if lookup.SHA == "" {
		t.Error("SHA should not be empty for a found ref")
	}

	lookup, err = client.LookupRef(ctx, "verbranch", "fixture-repo", "refs/heads/release/99.99.99")
	if err != nil {
		t.Fatalf("LookupRef() error = %v", err)
	}
	if lookup.Outcome != RefNotFound {
		t.Errorf("Outcome = %v, want %v", lookup.Outcome, RefNotFound)
	}
}

func TestListPullRequestsByBranch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	client, rec := setupTestClient(t, "list_pull_requests")
	defer rec.Stop()

	prs, err := client.ListPullRequestsByBranch(context.Background(), "verbranch", "fixture-repo", "release/1.3.0", "main")
	if err != nil {
		t.Fatalf("ListPullRequestsByBranch() error = %v", err)
	}

	for i := 1; i < len(prs); i++ {
		if prs[i].UpdatedAt.After(prs[i-1].UpdatedAt) {
			t.Errorf("pull requests not sorted by most-recent update: %v before %v",
				prs[i-1].UpdatedAt, prs[i].UpdatedAt)
		}
	}
}

func TestFetchFileContent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	client, rec := setupTestClient(t, "fetch_file_content")
	defer rec.Stop()

	data, err := client.FetchFileContent(context.Background(), "verbranch", "fixture-repo", "package.json", "main")
	if err != nil {
		t.Fatalf("FetchFileContent() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty file contents")
	}
}

func TestQualifyRef(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"refs/heads/main", "heads/main"},
		{"heads/main", "heads/main"},
		{"refs/heads/release/1.2.3", "heads/release/1.2.3"},
	}

	for _, tt := range tests {
		if got := qualifyRef(tt.ref); got != tt.want {
			t.Errorf("qualifyRef(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}
