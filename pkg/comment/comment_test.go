package comment

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderDefaultTemplate(t *testing.T) {
	tmpl, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	body, err := tmpl.Render(Vars{
		BaseBranch:        "main",
		BaseVersion:       "1.2.3",
		HeadBranch:        "release/1.3.0",
		HeadVersion:       "1.3.0",
		IsNewBranch:       true,
		IsPrerelease:      false,
		PullRequestNumber: 42,
		PullRequestURL:    "https://github.com/octocat/demo/pull/42",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{"`main`", "`1.2.3`", "`release/1.3.0`", "`1.3.0`"} {
		if !strings.Contains(body, want) {
			t.Errorf("rendered body missing %q:\n%s", want, body)
		}
	}
	if !strings.Contains(body, "| New branch | yes |") {
		t.Errorf("rendered body should report a new branch:\n%s", body)
	}
}

func TestRenderCustomTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.md")
	content := "Version {{.HeadVersion}} on {{.HeadBranch}} (PR #{{.PullRequestNumber}})"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tmpl, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	body, err := tmpl.Render(Vars{HeadBranch: "release/2.0.0", HeadVersion: "2.0.0", PullRequestNumber: 7})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := "Version 2.0.0 on release/2.0.0 (PR #7)"
	if body != want {
		t.Errorf("Render() = %q, want %q", body, want)
	}
}

func TestLoadMissingTemplate(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.md")); err == nil {
		t.Error("expected error for missing template file")
	}
}

func TestLoadInvalidTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.md")
	if err := os.WriteFile(path, []byte("{{.Unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for unparsable template")
	}
}
