package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapInputs is an InputSource over a plain map; missing keys yield "".
type mapInputs map[string]string

func (m mapInputs) GetInput(name string) string { return m[name] }

func validInputs() mapInputs {
	return mapInputs{
		"token":       "ghp_test",
		"repository":  "octocat/demo",
		"base-branch": "main",
		"bump-level":  "minor",
	}
}

func TestFromInputs(t *testing.T) {
	inputs := validInputs()
	inputs["pre-release-id"] = "beta"
	inputs["branch-prefix"] = "release/"
	inputs["pull-request"] = "true"
	inputs["draft"] = "true"
	inputs["fail-if-exists"] = "false"
	inputs["assignees"] = "alice, bob"
	inputs["reviewers"] = "carol"
	inputs["labels"] = "release,automated, "

	cfg, err := FromInputs(inputs, nil)
	require.NoError(t, err)

	assert.Equal(t, "ghp_test", cfg.Token)
	assert.Equal(t, "octocat", cfg.Repo.Owner)
	assert.Equal(t, "demo", cfg.Repo.Name)
	assert.Equal(t, "main", cfg.BaseBranch)
	assert.Equal(t, "minor", cfg.BumpLevel)
	assert.Equal(t, "beta", cfg.PreReleaseID)
	assert.Equal(t, "release/", cfg.BranchPrefix)
	assert.Equal(t, "package.json", cfg.VersionFile)
	assert.True(t, cfg.PullRequest)
	assert.True(t, cfg.Draft)
	assert.False(t, cfg.FailIfExists)
	assert.Equal(t, []string{"alice", "bob"}, cfg.Assignees)
	assert.Equal(t, []string{"carol"}, cfg.Reviewers)
	assert.Equal(t, []string{"release", "automated"}, cfg.Labels)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestFromInputsDefaultsFromEnv(t *testing.T) {
	inputs := validInputs()
	delete(inputs, "token")
	delete(inputs, "repository")
	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv(RepositoryEnv, "env-owner/env-repo")

	cfg, err := FromInputs(inputs, nil)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, "env-owner/env-repo", cfg.Repo.String())
}

func TestFromInputsFileDefaults(t *testing.T) {
	file := &FileConfig{
		BranchPrefix: "version/",
		VersionFile:  "version.yaml",
		LogLevel:     "debug",
	}

	cfg, err := FromInputs(validInputs(), file)
	require.NoError(t, err)
	assert.Equal(t, "version/", cfg.BranchPrefix)
	assert.Equal(t, "version.yaml", cfg.VersionFile)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Inputs win over file config.
	inputs := validInputs()
	inputs["branch-prefix"] = "release/"
	cfg, err = FromInputs(inputs, file)
	require.NoError(t, err)
	assert.Equal(t, "release/", cfg.BranchPrefix)
}

func TestFromInputsValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(mapInputs)
		wantField string
	}{
		{"missing token", func(m mapInputs) { delete(m, "token") }, "token"},
		{"missing repository", func(m mapInputs) { delete(m, "repository") }, "repository"},
		{"bad repository", func(m mapInputs) { m["repository"] = "not-a-repo" }, "repository"},
		{"missing base branch", func(m mapInputs) { delete(m, "base-branch") }, "base-branch"},
		{"bad bump level", func(m mapInputs) { m["bump-level"] = "huge" }, "bump-level"},
		{"missing bump level", func(m mapInputs) { delete(m, "bump-level") }, "bump-level"},
		{"bad boolean", func(m mapInputs) { m["draft"] = "maybe" }, "draft"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Keep env fallbacks out of the picture.
			t.Setenv("GITHUB_TOKEN", "")
			t.Setenv(RepositoryEnv, "")

			inputs := validInputs()
			tt.mutate(inputs)

			_, err := FromInputs(inputs, nil)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestCustomVersionSkipsBumpLevelValidation(t *testing.T) {
	inputs := validInputs()
	delete(inputs, "bump-level")
	inputs["custom-version"] = "2.0.0"

	cfg, err := FromInputs(inputs, nil)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", cfg.CustomVersion)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ConfigDir), 0o755))
	content := "branch_prefix: release/\nversion_file: version.yaml\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigPath), []byte(content), 0o644))

	// Found from a nested directory by searching upward.
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := LoadFile(nested)
	require.NoError(t, err)
	assert.Equal(t, "release/", cfg.BranchPrefix)
	assert.Equal(t, "version.yaml", cfg.VersionFile)
}

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &FileConfig{}, cfg)
}

func TestLoadFileMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ConfigDir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigPath), []byte(":\tnot yaml"), 0o644))

	_, err := LoadFile(dir)
	assert.Error(t, err)
}
