// Package comment renders the informational comment posted on the
// versioning pull request. The body is assembled from a template and a
// substitution map; the reconciliation core treats the rendered result as
// opaque.
package comment

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"text/template"
)

//go:embed assets/*
var commentAssets embed.FS

// defaultTemplateFile is the embedded template used when no custom template
// is configured.
const defaultTemplateFile = "comment.md"

// Vars is the substitution map available to templates.
type Vars struct {
	BaseBranch        string
	BaseVersion       string
	HeadBranch        string
	HeadVersion       string
	IsNewBranch       bool
	IsPrerelease      bool
	PullRequestNumber int
	PullRequestURL    string
}

// Template renders info comment bodies.
type Template struct {
	tmpl *template.Template
}

// Load parses the template at path, or the embedded default when path is
// empty.
func Load(path string) (*Template, error) {
	var (
		data []byte
		err  error
		name string
	)

	if path == "" {
		sub, subErr := fs.Sub(commentAssets, "assets")
		if subErr != nil {
			return nil, fmt.Errorf("failed to subtree assets: %w", subErr)
		}
		data, err = fs.ReadFile(sub, defaultTemplateFile)
		name = defaultTemplateFile
	} else {
		data, err = os.ReadFile(path)
		name = path
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read comment template: %w", err)
	}

	tmpl, err := template.New(name).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse comment template: %w", err)
	}

	return &Template{tmpl: tmpl}, nil
}

// Render produces the comment body for the given substitution values.
func (t *Template) Render(vars Vars) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render comment template: %w", err)
	}
	return buf.String(), nil
}
