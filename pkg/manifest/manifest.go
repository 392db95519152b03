// Package manifest reads the version manifest of a repository, e.g. a
// package.json, at a given branch. Only the version field matters to the
// pipeline; the rest of the file is opaque.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the manifest path used when none is configured.
const DefaultPath = "package.json"

// Manifest is the decoded version manifest.
type Manifest struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// ContentFetcher reads a file's raw contents at a given ref.
type ContentFetcher interface {
	FetchFileContent(ctx context.Context, owner, repo, path, ref string) ([]byte, error)
}

// Fetch reads and decodes the manifest at the given branch.
func Fetch(ctx context.Context, fetcher ContentFetcher, owner, repo, filePath, branch string) (*Manifest, error) {
	data, err := fetcher.FetchFileContent(ctx, owner, repo, filePath, branch)
	if err != nil {
		return nil, err
	}

	m, err := Decode(filePath, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s at %s: %w", filePath, branch, err)
	}
	return m, nil
}

// Decode parses manifest bytes. The format is chosen by file extension,
// defaulting to JSON with a YAML fallback for extensionless files.
func Decode(filePath string, data []byte) (*Manifest, error) {
	var m Manifest

	switch strings.ToLower(path.Ext(filePath)) {
	case ".json":
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &m); err != nil {
			if yerr := yaml.Unmarshal(data, &m); yerr != nil {
				return nil, err
			}
		}
	}

	if m.Version == "" {
		return nil, fmt.Errorf("manifest %s has no version field", filePath)
	}

	return &m, nil
}
