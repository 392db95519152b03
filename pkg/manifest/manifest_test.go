package manifest

import (
	"context"
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		data        string
		wantVersion string
		wantErr     bool
	}{
		{
			name:        "package.json",
			path:        "package.json",
			data:        `{"name":"demo","version":"1.2.3","private":true}`,
			wantVersion: "1.2.3",
		},
		{
			name:        "yaml manifest",
			path:        "version.yaml",
			data:        "name: demo\nversion: 2.0.0-rc.1\n",
			wantVersion: "2.0.0-rc.1",
		},
		{
			name:        "yml extension",
			path:        "chart.yml",
			data:        "version: 0.1.0\n",
			wantVersion: "0.1.0",
		},
		{
			name:        "extensionless json",
			path:        "VERSION",
			data:        `{"version":"3.2.1"}`,
			wantVersion: "3.2.1",
		},
		{
			name:        "extensionless yaml fallback",
			path:        "VERSION",
			data:        "version: 3.2.1\n",
			wantVersion: "3.2.1",
		},
		{
			name:    "missing version field",
			path:    "package.json",
			data:    `{"name":"demo"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			path:    "package.json",
			data:    `{"version":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode(tt.path, []byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if m.Version != tt.wantVersion {
				t.Errorf("Version = %q, want %q", m.Version, tt.wantVersion)
			}
		})
	}
}

type fakeFetcher struct {
	data []byte
	err  error

	gotPath string
	gotRef  string
}

func (f *fakeFetcher) FetchFileContent(_ context.Context, _, _, path, ref string) ([]byte, error) {
	f.gotPath = path
	f.gotRef = ref
	return f.data, f.err
}

func TestFetch(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte(`{"version":"1.0.0"}`)}

	m, err := Fetch(context.Background(), fetcher, "octocat", "demo", "package.json", "main")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if m.Version != "1.0.0" {
		t.Errorf("Version = %q, want 1.0.0", m.Version)
	}
	if fetcher.gotPath != "package.json" || fetcher.gotRef != "main" {
		t.Errorf("fetched %s at %s, want package.json at main", fetcher.gotPath, fetcher.gotRef)
	}
}

func TestFetchPropagatesError(t *testing.T) {
	wantErr := errors.New("not found")
	fetcher := &fakeFetcher{err: wantErr}

	_, err := Fetch(context.Background(), fetcher, "octocat", "demo", "package.json", "main")
	if !errors.Is(err, wantErr) {
		t.Errorf("Fetch() error = %v, want %v", err, wantErr)
	}
}
