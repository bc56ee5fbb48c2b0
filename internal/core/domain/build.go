package domain

import "fmt"

// BuildRequest names the source and the blueprint for one build.
// Exactly one of SourceDir or RepoURL identifies where the manifest and
// entry file come from.
type BuildRequest struct {
	SourceDir string    `json:"source_dir,omitempty"`
	RepoURL   string    `json:"repo_url,omitempty"`
	Tag       string    `json:"tag,omitempty"`
	Blueprint Blueprint `json:"blueprint"`
}

func (r BuildRequest) Validate() error {
	if r.SourceDir == "" && r.RepoURL == "" {
		return fmt.Errorf("build request: source dir or repo url is required")
	}
	if r.SourceDir != "" && r.RepoURL != "" {
		return fmt.Errorf("build request: source dir and repo url are mutually exclusive")
	}
	return r.Blueprint.Validate()
}
