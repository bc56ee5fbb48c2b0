package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// resolveSource points st.sourceDir at the directory holding the
// manifest and entry file: either the local directory from the request
// or a fresh shallow clone inside the staging workspace.
func (a *Adapter) resolveSource(ctx context.Context, st *buildState) error {
	if st.req.SourceDir != "" {
		info, err := os.Stat(st.req.SourceDir)
		if err != nil {
			return fmt.Errorf("failed to read source dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("source %s is not a directory", st.req.SourceDir)
		}
		st.sourceDir = st.req.SourceDir
		return nil
	}

	cloneDir := filepath.Join(st.workspace, "src")
	a.logger.Info("cloning repository", "url", st.req.RepoURL)
	_, err := git.PlainCloneContext(ctx, cloneDir, false, &git.CloneOptions{
		URL:   st.req.RepoURL,
		Depth: 1, // Shallow clone for speed
	})
	if err != nil {
		return fmt.Errorf("failed to clone repo: %w", err)
	}
	st.sourceDir = cloneDir
	return nil
}
