package builder

import (
	"context"
	"fmt"

	"github.com/dkaya/portside/internal/core/domain"
	"github.com/opencontainers/go-digest"
)

// buildState carries the intermediate products between steps. Each step
// reads what earlier steps produced and fills in its own part.
type buildState struct {
	req         domain.BuildRequest
	tag         string
	workspace   string // staging area, removed when the build finishes either way
	sourceDir   string
	manifest    domain.Manifest
	manifestRaw []byte
	entryRaw    []byte
	dockerfile  string
	fingerprint digest.Digest
	imageID     string
}

// step is one ordered, fallible stage of the provisioning pipeline.
type step struct {
	name string
	run  func(ctx context.Context, st *buildState) error
}

// runSteps executes the pipeline strictly in order and short-circuits
// on the first failure, wrapping the error with the failing step's name
// and nothing else: the underlying tool's message passes through
// verbatim.
func runSteps(ctx context.Context, st *buildState, steps []step) error {
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("build aborted: %w", err)
		}
		if err := s.run(ctx, st); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}
