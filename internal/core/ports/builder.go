package ports

import (
	"context"

	"github.com/dkaya/portside/internal/core/domain"
)

// BuilderService defines the build half of the harness: turn a build
// request into an immutable image.
type BuilderService interface {
	// Build runs the provisioning pipeline for the request and returns
	// the metadata of the produced image. Any step failure aborts the
	// whole build; no partial artifact is retained on the host.
	Build(ctx context.Context, req domain.BuildRequest) (*domain.BuildResult, error)
}
