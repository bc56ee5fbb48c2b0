package ports

import (
	"context"
	"io"

	"github.com/dkaya/portside/internal/core/domain"
)

// ContainerService defines the core operations for managing containers.
// This interface allows us to switch between Docker, Podman, or Kubernetes
// without changing the business logic.
type ContainerService interface {
	ListContainers(ctx context.Context) ([]domain.Container, error)
	// StartContainer runs exactly one foreground container from the
	// image, publishing the port the image declares. It never injects
	// arguments or environment on top of the image's launch command.
	StartContainer(ctx context.Context, image, name string) (string, error)
	StopContainer(ctx context.Context, id string) error
	GetContainerLogs(ctx context.Context, id string, follow bool) (io.ReadCloser, error)
	InspectContainer(ctx context.Context, id string) (*domain.Container, error)
}
