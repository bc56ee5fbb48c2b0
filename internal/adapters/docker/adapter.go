package docker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"io"
	"os"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"

	"github.com/dkaya/portside/internal/core/domain"
)

// Adapter implements ports.ContainerService using Docker SDK
type Adapter struct {
	cli *client.Client
}

// NewAdapter creates a new Docker adapter instance
func NewAdapter() (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli}, nil
}

// ListContainers returns a list of running containers with details
func (a *Adapter) ListContainers(ctx context.Context) ([]domain.Container, error) {
	containers, err := a.cli.ContainerList(ctx, types.ContainerListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	var result []domain.Container
	for _, c := range containers {
		// Use the first name if available, remove slash
		name := ""
		if len(c.Names) > 0 {
			name = c.Names[0][1:]
		}

		ip := ""
		if c.NetworkSettings != nil {
			for _, ep := range c.NetworkSettings.Networks {
				if ep.IPAddress != "" {
					ip = ep.IPAddress
					break
				}
			}
		}

		result = append(result, domain.Container{
			ID:        c.ID[:12], // Short ID
			Name:      name,
			Image:     c.Image,
			Status:    c.Status,
			State:     c.State,
			IPAddress: ip,
			Port:      declaredPort(c.Labels),
		})
	}
	return result, nil
}

// StartContainer creates and starts exactly one container from the
// image. The declared port is read back from the image label and
// published; the image's own launch command runs untouched, with no
// extra arguments and no environment injection.
func (a *Adapter) StartContainer(ctx context.Context, image, name string) (string, error) {
	if ctx == nil {
		return "", fmt.Errorf("context is nil")
	}

	// Locally built images are used as-is; anything else is pulled.
	inspect, _, err := a.cli.ImageInspectWithRaw(ctx, image)
	if client.IsErrNotFound(err) {
		reader, perr := a.cli.ImagePull(ctx, image, types.ImagePullOptions{})
		if perr != nil {
			return "", fmt.Errorf("failed to pull image: %w", perr)
		}
		defer reader.Close()
		io.Copy(os.Stdout, reader)

		if inspect, _, err = a.cli.ImageInspectWithRaw(ctx, image); err != nil {
			return "", fmt.Errorf("failed to inspect pulled image: %w", err)
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to inspect image: %w", err)
	}

	config := &container.Config{
		Image:  image,
		Labels: inspect.Config.Labels,
	}
	var hostConfig *container.HostConfig
	if port := declaredPort(inspect.Config.Labels); port > 0 {
		p, perr := nat.NewPort("tcp", strconv.Itoa(port))
		if perr != nil {
			return "", fmt.Errorf("invalid declared port: %w", perr)
		}
		config.ExposedPorts = nat.PortSet{p: struct{}{}}
		hostConfig = &container.HostConfig{
			// Ephemeral host port; the proxy reaches the container IP
			// directly, this is for operators poking from the host.
			PortBindings: nat.PortMap{p: []nat.PortBinding{{HostIP: "0.0.0.0"}}},
		}
	}

	resp, err := a.cli.ContainerCreate(ctx, config, hostConfig, nil, nil, name)
	if err != nil {
		return "", fmt.Errorf("failed to create container: %w", err)
	}

	if err := a.cli.ContainerStart(ctx, resp.ID, types.ContainerStartOptions{}); err != nil {
		return "", fmt.Errorf("failed to start container: %w", err)
	}

	return resp.ID, nil
}

// StopContainer stops a running container
func (a *Adapter) StopContainer(ctx context.Context, id string) error {
	// Timeout can be configurable, but keeping it simple for now
	timeout := 10 * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return a.cli.ContainerStop(ctx, id, container.StopOptions{})
}

// GetContainerLogs returns a stream of container logs
func (a *Adapter) GetContainerLogs(ctx context.Context, id string, follow bool) (io.ReadCloser, error) {
	options := types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     follow,
		Timestamps: true,
	}
	return a.cli.ContainerLogs(ctx, id, options)
}

// InspectContainer reports what Docker sees for one container: state,
// IP, and the declared port label. It asserts nothing about whether the
// process inside actually bound that port.
func (a *Adapter) InspectContainer(ctx context.Context, id string) (*domain.Container, error) {
	cj, err := a.cli.ContainerInspect(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect container: %w", err)
	}

	ip := ""
	if cj.NetworkSettings != nil {
		ip = cj.NetworkSettings.IPAddress
		if ip == "" {
			for _, ep := range cj.NetworkSettings.Networks {
				if ep.IPAddress != "" {
					ip = ep.IPAddress
					break
				}
			}
		}
	}

	c := &domain.Container{
		ID:        cj.ID[:12],
		Name:      cj.Name[1:],
		Image:     cj.Config.Image,
		IPAddress: ip,
		Port:      declaredPort(cj.Config.Labels),
	}
	if cj.State != nil {
		c.State = cj.State.Status
		c.Status = cj.State.Status
	}
	return c, nil
}

func declaredPort(labels map[string]string) int {
	port, err := strconv.Atoi(labels[domain.LabelPort])
	if err != nil {
		return 0
	}
	return port
}
