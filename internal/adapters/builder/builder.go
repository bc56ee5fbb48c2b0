package builder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/google/uuid"

	"github.com/dkaya/portside/internal/core/domain"
	"github.com/dkaya/portside/internal/manifest"
)

// Adapter implements ports.BuilderService using the Docker SDK.
type Adapter struct {
	cli    *client.Client
	logger *log.Logger
	// Progress destination for the image build stream. io.Discard by
	// default; the CLI points it at stderr.
	Progress io.Writer
}

func NewAdapter() (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{
		cli:      cli,
		logger:   log.NewWithOptions(os.Stderr, log.Options{Prefix: "builder"}),
		Progress: io.Discard,
	}, nil
}

// Build runs the provisioning pipeline: resolve source, load manifest,
// stage context, render dockerfile, build image, verify image. The
// staging workspace is removed whether the build succeeds or fails, so
// an aborted build leaves nothing behind on the host.
func (a *Adapter) Build(ctx context.Context, req domain.BuildRequest) (*domain.BuildResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tag := req.Tag
	if tag == "" {
		tag = "portside/app-" + uuid.NewString()[:8]
	}

	workspace, err := os.MkdirTemp("", "portside-build-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging workspace: %w", err)
	}
	defer os.RemoveAll(workspace)

	st := &buildState{req: req, tag: tag, workspace: workspace}
	steps := []step{
		{"resolve source", a.resolveSource},
		{"load manifest", a.loadManifest},
		{"stage context", a.stageContext},
		{"render dockerfile", a.renderDockerfile},
		{"build image", a.buildImage},
		{"verify image", a.verifyImage},
	}
	if err := runSteps(ctx, st, steps); err != nil {
		return nil, err
	}

	a.logger.Info("build complete", "tag", st.tag, "image", st.imageID, "fingerprint", st.fingerprint)
	return &domain.BuildResult{
		ImageID:      st.imageID,
		Tag:          st.tag,
		Fingerprint:  st.fingerprint.String(),
		Port:         req.Blueprint.Port,
		Command:      req.Blueprint.Command(),
		Dependencies: st.manifest.Dependencies,
	}, nil
}

// loadManifest reads and parses the dependency manifest once; the
// parsed list is immutable for the rest of the build.
func (a *Adapter) loadManifest(_ context.Context, st *buildState) error {
	path := filepath.Join(st.sourceDir, st.req.Blueprint.ManifestName)
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := manifest.Parse(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	st.manifestRaw = raw
	st.manifest = m
	return nil
}

// stageContext copies the manifest and entry file into the build
// context and fixes the fingerprint. A missing entry file fails the
// build here, before any launch command exists.
func (a *Adapter) stageContext(_ context.Context, st *buildState) error {
	bp := st.req.Blueprint

	entry, err := os.ReadFile(filepath.Join(st.sourceDir, bp.EntryFile))
	if err != nil {
		return fmt.Errorf("failed to read entry file: %w", err)
	}
	st.entryRaw = entry

	contextDir := filepath.Join(st.workspace, "context")
	if err := os.Mkdir(contextDir, 0o755); err != nil {
		return fmt.Errorf("failed to create context dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(contextDir, bp.ManifestName), st.manifestRaw, 0o644); err != nil {
		return fmt.Errorf("failed to stage manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(contextDir, bp.EntryFile), st.entryRaw, 0o644); err != nil {
		return fmt.Errorf("failed to stage entry file: %w", err)
	}

	st.fingerprint = bp.Fingerprint(st.manifestRaw, st.entryRaw)
	return nil
}

func (a *Adapter) renderDockerfile(_ context.Context, st *buildState) error {
	rendered, err := RenderDockerfile(st.req.Blueprint, st.manifest)
	if err != nil {
		return err
	}
	st.dockerfile = rendered
	path := filepath.Join(st.workspace, "context", "Dockerfile")
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("failed to write dockerfile: %w", err)
	}
	return nil
}

func (a *Adapter) buildImage(ctx context.Context, st *buildState) error {
	bp := st.req.Blueprint

	contextDir := filepath.Join(st.workspace, "context")
	tar, err := archive.TarWithOptions(contextDir, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("failed to create build context: %w", err)
	}

	command, err := json.Marshal(bp.Command())
	if err != nil {
		return fmt.Errorf("failed to encode launch command: %w", err)
	}

	a.logger.Info("building image", "tag", st.tag)
	resp, err := a.cli.ImageBuild(ctx, tar, types.ImageBuildOptions{
		Tags:       []string{st.tag},
		Dockerfile: "Dockerfile",
		Remove:     true, // Remove intermediate containers
		Labels: map[string]string{
			domain.LabelManaged:     "true",
			domain.LabelFingerprint: st.fingerprint.String(),
			domain.LabelPort:        strconv.Itoa(bp.Port),
			domain.LabelCommand:     string(command),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to build image: %w", err)
	}
	defer resp.Body.Close()

	// The build runs server-side; the stream must be drained for it to
	// finish, and an error frame in it means the build failed.
	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, a.Progress, 0, false, nil); err != nil {
		return fmt.Errorf("image build failed: %w", err)
	}
	return nil
}

// verifyImage checks the produced image carries the contract the
// blueprint declares: the exact launch command and the port label.
func (a *Adapter) verifyImage(ctx context.Context, st *buildState) error {
	inspect, _, err := a.cli.ImageInspectWithRaw(ctx, st.tag)
	if err != nil {
		return fmt.Errorf("failed to inspect built image: %w", err)
	}
	st.imageID = inspect.ID

	bp := st.req.Blueprint
	if got := []string(inspect.Config.Cmd); !slices.Equal(got, bp.Command()) {
		return fmt.Errorf("image command %v does not match declared command %v", got, bp.Command())
	}
	if inspect.Config.Labels[domain.LabelPort] != strconv.Itoa(bp.Port) {
		return fmt.Errorf("image is missing the declared port label")
	}
	return nil
}
