package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkaya/portside/internal/core/domain"
)

type stubContainerService struct {
	containers []domain.Container
	inspected  *domain.Container
	started    []string
	stopped    []string
	failWith   error
}

func (s *stubContainerService) ListContainers(context.Context) ([]domain.Container, error) {
	return s.containers, s.failWith
}

func (s *stubContainerService) StartContainer(_ context.Context, image, name string) (string, error) {
	if s.failWith != nil {
		return "", s.failWith
	}
	s.started = append(s.started, image)
	return "abc123def456", nil
}

func (s *stubContainerService) StopContainer(_ context.Context, id string) error {
	s.stopped = append(s.stopped, id)
	return s.failWith
}

func (s *stubContainerService) GetContainerLogs(context.Context, string, bool) (io.ReadCloser, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return io.NopCloser(strings.NewReader("hello from app\n")), nil
}

func (s *stubContainerService) InspectContainer(context.Context, string) (*domain.Container, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.inspected, nil
}

type stubBuilder struct {
	got      domain.BuildRequest
	result   *domain.BuildResult
	failWith error
}

func (s *stubBuilder) Build(_ context.Context, req domain.BuildRequest) (*domain.BuildResult, error) {
	s.got = req
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.result, nil
}

func testDefaults() domain.Blueprint {
	return domain.Blueprint{
		BaseImage:    "python:3.12-slim",
		WorkDir:      "/app",
		ManifestName: "requirements.txt",
		EntryFile:    "app.py",
		Interpreter:  "python",
		Port:         6969,
		UpgradeOS:    true,
	}
}

func newTestApp(svc *stubContainerService, b *stubBuilder) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app, NewHandler(svc, b, testDefaults()))
	return app
}

func TestHealth(t *testing.T) {
	app := newTestApp(&stubContainerService{}, &stubBuilder{})

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestBuildUsesDefaults(t *testing.T) {
	b := &stubBuilder{result: &domain.BuildResult{
		ImageID: "sha256:deadbeef",
		Tag:     "portside/app-1",
		Port:    6969,
		Command: []string{"python", "app.py"},
	}}
	app := newTestApp(&stubContainerService{}, b)

	payload := `{"source_dir": "/srv/apps/demo"}`
	req := httptest.NewRequest("POST", "/api/v1/builds", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Defaults filled in, source passed through.
	assert.Equal(t, "/srv/apps/demo", b.got.SourceDir)
	assert.Equal(t, testDefaults(), b.got.Blueprint)
}

func TestBuildOverrides(t *testing.T) {
	b := &stubBuilder{result: &domain.BuildResult{}}
	app := newTestApp(&stubContainerService{}, b)

	payload := `{"repo_url": "https://example.com/demo.git", "entry_file": "main.py", "port": 8080}`
	req := httptest.NewRequest("POST", "/api/v1/builds", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "main.py", b.got.Blueprint.EntryFile)
	assert.Equal(t, 8080, b.got.Blueprint.Port)
	assert.Equal(t, "python:3.12-slim", b.got.Blueprint.BaseImage)
}

func TestBuildRejectsMissingSource(t *testing.T) {
	app := newTestApp(&stubContainerService{}, &stubBuilder{})

	req := httptest.NewRequest("POST", "/api/v1/builds", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestBuildFailurePropagates(t *testing.T) {
	b := &stubBuilder{failWith: errors.New("stage context: entry file missing")}
	app := newTestApp(&stubContainerService{}, b)

	payload := `{"source_dir": "/srv/apps/demo"}`
	req := httptest.NewRequest("POST", "/api/v1/builds", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "stage context")
}

func TestListContainers(t *testing.T) {
	svc := &stubContainerService{containers: []domain.Container{
		{ID: "abc123", Name: "demo", Image: "portside/app-1", State: "running", Port: 6969},
	}}
	app := newTestApp(svc, &stubBuilder{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/containers/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got []domain.Container
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "demo", got[0].Name)
	assert.Equal(t, 6969, got[0].Port)
}

func TestStartContainer(t *testing.T) {
	svc := &stubContainerService{}
	app := newTestApp(svc, &stubBuilder{})

	body, _ := json.Marshal(StartContainerRequest{Image: "portside/app-1", Name: "demo"})
	req := httptest.NewRequest("POST", "/api/v1/containers/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, []string{"portside/app-1"}, svc.started)
}

func TestStartContainerRequiresImage(t *testing.T) {
	app := newTestApp(&stubContainerService{}, &stubBuilder{})

	req := httptest.NewRequest("POST", "/api/v1/containers/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestInspectContainer(t *testing.T) {
	svc := &stubContainerService{inspected: &domain.Container{
		ID:        "abc123def456",
		Name:      "demo",
		Image:     "portside/app-1",
		State:     "running",
		IPAddress: "172.17.0.2",
		Port:      6969,
	}}
	app := newTestApp(svc, &stubBuilder{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/containers/abc123def456", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got domain.Container
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "demo", got.Name)
	assert.Equal(t, "172.17.0.2", got.IPAddress)
	assert.Equal(t, 6969, got.Port)
}

func TestInspectContainerFailurePropagates(t *testing.T) {
	svc := &stubContainerService{failWith: errors.New("no such container")}
	app := newTestApp(svc, &stubBuilder{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/containers/abc123", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestStopContainer(t *testing.T) {
	svc := &stubContainerService{}
	app := newTestApp(svc, &stubBuilder{})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/containers/abc123", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"abc123"}, svc.stopped)
}

func TestGetContainerLogs(t *testing.T) {
	app := newTestApp(&stubContainerService{}, &stubBuilder{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/containers/abc123/logs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "hello from app")
}
