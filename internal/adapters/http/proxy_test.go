package http

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkaya/portside/internal/core/domain"
)

func TestAppName(t *testing.T) {
	tests := []struct {
		host string
		want string
		ok   bool
	}{
		{"demo.localhost", "demo", true},
		{"demo.apps.example.com", "demo", true},
		{"localhost", "", false},
		{"www.example.com", "", false},
		{".localhost", "", false},
		{"demo.", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			got, ok := appName(tt.host)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTarget(t *testing.T) {
	containers := []domain.Container{
		{Name: "stopped", State: "exited", IPAddress: "172.17.0.2", Port: 6969},
		{Name: "noip", State: "running", Port: 6969},
		{Name: "demo", State: "running", IPAddress: "172.17.0.3", Port: 6969},
		{Name: "legacy", State: "running", IPAddress: "172.17.0.4"},
	}

	addr, ok := target(containers, "demo")
	require.True(t, ok)
	assert.Equal(t, "172.17.0.3:6969", addr)

	// Unlabeled containers fall back to the conventional HTTP port.
	addr, ok = target(containers, "legacy")
	require.True(t, ok)
	assert.Equal(t, "172.17.0.4:80", addr)

	for _, name := range []string{"stopped", "noip", "unknown"} {
		_, ok := target(containers, name)
		assert.False(t, ok, name)
	}
}

func newProxyApp(svc *stubContainerService) *fiber.App {
	app := fiber.New()
	app.Use(NewProxyHandler(svc).ProxyRequest)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("api")
	})
	return app
}

func TestProxyPassthroughToAPI(t *testing.T) {
	app := newProxyApp(&stubContainerService{})

	req := httptest.NewRequest("GET", "http://localhost/healthz", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "api", string(raw))
}

func TestProxyUnknownApp(t *testing.T) {
	svc := &stubContainerService{containers: []domain.Container{
		{Name: "other", State: "running", IPAddress: "172.17.0.2", Port: 6969},
	}}
	app := newProxyApp(svc)

	req := httptest.NewRequest("GET", "http://demo.localhost/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "demo")
}

func TestProxySkipsStoppedApp(t *testing.T) {
	svc := &stubContainerService{containers: []domain.Container{
		{Name: "demo", State: "exited", IPAddress: "172.17.0.2", Port: 6969},
	}}
	app := newProxyApp(svc)

	req := httptest.NewRequest("GET", "http://demo.localhost/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
