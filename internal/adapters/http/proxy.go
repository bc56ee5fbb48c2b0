package http

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/dkaya/portside/internal/core/domain"
	"github.com/dkaya/portside/internal/core/ports"
)

// ProxyHandler forwards subdomain traffic (app-name.<domain>) to the
// matching container on the port its image declared at build time.
type ProxyHandler struct {
	service ports.ContainerService
}

func NewProxyHandler(service ports.ContainerService) *ProxyHandler {
	return &ProxyHandler{service: service}
}

// appName extracts the candidate container name from the request host.
// Bare hosts and the www prefix belong to the API, not to an app.
func appName(host string) (string, bool) {
	name, rest, found := strings.Cut(host, ".")
	if !found || rest == "" || name == "" || name == "www" {
		return "", false
	}
	return name, true
}

// target picks the address for a named app: a running container with
// that name and a reachable IP. Containers without a declared-port
// label were built elsewhere; assume the conventional HTTP port.
func target(containers []domain.Container, name string) (string, bool) {
	for _, ct := range containers {
		if ct.Name != name || ct.State != "running" || ct.IPAddress == "" {
			continue
		}
		port := ct.Port
		if port == 0 {
			port = 80
		}
		return fmt.Sprintf("%s:%d", ct.IPAddress, port), true
	}
	return "", false
}

// ProxyRequest is the app-routing middleware: requests whose host
// carries no app subdomain fall through to the API routes.
func (h *ProxyHandler) ProxyRequest(c *fiber.Ctx) error {
	name, ok := appName(c.Hostname())
	if !ok {
		return c.Next()
	}

	containers, err := h.service.ListContainers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to list containers")
	}
	addr, ok := target(containers, name)
	if !ok {
		return c.Status(fiber.StatusNotFound).SendString(fmt.Sprintf("App '%s' not found or not running", name))
	}

	remote := &url.URL{Scheme: "http", Host: addr}
	proxy := httputil.NewSingleHostReverseProxy(remote)

	// The app only knows its container address; keeping the public
	// hostname in the Host header trips virtual-host checks inside.
	director := proxy.Director
	proxy.Director = func(req *http.Request) {
		director(req)
		req.Host = remote.Host
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, _ *http.Request, err error) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprintf(w, "upstream %s unreachable: %v", addr, err)
	}

	return adaptor.HTTPHandler(proxy)(c)
}
