package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dkaya/portside/internal/core/domain"
	"github.com/dkaya/portside/internal/core/ports"
)

// Handler exposes builds and containers over the REST API. Blueprint
// fields absent from a build request fall back to the configured
// defaults.
type Handler struct {
	service  ports.ContainerService
	builder  ports.BuilderService
	defaults domain.Blueprint
}

func NewHandler(service ports.ContainerService, builder ports.BuilderService, defaults domain.Blueprint) *Handler {
	return &Handler{service: service, builder: builder, defaults: defaults}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

// BuildRequest is the API shape of one build: where the source lives
// plus optional blueprint overrides.
type BuildRequest struct {
	SourceDir string `json:"source_dir"`
	RepoURL   string `json:"repo_url"`
	Tag       string `json:"tag"`

	BaseImage   string `json:"base_image"`
	EntryFile   string `json:"entry_file"`
	Interpreter string `json:"interpreter"`
	Port        int    `json:"port"`
}

func (h *Handler) Build(c *fiber.Ctx) error {
	var req BuildRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	bp := h.defaults
	if req.BaseImage != "" {
		bp.BaseImage = req.BaseImage
	}
	if req.EntryFile != "" {
		bp.EntryFile = req.EntryFile
	}
	if req.Interpreter != "" {
		bp.Interpreter = req.Interpreter
	}
	if req.Port != 0 {
		bp.Port = req.Port
	}

	buildReq := domain.BuildRequest{
		SourceDir: req.SourceDir,
		RepoURL:   req.RepoURL,
		Tag:       req.Tag,
		Blueprint: bp,
	}
	if err := buildReq.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Note: This is a blocking operation and might take time!
	result, err := h.builder.Build(c.Context(), buildReq)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Build failed: " + err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *Handler) ListContainers(c *fiber.Ctx) error {
	containers, err := h.service.ListContainers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(containers)
}

type StartContainerRequest struct {
	Image string `json:"image"`
	Name  string `json:"name"`
}

func (h *Handler) StartContainer(c *fiber.Ctx) error {
	var req StartContainerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Image == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image name is required",
		})
	}

	containerID, err := h.service.StartContainer(c.Context(), req.Image, req.Name)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    containerID,
		"image": req.Image,
	})
}

// InspectContainer reports one container's state, IP, and declared
// port: the runtime half of the build contract, as Docker sees it.
func (h *Handler) InspectContainer(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	container, err := h.service.InspectContainer(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(container)
}

func (h *Handler) StopContainer(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	if err := h.service.StopContainer(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *Handler) GetContainerLogs(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	follow := c.QueryBool("follow", false)
	logs, err := h.service.GetContainerLogs(c.Context(), id, follow)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "text/plain")
	return c.SendStream(logs)
}
