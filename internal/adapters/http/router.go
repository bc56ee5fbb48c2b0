package http

import "github.com/gofiber/fiber/v2"

// RegisterRoutes wires the API surface onto a fiber app.
func RegisterRoutes(app *fiber.App, h *Handler) {
	app.Get("/healthz", h.Health)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	v1.Post("/builds", h.Build)

	containers := v1.Group("/containers")
	containers.Get("/", h.ListContainers)
	containers.Post("/", h.StartContainer)
	containers.Get("/:id", h.InspectContainer)
	containers.Delete("/:id", h.StopContainer)
	containers.Get("/:id/logs", h.GetContainerLogs)
}
