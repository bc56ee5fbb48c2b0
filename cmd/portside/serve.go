package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/dkaya/portside/internal/adapters/builder"
	"github.com/dkaya/portside/internal/adapters/docker"
	httpadapter "github.com/dkaya/portside/internal/adapters/http"
	"github.com/dkaya/portside/internal/config"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the portside API and app proxy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}

			// 1. Initialize Adapters (Infrastructure)
			dockerAdapter, err := docker.NewAdapter()
			if err != nil {
				return err
			}
			builderAdapter, err := builder.NewAdapter()
			if err != nil {
				return err
			}

			// 2. Initialize HTTP Handlers (Interface Adapters)
			handler := httpadapter.NewHandler(dockerAdapter, builderAdapter, cfg.Build.Blueprint())
			proxy := httpadapter.NewProxyHandler(dockerAdapter)

			// 3. Setup Framework (Fiber)
			app := fiber.New(fiber.Config{DisableStartupMessage: true})

			// Subdomain traffic goes to the apps, everything else to the API.
			app.Use(proxy.ProxyRequest)
			httpadapter.RegisterRoutes(app, handler)

			opts.logger.Info("server starting", "listen", cfg.Listen, "proxy_domain", cfg.ProxyDomain)
			return app.Listen(cfg.Listen)
		},
	}
}
