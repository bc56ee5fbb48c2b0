package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/dkaya/portside/internal/adapters/builder"
	"github.com/dkaya/portside/internal/config"
	"github.com/dkaya/portside/internal/core/domain"
)

func newBuildCmd(opts *rootOptions) *cobra.Command {
	var (
		repoURL     string
		tag         string
		baseImage   string
		entryFile   string
		interpreter string
		port        int
	)

	cmd := &cobra.Command{
		Use:   "build [source-dir]",
		Short: "Build an image from a manifest and entry file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}

			bp := cfg.Build.Blueprint()
			if baseImage != "" {
				bp.BaseImage = baseImage
			}
			if entryFile != "" {
				bp.EntryFile = entryFile
			}
			if interpreter != "" {
				bp.Interpreter = interpreter
			}
			if port != 0 {
				bp.Port = port
			}

			req := domain.BuildRequest{
				RepoURL:   repoURL,
				Tag:       tag,
				Blueprint: bp,
			}
			if repoURL == "" {
				req.SourceDir = "."
				if len(args) == 1 {
					req.SourceDir = args[0]
				}
			}

			builderAdapter, err := builder.NewAdapter()
			if err != nil {
				return err
			}
			builderAdapter.Progress = os.Stderr

			result, err := builderAdapter.Build(cmd.Context(), req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&repoURL, "repo", "", "build from a git repository instead of a local directory")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "image tag (generated when empty)")
	cmd.Flags().StringVar(&baseImage, "base-image", "", "override the base runtime image")
	cmd.Flags().StringVar(&entryFile, "entry", "", "override the entry file name")
	cmd.Flags().StringVar(&interpreter, "interpreter", "", "override the launch interpreter")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "override the declared port")
	return cmd
}
