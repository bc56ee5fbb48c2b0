package main

import (
	"github.com/spf13/cobra"

	"github.com/dkaya/portside/internal/adapters/docker"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "run IMAGE",
		Short: "Start one container from an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dockerAdapter, err := docker.NewAdapter()
			if err != nil {
				return err
			}

			id, err := dockerAdapter.StartContainer(cmd.Context(), args[0], name)
			if err != nil {
				return err
			}

			opts.logger.Info("container started", "id", id, "image", args[0])
			cmd.Println(id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "container name (also the proxy subdomain)")
	return cmd
}
