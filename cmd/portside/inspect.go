package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/dkaya/portside/internal/adapters/docker"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ID",
		Short: "Show a container's state, IP, and declared port",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dockerAdapter, err := docker.NewAdapter()
			if err != nil {
				return err
			}

			container, err := dockerAdapter.InspectContainer(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(container)
		},
	}
}
