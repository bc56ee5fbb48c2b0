package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

type rootOptions struct {
	configFile string
	logger     *log.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "portside"}),
	}

	root := &cobra.Command{
		Use:           "portside",
		Short:         "Build and run single-file apps as containers",
		Long:          "Portside turns a dependency manifest and one entry file into a container image, then runs it as a single foreground process on its declared port.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to a portside.yaml config file")

	root.AddCommand(
		newServeCmd(opts),
		newBuildCmd(opts),
		newRunCmd(opts),
		newInspectCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the portside version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("portside " + version)
		},
	}
}
