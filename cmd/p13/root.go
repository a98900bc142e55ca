package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newRootCmd(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "p13",
		Short: "Resolve front-controller URLs and serve p13 applications",
		Long: `p13 maps request URLs onto install subdirectories, modules, controllers,
methods and arguments, probing the document root the way a front
controller installed under it would.`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}

	cmd.AddCommand(newResolveCmd(fs), newServeCmd())
	return cmd
}
