package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "msusim",
		Short: "Co-simulation driver for a modular squaring unit",
		Long: `msusim clocks a cycle-level model of a modular squaring unit, streams
squaring jobs into it over a ready/valid bus and reads the results back.
A watchdog aborts the run if the device stops making handshake progress.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newConfigCmd())
	return root
}
