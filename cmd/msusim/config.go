package main

import (
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/sarchlab/msusim/driver"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [file]",
		Short: "Write the default driver configuration",
		Long: `Writes the default driver configuration to file (YAML for .yaml/.yml,
JSON otherwise), or prints it when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := driver.DefaultConfig()
			if len(args) == 1 {
				return config.SaveConfig(args[0])
			}

			printer := pp.New()
			printer.SetColoringEnabled(false)
			printer.SetOutput(cmd.OutOrStdout())
			_, err := printer.Println(config)
			return err
		},
	}
}
