package main

import (
	"github.com/spf13/cobra"

	"dmgcore/pkg/debugger"
)

var debugCmd = &cobra.Command{
	Use:   "debug <rom>",
	Short: "Launch an interactive single-step TUI over the core",
	Args:  cobra.ExactArgs(1),
	RunE:  runDebug,
}

func init() {
	addBootFlags(debugCmd.Flags())
}

func runDebug(cmd *cobra.Command, args []string) error {
	bootROM, _ := cmd.Flags().GetString("boot-rom")
	sys, err := bootFromArgs(args[0], bootROM, func(any, uint8) {}, nil)
	if err != nil {
		return err
	}
	return debugger.Run(sys)
}
