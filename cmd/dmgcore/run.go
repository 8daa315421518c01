package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dmgcore/pkg/system"
)

var runCmd = &cobra.Command{
	Use:   "run <rom>",
	Short: "Run the core headlessly for a fixed number of frames and report cycle counts",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

var runFrames int

func init() {
	runCmd.Flags().IntVar(&runFrames, "frames", 60, "number of frames to run before exiting")
	addBootFlags(runCmd.Flags())
}

func runRun(cmd *cobra.Command, args []string) error {
	bootROM, _ := cmd.Flags().GetString("boot-rom")
	sys, err := bootFromArgs(args[0], bootROM, func(any, uint8) {}, nil)
	if err != nil {
		return err
	}

	for i := 0; i < runFrames; i++ {
		system.RunFrame(sys)
	}

	fmt.Printf("Ran %d frames, %d T-cycles\n", runFrames, sys.TCycles)
	return nil
}
