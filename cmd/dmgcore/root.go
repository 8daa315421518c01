package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"dmgcore/pkg/cartridge"
	"dmgcore/pkg/system"
)

var rootCmd = &cobra.Command{
	Use:   "dmgcore",
	Short: "A cycle-accurate Game Boy core: CPU, MMU, PPU, and OAM DMA.",
}

func init() {
	rootCmd.AddCommand(runCmd, displayCmd, debugCmd)
}

// addBootFlags registers the --boot-rom flag shared by every subcommand
// that boots a system, grounded on oisee/z80-optimizer's per-command flag
// set shape (cmd.Flags().StringVar/IntVar per subcommand rather than one
// global flag set).
func addBootFlags(flags *pflag.FlagSet) *string {
	return flags.String("boot-rom", "", "path to a 256-byte boot ROM image (omit to bypass the boot trampoline)")
}

// bootFromArgs loads the cartridge at romPath and the optional boot ROM at
// bootROMPath, then boots a fresh system.System around them. pixelFn and
// userData are forwarded straight to pkg/ppu's BootPPU.
func bootFromArgs(romPath, bootROMPath string, pixelFn func(userData any, color uint8), userData any) (*system.System, error) {
	cart, err := cartridge.LoadFromFile(romPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load cartridge: %w", err)
	}

	var bootROM []byte
	initPC := uint16(0x0100) // the cartridge's own entry point, boot trampoline bypassed
	if bootROMPath != "" {
		bootROM, err = os.ReadFile(bootROMPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load boot ROM: %w", err)
		}
		initPC = 0x0000 // start of the boot trampoline itself
	}

	sys := system.New()
	system.Boot(sys, cart, bootROM, 0xFFFE, initPC, pixelFn, userData)
	fmt.Printf("Loaded %q (cartridge type 0x%02X)\n", cart.Title, cart.CartType())
	return sys, nil
}
