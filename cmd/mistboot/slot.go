package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/minimig/mistboot/pkg/config"
)

func newSlotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slot <n>",
		Short: "Show the configuration file used by a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid slot %q: %w", args[0], err)
			}

			state := config.NewState(uint32(n))
			exists := false
			if store, err := openStore(); err == nil {
				exists = store.Exists(state, "")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s exists=%t\n", state.FileName, exists)
			return nil
		},
	}
}
