package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/minimig/mistboot/pkg/config"
	"github.com/minimig/mistboot/pkg/rom"
)

func newPlanCmd() *cobra.Command {
	var keyed bool

	cmd := &cobra.Command{
		Use:   "plan <size|image>",
		Short: "Show how an image of the given size would be uploaded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			size, err := strconv.ParseUint(args[0], 0, 64)
			if err != nil {
				// not a number, look the image up on the card
				root, rerr := cardRoot()
				if rerr != nil {
					return rerr
				}
				info, ierr := rom.Inspect(config.NewDirFS(root), args[0], keyed)
				if ierr != nil {
					return ierr
				}
				fmt.Fprintf(w, "%s: %d bytes, sha256 %s\n", info.Name, info.Size, info.SHA256)
				size = info.Size
			}

			plan, err := rom.ResolvePlan(size, keyed)
			if err != nil {
				fmt.Fprintf(w, "Supported sizes:")
				for _, s := range rom.SupportedSizes() {
					fmt.Fprintf(w, " 0x%X", s)
				}
				fmt.Fprintln(w)
				return err
			}

			fmt.Fprintf(w, "%s (0x%X bytes)\n", plan.Description, plan.Size)
			for _, e := range plan.Entries {
				fmt.Fprintf(w, "  %s\n", e)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&keyed, "keyed", false, "Assume a key file is present")
	return cmd
}
