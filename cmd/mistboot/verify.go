package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minimig/mistboot/pkg"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that the card would boot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := cardRoot()
			if err != nil {
				return err
			}

			report, err := pkg.VerifyCardWithLogger(root, slot, newLogger())
			if report == nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Configuration: %s", report.ConfigName)
			if report.Load.UsedDefault {
				fmt.Fprintf(w, " (defaults: %v)", report.Load.Reason)
			}
			fmt.Fprintln(w)
			if info := report.Bootable(); info != nil {
				fmt.Fprintf(w, "Kickstart:     %s, %s, sha256:%s\n", info.Name, info.Plan.Description, info.SHA256)
				if report.Current {
					fmt.Fprintln(w, "               unchanged since the last boot")
				}
			}
			if report.Monitor != nil {
				fmt.Fprintf(w, "Monitor:       %s, %d bytes\n", report.Monitor.Name, report.Monitor.Size)
			}
			for _, p := range report.Problems {
				fmt.Fprintf(w, "✗ %s\n", p)
			}
			if report.OK() {
				fmt.Fprintln(w, "✓ Card verification passed")
			}
			return err
		},
	}
}
