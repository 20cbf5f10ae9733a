package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minimig/mistboot/pkg/bus"
	"github.com/minimig/mistboot/pkg/config"
	"github.com/minimig/mistboot/pkg/rom"
)

func newUploadCmd() *cobra.Command {
	var (
		monitor   bool
		keyFile   string
		transport transportFlags
	)

	cmd := &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload one kickstart image without applying a configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			root, err := cardRoot()
			if err != nil {
				return err
			}

			target, err := transport.open(logger)
			if err != nil {
				return err
			}
			defer target.Close()

			out := cmd.ErrOrStderr()
			b := bus.New(target)
			u := rom.NewUploader(config.NewDirFS(root), b,
				rom.WithLogger(logger.Named("rom")),
				rom.WithKeyFile(keyFile),
				rom.WithProgressCallback(func(rom.Progress) { fmt.Fprint(out, "*") }),
			)

			if monitor {
				rec := config.Default()
				if err := u.UploadActionReplay(&rec); err != nil {
					return err
				}
			}
			if err := u.UploadKickstart(args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nUploaded %s: %d frame(s) to %s\n", args[0], b.Frames(), target.Describe)
			return nil
		},
	}

	cmd.Flags().BoolVar(&monitor, "monitor", false, "Upload HRTMON.ROM first")
	cmd.Flags().StringVar(&keyFile, "key-file", "", "Kickstart key file (defaults to ROM.KEY)")
	transport.register(cmd)
	return cmd
}
