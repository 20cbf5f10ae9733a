package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/minimig/mistboot/pkg"
	"github.com/minimig/mistboot/pkg/boot"
	"github.com/minimig/mistboot/pkg/config"
	merrors "github.com/minimig/mistboot/pkg/errors"
	"github.com/minimig/mistboot/pkg/rom"
)

func newBootCmd() *cobra.Command {
	var (
		configName string
		forceNTSC  bool
		forcePAL   bool
		keyWait    time.Duration
		keyFile    string
		transport  transportFlags
	)

	cmd := &cobra.Command{
		Use:   "boot",
		Short: "Load the configuration and apply it to the core",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			root, err := cardRoot()
			if err != nil {
				return err
			}

			ov := config.Overrides{ForceNTSC: forceNTSC, ForcePAL: forcePAL}
			if keyWait > 0 {
				key := readOverrides(keyWait, logger)
				ov.ForceNTSC = ov.ForceNTSC || key.ForceNTSC
				ov.ForcePAL = ov.ForcePAL || key.ForcePAL
			}

			target, err := transport.open(logger)
			if err != nil {
				return err
			}
			defer target.Close()

			out := cmd.ErrOrStderr()
			result, err := pkg.BootCard(root, pkg.BootOptions{
				Slot:         slot,
				ConfigName:   configName,
				Overrides:    ov,
				Transport:    target,
				Configurator: &boot.LogConfigurator{Logger: logger.Named("core")},
				Progress:     func(rom.Progress) { fmt.Fprint(out, "*") },
				KeyFile:      keyFile,
				Logger:       logger,
			})
			if err != nil {
				if merrors.IsFatal(err) {
					logger.Error("🛑 Boot halted", "error", err)
				}
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w)
			for _, line := range result.State.Record.Describe() {
				fmt.Fprintln(w, line)
			}
			if result.Load.UsedDefault {
				fmt.Fprintf(w, "Defaults used: %v\n", result.Load.Reason)
			}
			if result.Report.Reloaded {
				fmt.Fprintf(w, "Kickstart uploaded: %s", result.Report.Kickstart)
				if result.Report.UsedFallback {
					fmt.Fprint(w, " (fallback)")
				}
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "Bus: %s, %d frame(s)\n", target.Describe, result.Frames)
			return nil
		},
	}

	cmd.Flags().StringVar(&configName, "config", "", "Configuration file (defaults to the slot file)")
	cmd.Flags().BoolVar(&forceNTSC, "ntsc", false, "Force NTSC video")
	cmd.Flags().BoolVar(&forcePAL, "pal", false, "Force PAL video (wins over --ntsc)")
	cmd.Flags().DurationVar(&keyWait, "key-wait", 0, "Wait this long for n (NTSC) or p (PAL) on the terminal")
	cmd.Flags().StringVar(&keyFile, "key-file", "", "Kickstart key file (defaults to ROM.KEY)")
	transport.register(cmd)
	return cmd
}
