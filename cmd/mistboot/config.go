package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/minimig/mistboot/pkg/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and write configuration files",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigDefaultCmd(), newConfigSaveCmd())
	return cmd
}

func printRecord(w io.Writer, rec *config.Record) {
	for _, line := range rec.Describe() {
		fmt.Fprintln(w, line)
	}
	for i, hf := range rec.Hardfile {
		name := hf.LongName
		if name == "" {
			name = "(whole card)"
		}
		fmt.Fprintf(w, "Hardfile %d: %s enabled=%t\n", i, name, hf.Enabled)
	}
	fmt.Fprintf(w, "Video:   hires=%d lores=%d scanlines=%d\n", rec.Filter.Hires, rec.Filter.Lores, rec.Scanlines)
}

func openStore() (*config.Store, error) {
	root, err := cardRoot()
	if err != nil {
		return nil, err
	}
	dir := config.NewDirFS(root)
	return config.NewStore(dir, dir, newLogger().Named("config")), nil
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [file]",
		Short: "Show the configuration a boot would use",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}

			state := config.NewState(slot)
			res := store.Load(state, name, config.Overrides{})
			w := cmd.OutOrStdout()
			if res.UsedDefault {
				fmt.Fprintf(w, "Defaults (%v)\n", res.Reason)
			}
			printRecord(w, &res.Record)
			return nil
		},
	}
}

func newConfigDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default",
		Short: "Show the built-in default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := config.Default()
			printRecord(cmd.OutOrStdout(), &rec)
			return nil
		},
	}
}

func newConfigSaveCmd() *cobra.Command {
	var (
		output    string
		kickstart string
		cpu       uint8
		chipset   uint8
		memory    uint8
		drives    uint8
		fast      bool
		ide       bool
		hardfile0 string
		hardfile1 string
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Write the slot configuration, changing the given fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			state := config.NewState(slot)
			store.Load(state, "", config.Overrides{})
			rec := &state.Record

			flags := cmd.Flags()
			if flags.Changed("kickstart") {
				rec.Kickstart = kickstart
			}
			if flags.Changed("cpu") {
				rec.CPU = cpu
			}
			if flags.Changed("chipset") {
				rec.Chipset = chipset
			}
			if flags.Changed("memory") {
				rec.Memory = memory
			}
			if flags.Changed("drives") {
				rec.Floppy.Drives = drives
			}
			if flags.Changed("fast-floppy") {
				rec.Floppy.Speed = config.FloppyNormal
				if fast {
					rec.Floppy.Speed = config.FloppyFast
				}
			}
			if flags.Changed("ide") {
				rec.EnableIDE = ide
			}
			if flags.Changed("hardfile0") {
				rec.Hardfile[0] = config.Hardfile{Enabled: hardfile0 != "-", LongName: trimDash(hardfile0)}
			}
			if flags.Changed("hardfile1") {
				rec.Hardfile[1] = config.Hardfile{Enabled: hardfile1 != "-", LongName: trimDash(hardfile1)}
			}

			if err := store.Save(state, output); err != nil {
				return err
			}
			name := output
			if name == "" {
				name = state.FileName
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", name)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "File to write (defaults to the slot file)")
	f.StringVar(&kickstart, "kickstart", "", "Kickstart image name")
	f.Uint8Var(&cpu, "cpu", 0, "CPU setting (0=68000, 1=68010, 3=68020)")
	f.Uint8Var(&chipset, "chipset", 0, "Chipset bits")
	f.Uint8Var(&memory, "memory", 0, "Memory bits")
	f.Uint8Var(&drives, "drives", 0, "Floppy drive setting (drives minus one)")
	f.BoolVar(&fast, "fast-floppy", true, "Fast floppy")
	f.BoolVar(&ide, "ide", false, "Enable the IDE controller")
	f.StringVar(&hardfile0, "hardfile0", "", "Master hardfile image (empty for the whole card, - to disable)")
	f.StringVar(&hardfile1, "hardfile1", "", "Slave hardfile image (empty for the whole card, - to disable)")
	return cmd
}

func trimDash(name string) string {
	if name == "-" {
		return ""
	}
	return name
}
