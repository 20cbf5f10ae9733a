package config

// Default returns the built-in record used whenever no valid configuration
// file is found.
func Default() Record {
	r := Record{
		Kickstart: DefaultKickstartName,
		Memory:    DefaultMemory,
		CPU:       0,
		Chipset:   0,
		Floppy: Floppy{
			Speed:  FloppyFast,
			Drives: 1,
		},
		EnableIDE: false,
	}
	copy(r.Magic[:], Magic)

	// Hardfile names are set and then cleared again; only the enable
	// flags survive. Hardfile 1 with an empty name exposes the whole card.
	r.Hardfile[0].LongName = defaultHardfile0Name
	r.Hardfile[0].LongName = ""
	r.Hardfile[0].Enabled = false
	r.Hardfile[1].LongName = defaultHardfile1Name
	r.Hardfile[1].LongName = ""
	r.Hardfile[1].Enabled = true

	return r
}
