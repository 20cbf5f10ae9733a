package config

import "fmt"

// SlotFileName returns the configuration file name for a slot: slot 0 is
// MINIMIG.CFG, slot n is MINIMIGn.CFG.
func SlotFileName(slot uint32) string {
	if slot == 0 {
		return DefaultConfigName
	}
	return fmt.Sprintf("MINIMIG%d.CFG", slot)
}
