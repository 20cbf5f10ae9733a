package config

// State is the runtime configuration state. One State is created at boot and
// passed explicitly to the store and the orchestrator for the lifetime of
// the process.
type State struct {
	// Record is the active configuration
	Record Record

	// FileName is the slot-derived configuration file name
	FileName string

	// HasRecord is false until the first Load
	HasRecord bool

	// ResetBits is the last byte written with RESET-CONTROL
	ResetBits uint8

	// Kickstart is the name of the image most recently uploaded
	Kickstart string
}

// NewState creates the runtime state for a configuration slot
func NewState(slot uint32) *State {
	return &State{FileName: SlotFileName(slot)}
}

// SetSlot switches the slot used when no explicit file name is given
func (s *State) SetSlot(slot uint32) {
	s.FileName = SlotFileName(slot)
}

// resolve picks the explicit name if given, the slot file name otherwise
func (s *State) resolve(name string) string {
	if name != "" {
		return name
	}
	if s.FileName == "" {
		return DefaultConfigName
	}
	return s.FileName
}

// Snapshot returns a copy of the active record
func (s *State) Snapshot() Record {
	return s.Record
}

// SetHardfilePresent records the opener's verdict for a hardfile slot
func (s *State) SetHardfilePresent(slot int, present bool) {
	if slot >= 0 && slot < HardfileCount {
		s.Record.Hardfile[slot].Present = present
	}
}
