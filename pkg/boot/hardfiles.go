package boot

import (
	"io/fs"

	"github.com/hashicorp/go-hclog"

	"github.com/minimig/mistboot/pkg/config"
)

// CardHardfiles opens hardfiles on the card. An enabled slot with an empty
// name exposes the whole card and is always present; a named slot is
// present when its image exists.
type CardHardfiles struct {
	fsys   fs.FS
	logger hclog.Logger
}

// NewCardHardfiles creates an opener over fsys
func NewCardHardfiles(fsys fs.FS, logger hclog.Logger) *CardHardfiles {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &CardHardfiles{fsys: fsys, logger: logger}
}

// OpenHardfile implements HardfileOpener
func (c *CardHardfiles) OpenHardfile(slot int, hf config.Hardfile) bool {
	if !hf.Enabled {
		return false
	}
	if hf.LongName == "" {
		c.logger.Debug("💽 Hardfile is the whole card", "slot", slot)
		return true
	}

	info, err := fs.Stat(c.fsys, hf.LongName)
	if err != nil {
		c.logger.Warn("⚠️ Hardfile not found", "slot", slot, "name", hf.LongName)
		return false
	}
	c.logger.Debug("💽 Hardfile", "slot", slot, "name", hf.LongName, "size_mb", info.Size()>>20)
	return !info.IsDir()
}
