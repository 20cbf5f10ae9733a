package boot

import (
	"github.com/hashicorp/go-hclog"

	"github.com/minimig/mistboot/pkg/config"
)

// Configurator pushes record values into the core's registers
type Configurator interface {
	ConfigCPU(cpu uint8)
	ConfigChipset(chipset uint8)
	ConfigFloppy(drives uint8, speed config.FloppySpeed)
	ConfigMemory(memory uint8)
	ConfigIDE(enabled, master, slave bool)
	ConfigVideo(hires, lores, scanlines uint8)
}

// HardfileOpener reports whether a hardfile slot could be opened
type HardfileOpener interface {
	OpenHardfile(slot int, hf config.Hardfile) bool
}

// HardfileOpenerFunc adapts a function to HardfileOpener
type HardfileOpenerFunc func(slot int, hf config.Hardfile) bool

// OpenHardfile implements HardfileOpener
func (f HardfileOpenerFunc) OpenHardfile(slot int, hf config.Hardfile) bool {
	return f(slot, hf)
}

// NoHardfiles opens nothing
var NoHardfiles = HardfileOpenerFunc(func(int, config.Hardfile) bool { return false })

// LogConfigurator logs every value it is given. It stands in for the
// register encoders when no core is attached.
type LogConfigurator struct {
	Logger hclog.Logger
}

func (c *LogConfigurator) log() hclog.Logger {
	if c.Logger == nil {
		return hclog.NewNullLogger()
	}
	return c.Logger
}

func (c *LogConfigurator) ConfigCPU(cpu uint8) {
	c.log().Info("⚙️ CPU", "cpu", cpu)
}

func (c *LogConfigurator) ConfigChipset(chipset uint8) {
	c.log().Info("⚙️ Chipset", "chipset", chipset)
}

func (c *LogConfigurator) ConfigFloppy(drives uint8, speed config.FloppySpeed) {
	c.log().Info("⚙️ Floppy", "drives", drives+1, "speed", speed.String())
}

func (c *LogConfigurator) ConfigMemory(memory uint8) {
	c.log().Info("⚙️ Memory", "memory", memory)
}

func (c *LogConfigurator) ConfigIDE(enabled, master, slave bool) {
	c.log().Info("⚙️ IDE", "enabled", enabled, "master", master, "slave", slave)
}

func (c *LogConfigurator) ConfigVideo(hires, lores, scanlines uint8) {
	c.log().Info("⚙️ Video", "hires", hires, "lores", lores, "scanlines", scanlines)
}
