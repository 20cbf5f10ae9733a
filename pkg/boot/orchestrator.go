// Package boot applies a loaded configuration to the core. It reloads the
// kickstart when needed, holding the CPU in reset while ROM memory is
// rewritten, and pushes every configuration value to the core.
package boot

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/minimig/mistboot/pkg/bus"
	"github.com/minimig/mistboot/pkg/config"
	merrors "github.com/minimig/mistboot/pkg/errors"
	"github.com/minimig/mistboot/pkg/rom"
)

// ApplyReport summarizes one Apply call
type ApplyReport struct {
	Reloaded     bool
	Kickstart    string
	UsedFallback bool
	ActionReplay bool
	Master       bool
	Slave        bool
}

// Orchestrator sequences configuration and kickstart uploads
type Orchestrator struct {
	store        *config.Store
	uploader     *rom.Uploader
	configurator Configurator
	hardfiles    HardfileOpener
	logger       hclog.Logger
}

// NewOrchestrator wires the boot collaborators together
func NewOrchestrator(store *config.Store, uploader *rom.Uploader, configurator Configurator, hardfiles HardfileOpener, logger hclog.Logger) *Orchestrator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if hardfiles == nil {
		hardfiles = NoHardfiles
	}
	if configurator == nil {
		configurator = &LogConfigurator{Logger: logger}
	}
	return &Orchestrator{
		store:        store,
		uploader:     uploader,
		configurator: configurator,
		hardfiles:    hardfiles,
		logger:       logger,
	}
}

// Boot loads the configuration named by name (the slot file when empty)
// and applies it.
func (o *Orchestrator) Boot(state *config.State, name string, ov config.Overrides) (config.LoadResult, *ApplyReport, error) {
	res := o.store.Load(state, name, ov)
	report, err := o.Apply(state, res.ReloadKickstart)
	return res, report, err
}

// Apply pushes the active record of state to the core. With reload set the
// monitor and kickstart images are uploaded while the CPU is halted. A
// failed kickstart upload is retried once with the fallback image; when
// that fails too, a *errors.FatalError is returned and the CPU stays halted.
func (o *Orchestrator) Apply(state *config.State, reload bool) (*ApplyReport, error) {
	rec := &state.Record
	cfg := o.configurator
	report := &ApplyReport{Reloaded: reload}

	cfg.ConfigCPU(rec.CPU)
	if !reload {
		cfg.ConfigChipset(rec.Chipset)
		cfg.ConfigFloppy(rec.Floppy.Drives, rec.Floppy.Speed)
	}

	for slot := 0; slot < config.HardfileCount; slot++ {
		present := o.hardfiles.OpenHardfile(slot, rec.Hardfile[slot])
		state.SetHardfilePresent(slot, present)
		if present {
			o.logger.Info("💽 Hardfile opened", "slot", slot, "name", rec.Hardfile[slot].LongName)
		}
	}
	report.Master = rec.Hardfile[0].Present && rec.Hardfile[0].Enabled
	report.Slave = rec.Hardfile[1].Present && rec.Hardfile[1].Enabled
	cfg.ConfigIDE(rec.EnableIDE, report.Master, report.Slave)

	for _, line := range rec.Describe()[3:] {
		o.logger.Info(line)
	}

	if reload {
		if err := o.reloadKickstart(state, report); err != nil {
			return report, err
		}
	} else {
		o.logger.Info("🔄 Resetting")
		if err := o.release(state); err != nil {
			return report, err
		}
	}

	cfg.ConfigMemory(rec.Memory)
	cfg.ConfigCPU(rec.CPU)
	cfg.ConfigChipset(rec.Chipset)
	cfg.ConfigFloppy(rec.Floppy.Drives, rec.Floppy.Speed)
	cfg.ConfigVideo(rec.Filter.Hires, rec.Filter.Lores, rec.Scanlines)

	o.logger.Info("🚀 Exiting bootloader", "kickstart", state.Kickstart, "reloaded", reload)
	return report, nil
}

func (o *Orchestrator) reloadKickstart(state *config.State, report *ApplyReport) error {
	rec := &state.Record

	if err := o.uploader.UploadActionReplay(rec); err == nil {
		report.ActionReplay = true
	} else if !errors.Is(err, merrors.ErrImageFileAbsent) {
		o.logger.Warn("⚠️ Monitor upload failed", "error", err)
	}

	o.logger.Info("🔄 Reloading kickstart", "file", rec.Kickstart)
	if err := o.resetControl(state, state.ResetBits|uint8(bus.ResetCPU|bus.HaltCPU)); err != nil {
		return err
	}

	name := rec.Kickstart
	err := o.uploader.UploadKickstart(name)
	if err != nil {
		name = o.uploader.FallbackName()
		o.logger.Warn("⚠️ Kickstart upload failed, trying fallback", "error", err, "fallback", name)
		report.UsedFallback = true
		if ferr := o.uploader.UploadKickstart(name); ferr != nil {
			o.logger.Error("❌ No usable kickstart", "error", ferr)
			return &merrors.FatalError{
				Code: merrors.FatalCodeKickstart,
				Err:  errors.Join(err, ferr),
			}
		}
	}
	state.Kickstart = name
	report.Kickstart = name

	return o.release(state)
}

// release lets the CPU run again in two steps: user and CPU reset first,
// then everything cleared.
func (o *Orchestrator) release(state *config.State) error {
	if err := o.resetControl(state, state.ResetBits|uint8(bus.ResetUser|bus.ResetCPU)); err != nil {
		return err
	}
	return o.resetControl(state, 0)
}

func (o *Orchestrator) resetControl(state *config.State, bits uint8) error {
	state.ResetBits = bits
	o.logger.Debug("🔧 Reset control", "bits", bus.ResetBits(bits).String())
	if err := o.uploader.Bus().ResetControl(bus.ResetBits(bits)); err != nil {
		return fmt.Errorf("reset control 0x%02x: %w", bits, err)
	}
	return nil
}
