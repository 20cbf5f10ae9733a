package boot

import (
	"fmt"
	"io"
	"testing"
	"testing/fstest"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimig/mistboot/pkg/bus"
	"github.com/minimig/mistboot/pkg/config"
	merrors "github.com/minimig/mistboot/pkg/errors"
	"github.com/minimig/mistboot/pkg/rom"
)

type recordingConfigurator struct {
	calls []string
}

func (r *recordingConfigurator) ConfigCPU(cpu uint8) {
	r.calls = append(r.calls, fmt.Sprintf("cpu %d", cpu))
}

func (r *recordingConfigurator) ConfigChipset(chipset uint8) {
	r.calls = append(r.calls, fmt.Sprintf("chipset 0x%02x", chipset))
}

func (r *recordingConfigurator) ConfigFloppy(drives uint8, speed config.FloppySpeed) {
	r.calls = append(r.calls, fmt.Sprintf("floppy %d %s", drives, speed))
}

func (r *recordingConfigurator) ConfigMemory(memory uint8) {
	r.calls = append(r.calls, fmt.Sprintf("memory 0x%02x", memory))
}

func (r *recordingConfigurator) ConfigIDE(enabled, master, slave bool) {
	r.calls = append(r.calls, fmt.Sprintf("ide %t %t %t", enabled, master, slave))
}

func (r *recordingConfigurator) ConfigVideo(hires, lores, scanlines uint8) {
	r.calls = append(r.calls, fmt.Sprintf("video %d %d %d", hires, lores, scanlines))
}

// wholeCard opens enabled hardfiles with an empty name
var wholeCard = HardfileOpenerFunc(func(slot int, hf config.Hardfile) bool {
	return hf.Enabled && hf.LongName == ""
})

type harness struct {
	files fstest.MapFS
	rec   *bus.Recorder
	cfg   *recordingConfigurator
	orch  *Orchestrator
	state *config.State
}

func newHarness(t *testing.T, files fstest.MapFS) *harness {
	t.Helper()
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "boot-test",
		Level:  hclog.Debug,
		Output: io.Discard,
	})

	h := &harness{
		files: files,
		rec:   bus.NewRecorder(),
		cfg:   &recordingConfigurator{},
		state: config.NewState(0),
	}
	store := config.NewStore(files, nil, logger)
	uploader := rom.NewUploader(files, bus.New(h.rec), rom.WithLogger(logger))
	h.orch = NewOrchestrator(store, uploader, h.cfg, wholeCard, logger)
	return h
}

func (h *harness) commands(t *testing.T) []bus.Command {
	t.Helper()
	require.False(t, h.rec.Open())
	cmds, err := h.rec.Commands()
	require.NoError(t, err)
	return cmds
}

func resets(cmds []bus.Command) []bus.ResetBits {
	var out []bus.ResetBits
	for _, c := range cmds {
		if c.Op == bus.OpReset {
			out = append(out, c.Reset)
		}
	}
	return out
}

func configFile(t *testing.T, kickstart string) *fstest.MapFile {
	t.Helper()
	rec := config.Default()
	rec.Kickstart = kickstart
	rec.CPU = 3
	rec.Chipset = config.ChipsetAGA
	rec.Memory = 0x02
	rec.Filter = config.Filter{Lores: 1, Hires: 2}
	rec.Scanlines = 1
	return &fstest.MapFile{Data: rec.Pack()}
}

func TestBootWithoutConfiguration(t *testing.T) {
	h := newHarness(t, fstest.MapFS{
		"KICK.ROM": {Data: make([]byte, 0x100000)},
	})

	res, report, err := h.orch.Boot(h.state, "", config.Overrides{})
	require.NoError(t, err)

	assert.True(t, res.UsedDefault)
	assert.True(t, res.ReloadKickstart)
	assert.ErrorIs(t, res.Reason, merrors.ErrConfigAbsent)
	want := config.Default()
	want.Hardfile[1].Present = true
	assert.Equal(t, want, h.state.Record)

	assert.True(t, report.Reloaded)
	assert.Equal(t, "KICK.ROM", report.Kickstart)
	assert.False(t, report.UsedFallback)
	assert.False(t, report.ActionReplay)
	assert.False(t, report.Master)
	assert.True(t, report.Slave)

	cmds := h.commands(t)
	require.Len(t, cmds, 1+2048+2)
	assert.Equal(t, bus.ResetCPU|bus.HaltCPU, cmds[0].Reset)
	for i, c := range cmds[1:2049] {
		base := uint32(rom.AddrExtendedROM)
		if i >= 1024 {
			base = rom.AddrKickstart
		}
		require.Equal(t, byte(bus.OpWriteMemory), c.Op)
		assert.Equal(t, base+uint32(i%1024)*rom.ChunkSize, c.Address)
	}
	assert.Equal(t, []bus.ResetBits{
		bus.ResetCPU | bus.HaltCPU,
		bus.ResetUser | bus.ResetCPU | bus.HaltCPU,
		0,
	}, resets(cmds))
	assert.Equal(t, uint8(0), h.state.ResetBits)

	assert.Equal(t, []string{
		"cpu 0",
		"ide false false true",
		"memory 0x15",
		"cpu 0",
		"chipset 0x00",
		"floppy 1 fast",
		"video 0 0 0",
	}, h.cfg.calls)
}

func TestBootWithoutReload(t *testing.T) {
	h := newHarness(t, fstest.MapFS{
		"MINIMIG.CFG": configFile(t, "KICK.ROM"),
		"KICK.ROM":    {Data: make([]byte, 0x40000)},
	})

	// the first boot always uploads
	_, report, err := h.orch.Boot(h.state, "", config.Overrides{})
	require.NoError(t, err)
	require.True(t, report.Reloaded)

	h.rec.Reset()
	h.cfg.calls = nil

	res, report, err := h.orch.Boot(h.state, "", config.Overrides{})
	require.NoError(t, err)
	assert.False(t, res.UsedDefault)
	assert.False(t, res.ReloadKickstart)
	assert.False(t, report.Reloaded)

	cmds := h.commands(t)
	assert.Equal(t, []bus.ResetBits{bus.ResetUser | bus.ResetCPU, 0}, resets(cmds))
	assert.Len(t, cmds, 2)

	assert.Equal(t, []string{
		"cpu 3",
		"chipset 0x10",
		"floppy 1 fast",
		"ide false false true",
		"memory 0x02",
		"cpu 3",
		"chipset 0x10",
		"floppy 1 fast",
		"video 2 1 1",
	}, h.cfg.calls)
}

func TestBootKickstartChanged(t *testing.T) {
	files := fstest.MapFS{
		"MINIMIG.CFG":  configFile(t, "KICK.ROM"),
		"MINIMIG1.CFG": configFile(t, "KICK13.ROM"),
		"KICK.ROM":     {Data: make([]byte, 0x80000)},
		"KICK13.ROM":   {Data: make([]byte, 0x40000)},
	}
	h := newHarness(t, files)

	_, _, err := h.orch.Boot(h.state, "", config.Overrides{})
	require.NoError(t, err)

	h.rec.Reset()
	h.state.SetSlot(1)
	res, report, err := h.orch.Boot(h.state, "", config.Overrides{})
	require.NoError(t, err)
	assert.True(t, res.ReloadKickstart)
	assert.Equal(t, "KICK13.ROM", report.Kickstart)
	assert.Len(t, h.commands(t), 1+1024+2)
}

func TestApplyFallbackKickstart(t *testing.T) {
	tests := []struct {
		name  string
		files fstest.MapFS
	}{
		{"missing image", fstest.MapFS{}},
		{"unsupported size", fstest.MapFS{"BROKEN.ROM": {Data: make([]byte, 1000)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.files["MINIMIG.CFG"] = configFile(t, "BROKEN.ROM")
			tt.files["KICK.ROM"] = &fstest.MapFile{Data: make([]byte, 0x40000)}
			h := newHarness(t, tt.files)

			_, report, err := h.orch.Boot(h.state, "", config.Overrides{})
			require.NoError(t, err)
			assert.True(t, report.UsedFallback)
			assert.Equal(t, "KICK.ROM", report.Kickstart)
			assert.Equal(t, "KICK.ROM", h.state.Kickstart)
			assert.Equal(t, "BROKEN.ROM", h.state.Record.Kickstart, "record keeps the configured name")

			cmds := h.commands(t)
			require.Len(t, cmds, 1+1024+2)
			assert.Equal(t, uint32(rom.AddrKickstart), cmds[1].Address)

			// the same config again still wants its own image
			h.rec.Reset()
			res, report, err := h.orch.Boot(h.state, "", config.Overrides{})
			require.NoError(t, err)
			assert.True(t, res.ReloadKickstart)
			assert.True(t, report.UsedFallback)
			assert.Equal(t, "KICK.ROM", h.state.Kickstart)
		})
	}
}

func TestApplyFatalWithoutKickstart(t *testing.T) {
	h := newHarness(t, fstest.MapFS{})

	_, report, err := h.orch.Boot(h.state, "", config.Overrides{})
	require.Error(t, err)
	assert.True(t, merrors.IsFatal(err))
	assert.ErrorIs(t, err, merrors.ErrImageFileAbsent)

	var fe *merrors.FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, merrors.FatalCodeKickstart, fe.Code)
	assert.True(t, report.UsedFallback)

	// the CPU is left halted and nothing else is configured
	assert.Equal(t, []bus.ResetBits{bus.ResetCPU | bus.HaltCPU}, resets(h.commands(t)))
	assert.Equal(t, uint8(bus.ResetCPU|bus.HaltCPU), h.state.ResetBits)
	assert.Equal(t, []string{"cpu 0", "ide false false true"}, h.cfg.calls)
}

func TestApplyUploadsMonitorBeforeHalt(t *testing.T) {
	h := newHarness(t, fstest.MapFS{
		"KICK.ROM":   {Data: make([]byte, 0x40000)},
		"HRTMON.ROM": {Data: make([]byte, 1024)},
	})

	_, report, err := h.orch.Boot(h.state, "", config.Overrides{})
	require.NoError(t, err)
	assert.True(t, report.ActionReplay)

	cmds := h.commands(t)
	require.Len(t, cmds, 4+1+1024+2)
	assert.Equal(t, uint32(rom.AddrActionReplay), cmds[0].Address)
	assert.Equal(t, uint32(rom.AddrActionReplay+68), cmds[3].Address)
	assert.Equal(t, byte(bus.OpReset), cmds[4].Op)
	assert.Equal(t, bus.ResetCPU|bus.HaltCPU, cmds[4].Reset)
}

func TestApplyIDEFromHardfiles(t *testing.T) {
	h := newHarness(t, fstest.MapFS{})
	h.state.Record = config.Default()
	h.state.Record.EnableIDE = true
	h.state.Record.Hardfile[0] = config.Hardfile{Enabled: true, LongName: "WB.HDF"}
	h.state.Record.Hardfile[1] = config.Hardfile{Enabled: false}

	opened := map[int]bool{}
	h.orch.hardfiles = HardfileOpenerFunc(func(slot int, hf config.Hardfile) bool {
		opened[slot] = true
		return true
	})

	report, err := h.orch.Apply(h.state, false)
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{0: true, 1: true}, opened)
	assert.True(t, report.Master)
	assert.False(t, report.Slave, "present but disabled")
	assert.True(t, h.state.Record.Hardfile[1].Present)
	assert.Contains(t, h.cfg.calls, "ide true true false")
}

func TestBootOverrides(t *testing.T) {
	h := newHarness(t, fstest.MapFS{"KICK.ROM": {Data: make([]byte, 0x40000)}})

	_, _, err := h.orch.Boot(h.state, "", config.Overrides{ForceNTSC: true})
	require.NoError(t, err)
	assert.True(t, h.state.Record.NTSC())
	assert.Contains(t, h.cfg.calls, fmt.Sprintf("chipset 0x%02x", config.ChipsetNTSC))
}
