package rom

import (
	"encoding/binary"
	"fmt"

	"github.com/minimig/mistboot/pkg/config"
)

// Monitor option block offsets relative to AddrActionReplay
const (
	monitorConfigOffset  = 20
	monitorMaxChipOffset = 68

	monitorSize = 0x00800000
)

// MonitorConfig is the option block the HRTmon image reads at start-up.
// Multi-byte values are big-endian for the 68k side.
type MonitorConfig struct {
	MonSize    uint32
	Col0H      uint8
	Col0L      uint8
	Col1H      uint8
	Col1L      uint8
	Right      bool
	Keyboard   uint8
	Key        uint8
	IDE        bool
	A1200      bool
	AGA        bool
	Insert     bool
	Delay      uint8
	LView      bool
	CD32       bool
	ScreenMode uint8
	NoVBR      bool
	Entered    bool
	HexMode    bool
}

// NewMonitorConfig derives the option block from the active record
func NewMonitorConfig(rec *config.Record) MonitorConfig {
	mc := MonitorConfig{
		MonSize: monitorSize,
		Col0H:   0x00,
		Col0L:   0x5a,
		Col1H:   0x0f,
		Col1L:   0xff,
		Right:   true,
		Key:     1,
		IDE:     rec.EnableIDE,
		A1200:   true,
		AGA:     rec.Chipset&config.ChipsetAGA != 0,
		Insert:  true,
		Delay:   0x0f,
		LView:   true,
		NoVBR:   true,
		HexMode: true,
	}
	if rec.NTSC() {
		mc.ScreenMode = 1
	}
	return mc
}

// Pack encodes the block in target order
func (mc MonitorConfig) Pack() []byte {
	b := make([]byte, 4, 22)
	binary.BigEndian.PutUint32(b, mc.MonSize)
	return append(b,
		mc.Col0H, mc.Col0L, mc.Col1H, mc.Col1L,
		flag(mc.Right), mc.Keyboard, mc.Key, flag(mc.IDE),
		flag(mc.A1200), flag(mc.AGA), flag(mc.Insert), mc.Delay,
		flag(mc.LView), flag(mc.CD32), mc.ScreenMode, flag(mc.NoVBR),
		flag(mc.Entered), flag(mc.HexMode),
	)
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// maxChip is the chip RAM size the monitor is told about
func maxChip(rec *config.Record) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, rec.ChipRAMBytes())
	return b
}

// UploadActionReplay uploads the monitor image and its option block. A
// missing image returns ErrImageFileAbsent without touching the bus.
func (u *Uploader) UploadActionReplay(rec *config.Record) error {
	f, size, err := u.openImage(ActionReplayName)
	if err != nil {
		u.logger.Info("ℹ️ No monitor image", "file", ActionReplayName)
		return err
	}
	defer f.Close()

	plan := monitorPlan(size)
	u.logger.Info("📤 Uploading HRTmon ROM", "size", size, "chunks", plan.Chunks())
	if err := Transfer(u.bus, f, plan.Entries[0], nil, u.progress); err != nil {
		return fmt.Errorf("upload %s: %w", ActionReplayName, err)
	}

	if err := u.bus.WriteMemory(AddrActionReplay+monitorConfigOffset, NewMonitorConfig(rec).Pack()); err != nil {
		return fmt.Errorf("write monitor config: %w", err)
	}
	if err := u.bus.WriteMemory(AddrActionReplay+monitorMaxChipOffset, maxChip(rec)); err != nil {
		return fmt.Errorf("write monitor maxchip: %w", err)
	}
	return nil
}
