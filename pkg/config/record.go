package config

import (
	"bytes"
	"fmt"
	"strings"

	merrors "github.com/minimig/mistboot/pkg/errors"
)

// FloppySpeed selects the emulated floppy transfer rate
type FloppySpeed uint8

const (
	FloppyNormal FloppySpeed = 0
	FloppyFast   FloppySpeed = 1 // 2x
)

func (s FloppySpeed) String() string {
	if s != FloppyNormal {
		return "fast"
	}
	return "normal"
}

// Filter holds the video filter settings for each resolution
type Filter struct {
	Lores uint8
	Hires uint8
}

// Floppy holds the floppy drive settings
type Floppy struct {
	Speed  FloppySpeed
	Drives uint8 // 0..4
}

// Hardfile describes one IDE hardfile slot. Present is filled in by the
// hardfile opener at apply time; it is carried in the layout but is not
// meaningful input when loaded.
type Hardfile struct {
	Enabled  bool
	Present  bool
	LongName string
}

// Record is the persisted configuration record
type Record struct {
	Magic     [MagicSize]byte
	Kickstart string
	Filter    Filter
	Memory    uint8 // chip bits 0-1, slow bits 2-3, fast bits 4-5
	Chipset   uint8 // see Chipset* bits
	Floppy    Floppy
	EnableIDE bool
	Scanlines uint8
	Hardfile  [HardfileCount]Hardfile
	CPU       uint8
}

// SizeMismatchError reports a configuration file of the wrong length
type SizeMismatchError struct {
	Got  int64
	Want int64
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("wrong configuration file size: %d (expected: %d)", e.Got, e.Want)
}

func (e *SizeMismatchError) Unwrap() error {
	return merrors.ErrConfigSizeMismatch
}

// HasMagic reports whether the record carries the canonical tag
func (r *Record) HasMagic() bool {
	return bytes.Equal(r.Magic[:], []byte(Magic))
}

// NTSC reports whether the NTSC chipset bit is set
func (r *Record) NTSC() bool {
	return r.Chipset&ChipsetNTSC != 0
}

// ChipRAMBytes returns the chip RAM size selected by the memory field
func (r *Record) ChipRAMBytes() uint32 {
	return (uint32(r.Memory&0x03) + 1) * 512 * 1024
}

// Pack serializes the record to exactly RecordSize bytes. Names longer than
// their field are truncated so that a terminating NUL always fits.
func (r *Record) Pack() []byte {
	buf := make([]byte, RecordSize)

	copy(buf[offMagic:offMagic+MagicSize], r.Magic[:])
	putString(buf[offKickstart:offKickstart+KickstartNameSize], r.Kickstart)

	buf[offLores] = r.Filter.Lores
	buf[offHires] = r.Filter.Hires
	buf[offMemory] = r.Memory
	buf[offChipset] = r.Chipset
	buf[offFloppySpd] = uint8(r.Floppy.Speed)
	buf[offFloppyDrv] = r.Floppy.Drives
	buf[offEnableIDE] = boolByte(r.EnableIDE)
	buf[offScanlines] = r.Scanlines

	for i, hf := range r.Hardfile {
		off := offHardfile + i*hardfileSize
		buf[off] = boolByte(hf.Enabled)
		buf[off+1] = boolByte(hf.Present)
		putString(buf[off+2:off+hardfileSize], hf.LongName)
	}

	buf[offCPU] = r.CPU
	// reserved bytes stay zero

	return buf
}

// Unpack deserializes the record from bytes. Only the length is checked
// here; Decode applies the magic and sanity checks.
func (r *Record) Unpack(data []byte) error {
	if len(data) != RecordSize {
		return &SizeMismatchError{Got: int64(len(data)), Want: RecordSize}
	}

	copy(r.Magic[:], data[offMagic:offMagic+MagicSize])
	r.Kickstart = getString(data[offKickstart : offKickstart+KickstartNameSize])

	r.Filter.Lores = data[offLores]
	r.Filter.Hires = data[offHires]
	r.Memory = data[offMemory]
	r.Chipset = data[offChipset]
	r.Floppy.Speed = FloppySpeed(data[offFloppySpd])
	r.Floppy.Drives = data[offFloppyDrv]
	r.EnableIDE = data[offEnableIDE] != 0
	r.Scanlines = data[offScanlines]

	for i := range r.Hardfile {
		off := offHardfile + i*hardfileSize
		r.Hardfile[i] = Hardfile{
			Enabled:  data[off] != 0,
			Present:  data[off+1] != 0,
			LongName: getString(data[off+2 : off+hardfileSize]),
		}
	}

	r.CPU = data[offCPU]

	return nil
}

// Decode unpacks data and runs the schema checks in order: exact size,
// magic, then field sanity.
func Decode(data []byte) (Record, error) {
	var r Record
	if err := r.Unpack(data); err != nil {
		return Record{}, err
	}
	if !r.HasMagic() {
		return Record{}, fmt.Errorf("%w: got %q", merrors.ErrConfigMagicMismatch, r.Magic[:])
	}
	if err := r.Sanity(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Sanity checks field ranges
func (r *Record) Sanity() error {
	if r.Floppy.Drives > MaxFloppyDrives {
		return fmt.Errorf("%w: %d floppy drives", merrors.ErrConfigSanityFailed, r.Floppy.Drives)
	}
	return nil
}

// Validate checks that a record can be written without losing information
func (r *Record) Validate() error {
	if !r.HasMagic() {
		return fmt.Errorf("%w: got %q", merrors.ErrConfigMagicMismatch, r.Magic[:])
	}
	if err := r.Sanity(); err != nil {
		return err
	}
	if err := validName("kickstart name", r.Kickstart, KickstartNameSize); err != nil {
		return err
	}
	for i, hf := range r.Hardfile {
		if err := validName(fmt.Sprintf("hardfile %d name", i), hf.LongName, LongNameSize); err != nil {
			return err
		}
	}
	return nil
}

// validName checks that name fits a NUL-terminated field of size bytes
func validName(what, name string, size int) error {
	if len(name) >= size {
		return fmt.Errorf("%s too long: %d bytes (max %d)", what, len(name), size-1)
	}
	if strings.IndexByte(name, 0) >= 0 {
		return fmt.Errorf("%s contains a NUL byte", what)
	}
	return nil
}

func putString(dst []byte, s string) {
	if len(s) > len(dst)-1 {
		s = s[:len(dst)-1]
	}
	copy(dst, s)
}

func getString(src []byte) string {
	if n := bytes.IndexByte(src, 0); n >= 0 {
		return string(src[:n])
	}
	return string(src)
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
