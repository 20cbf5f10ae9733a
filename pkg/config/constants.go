package config

// Core record constants. Changing any of these changes RecordSize, which
// invalidates every configuration file written before the change.

// Magic is the tag every configuration file starts with.
const Magic = "MNMGCFG0"

const (
	MagicSize         = 8
	KickstartNameSize = 256
	LongNameSize      = 256
	HardfileCount     = 2
	hardfileSize      = 2 + LongNameSize
	reservedSize      = 3

	// RecordSize is the exact on-disk size of a configuration record
	RecordSize = MagicSize + KickstartNameSize + 2 + 1 + 1 + 2 + 1 + 1 + HardfileCount*hardfileSize + 1 + reservedSize
)

// Field offsets within the packed record
const (
	offMagic     = 0
	offKickstart = offMagic + MagicSize
	offLores     = offKickstart + KickstartNameSize
	offHires     = offLores + 1
	offMemory    = offHires + 1
	offChipset   = offMemory + 1
	offFloppySpd = offChipset + 1
	offFloppyDrv = offFloppySpd + 1
	offEnableIDE = offFloppyDrv + 1
	offScanlines = offEnableIDE + 1
	offHardfile  = offScanlines + 1
	offCPU       = offHardfile + HardfileCount*hardfileSize
	offReserved  = offCPU + 1
)

// Chipset bits
const (
	ChipsetTurbo = 0x01
	ChipsetNTSC  = 0x02
	ChipsetA1000 = 0x04
	ChipsetECS   = 0x08
	ChipsetAGA   = 0x10
)

// MaxFloppyDrives is the largest drives value a sane record may carry
const MaxFloppyDrives = 4

// File names
const (
	DefaultConfigName    = "MINIMIG.CFG"
	DefaultKickstartName = "KICK.ROM"
	DefaultMemory        = 0x15

	// hardfile names Default sets and then immediately clears
	defaultHardfile0Name = "HARDFILE1.HDF"
	defaultHardfile1Name = "HARDFILE2.HDF"
)

// FilePerms is used when writing configuration files to a host directory
const FilePerms = 0o644
