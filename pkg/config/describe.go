package config

import "fmt"

var (
	cpuNames        = [4]string{"68000", "68010", "-----", "68020"}
	chipsetNames    = [8]string{"OCS-A500", "OCS-A1000", "ECS", "---", "AGA", "---", "---", "---"}
	chipMemoryNames = [4]string{"0.5 MB", "1.0 MB", "1.5 MB", "2.0 MB"}
	slowMemoryNames = [4]string{"none", "0.5 MB", "1.0 MB", "1.5 MB"}
	fastMemoryNames = [4]string{"none", "2.0 MB", "4.0 MB", "24.0 MB"}
)

// CPUName returns the display name of the CPU setting
func (r *Record) CPUName() string {
	return cpuNames[r.CPU&0x03]
}

// ChipsetName returns the display name of the chipset family
func (r *Record) ChipsetName() string {
	return chipsetNames[(r.Chipset>>2)&0x07]
}

// Describe returns the boot summary lines for the record
func (r *Record) Describe() []string {
	clock := "normal"
	if r.Chipset&ChipsetTurbo != 0 {
		clock = "turbo"
	}
	video := "PAL"
	if r.NTSC() {
		video = "NTSC"
	}
	ide := "disabled"
	if r.EnableIDE {
		ide = "enabled"
	}

	return []string{
		fmt.Sprintf("CPU:     %s", r.CPUName()),
		fmt.Sprintf("Chipset: %s (%s)", r.ChipsetName(), video),
		fmt.Sprintf("Memory:  CHIP: %s  FAST: %s  SLOW: %s",
			chipMemoryNames[r.Memory&0x03], fastMemoryNames[(r.Memory>>4)&0x03], slowMemoryNames[(r.Memory>>2)&0x03]),
		fmt.Sprintf("CPU clock: %s", clock),
		fmt.Sprintf("Floppy:  %d drive(s), %s", r.Floppy.Drives+1, r.Floppy.Speed),
		fmt.Sprintf("IDE:     %s", ide),
		fmt.Sprintf("Master HDD: %s", r.Hardfile[0].status()),
		fmt.Sprintf("Slave HDD:  %s", r.Hardfile[1].status()),
		fmt.Sprintf("Kickstart: %s", r.Kickstart),
	}
}

func (h Hardfile) status() string {
	switch {
	case !h.Present:
		return "not present"
	case h.Enabled:
		return "enabled"
	default:
		return "disabled"
	}
}
