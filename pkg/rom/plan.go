// Package rom uploads kickstart and monitor images into target memory.
package rom

import (
	"fmt"
	"sort"

	merrors "github.com/minimig/mistboot/pkg/errors"
)

const (
	// ChunkSize is the payload of one WRITE-MEMORY frame
	ChunkSize = 512

	// HeaderSize is the leading header of encrypted images
	HeaderSize = 11

	// ProgressInterval is the number of chunks between progress reports
	ProgressInterval = 32
)

// Target memory map
const (
	AddrExtendedROM  = 0xE00000
	AddrKickstart    = 0xF80000
	AddrKickstartHi  = 0xFC0000
	AddrActionReplay = 0xA10000
)

// PlanEntry is one pass over the image
type PlanEntry struct {
	Pass    int
	Address uint32
	Chunks  uint32
	Keyed   bool

	// Rewind seeks the image back to its start before this pass. A pass
	// without Rewind continues where the previous one stopped.
	Rewind bool

	// PadFinal zero-fills a short last chunk instead of failing
	PadFinal bool
}

// Bytes returns the number of payload bytes written by the entry
func (e PlanEntry) Bytes() uint32 {
	return e.Chunks * ChunkSize
}

func (e PlanEntry) String() string {
	s := fmt.Sprintf("pass %d: %d chunks to 0x%06X", e.Pass, e.Chunks, e.Address)
	if e.Keyed {
		s += " (keyed)"
	}
	if e.Rewind {
		s += " (rewind)"
	}
	return s
}

// Plan is the ordered list of passes for one image
type Plan struct {
	Size        uint64
	Description string
	Entries     []PlanEntry
}

// Keyed reports whether the image needs the key
func (p Plan) Keyed() bool {
	return len(p.Entries) > 0 && p.Entries[0].Keyed
}

// Chunks returns the total number of chunks written
func (p Plan) Chunks() uint32 {
	var n uint32
	for _, e := range p.Entries {
		n += e.Chunks
	}
	return n
}

type planRow struct {
	description string
	keyed       bool
	shift       uint
	addresses   [2]uint32
	rewind      bool
}

// planTable maps exact image sizes to their passes. The 1MB image is sent
// as two halves of one continuous stream; the others are sent whole twice.
var planTable = map[uint64]planRow{
	0x100000: {"1MB Kickstart", false, 10, [2]uint32{AddrExtendedROM, AddrKickstart}, false},
	0x80000:  {"512KB Kickstart", false, 9, [2]uint32{AddrKickstart, AddrExtendedROM}, true},
	0x8000B:  {"512KB Kickstart (encrypted)", true, 9, [2]uint32{AddrKickstart, AddrExtendedROM}, true},
	0x40000:  {"256KB Kickstart", false, 9, [2]uint32{AddrKickstart, AddrKickstartHi}, true},
	0x4000B:  {"256KB Kickstart (encrypted)", true, 9, [2]uint32{AddrKickstart, AddrKickstartHi}, true},
}

// UnsupportedSizeError reports an image that matches no plan
type UnsupportedSizeError struct {
	Size   uint64
	HasKey bool
}

func (e *UnsupportedSizeError) Error() string {
	if !e.HasKey {
		if row, ok := planTable[e.Size]; ok && row.keyed {
			return fmt.Sprintf("%v: %d bytes (encrypted image needs a key)", merrors.ErrUnsupportedImageSize, e.Size)
		}
	}
	return fmt.Sprintf("%v: %d bytes", merrors.ErrUnsupportedImageSize, e.Size)
}

func (e *UnsupportedSizeError) Unwrap() error {
	return merrors.ErrUnsupportedImageSize
}

// ResolvePlan picks the passes for an image of exactly size bytes. Encrypted
// sizes only resolve when a key is available.
func ResolvePlan(size uint64, hasKey bool) (Plan, error) {
	row, ok := planTable[size]
	if !ok || (row.keyed && !hasKey) {
		return Plan{}, &UnsupportedSizeError{Size: size, HasKey: hasKey}
	}

	chunks := uint32(size >> row.shift)
	plan := Plan{Size: size, Description: row.description}
	for i, addr := range row.addresses {
		plan.Entries = append(plan.Entries, PlanEntry{
			Pass:    i + 1,
			Address: addr,
			Chunks:  chunks,
			Keyed:   row.keyed,
			Rewind:  i > 0 && row.rewind,
		})
	}
	return plan, nil
}

// SupportedSizes lists the accepted image sizes in ascending order
func SupportedSizes() []uint64 {
	sizes := make([]uint64, 0, len(planTable))
	for size := range planTable {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })
	return sizes
}

// monitorPlan sizes the monitor image to whole chunks, padding the last one
func monitorPlan(size uint64) Plan {
	return Plan{
		Size:        size,
		Description: "HRTmon",
		Entries: []PlanEntry{{
			Pass:     1,
			Address:  AddrActionReplay,
			Chunks:   uint32((size + ChunkSize - 1) >> 9),
			PadFinal: true,
		}},
	}
}
