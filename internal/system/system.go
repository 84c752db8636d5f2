package system

import (
	"fmt"
	"image"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/mem"
)

// FrameBytes estimates the memory held by the finished animation: every
// frame is kept as a paletted image (one byte per pixel) until encoding.
func FrameBytes(bounds []image.Rectangle, framesPerImage int) uint64 {
	var total uint64
	for _, b := range bounds {
		total += uint64(b.Dx()) * uint64(b.Dy()) * uint64(framesPerImage)
	}
	return total
}

// MemoryReport compares an estimate with the memory currently available.
type MemoryReport struct {
	Needed    uint64
	Available uint64
}

func (r MemoryReport) Fits() bool {
	return r.Available == 0 || r.Needed <= r.Available
}

func (r MemoryReport) String() string {
	return fmt.Sprintf("need %s, available %s", humanize.IBytes(r.Needed), humanize.IBytes(r.Available))
}

// CheckMemory reads the available system memory. Available is zero when
// the platform does not report it.
func CheckMemory(needed uint64) (MemoryReport, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return MemoryReport{Needed: needed}, err
	}
	return MemoryReport{Needed: needed, Available: vm.Available}, nil
}
