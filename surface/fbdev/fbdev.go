// Package fbdev maps a Linux framebuffer device into memory and exposes it
// as a surface.Buffer.
package fbdev

import (
	"errors"
	"fmt"
)

// DefaultPath is the first framebuffer device.
const DefaultPath = "/dev/fb0"

// Each failure stage has its own error so callers can tell them apart.
var (
	ErrOpen      = errors.New("cannot open framebuffer device")
	ErrFixedInfo = errors.New("cannot read fixed screen information")
	ErrVarInfo   = errors.New("cannot read variable screen information")
	ErrMmap      = errors.New("cannot map framebuffer device to memory")
)

// Bitfield mirrors struct fb_bitfield.
type Bitfield struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

// FixScreenInfo mirrors struct fb_fix_screeninfo.
type FixScreenInfo struct {
	ID           [16]byte
	SmemStart    uintptr
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MmioStart    uintptr
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// VarScreenInfo mirrors struct fb_var_screeninfo.
type VarScreenInfo struct {
	XRes, YRes               uint32
	XResVirtual, YResVirtual uint32
	XOffset, YOffset         uint32
	BitsPerPixel             uint32
	Grayscale                uint32
	Red, Green, Blue, Transp Bitfield
	NonStd                   uint32
	Activate                 uint32
	HeightMM, WidthMM        uint32
	AccelFlags               uint32
	PixClock                 uint32
	LeftMargin, RightMargin  uint32
	UpperMargin, LowerMargin uint32
	HSyncLen, VSyncLen       uint32
	Sync                     uint32
	VMode                    uint32
	Rotate                   uint32
	Colorspace               uint32
	Reserved                 [4]uint32
}

// String summarizes the mode the way fbset prints it.
func (v VarScreenInfo) String() string {
	return fmt.Sprintf("%dx%d, %dbpp", v.XRes, v.YRes, v.BitsPerPixel)
}

// mapSize returns how many bytes of device memory to map.
func mapSize(fix FixScreenInfo, v VarScreenInfo) int {
	if fix.SmemLen > 0 {
		return int(fix.SmemLen)
	}
	return int(fix.LineLength) * int(v.YResVirtual)
}
