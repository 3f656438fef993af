//go:build linux

package fbdev

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/wbrown/fbtext/surface"
)

// ioctl requests from linux/fb.h.
const (
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

// Device is an open, mapped framebuffer. The embedded Buffer writes
// straight into device memory.
type Device struct {
	*surface.Buffer
	Fix FixScreenInfo
	Var VarScreenInfo

	fd  int
	mem []byte
}

// Open opens the framebuffer at path, queries its geometry and maps it
// shared and writable. On failure nothing stays open.
func Open(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}

	d := &Device{fd: fd}
	if err := ioctl(fd, fbioGetFScreenInfo, unsafe.Pointer(&d.Fix)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: %w", ErrFixedInfo, err)
	}
	if err := ioctl(fd, fbioGetVScreenInfo, unsafe.Pointer(&d.Var)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: %w", ErrVarInfo, err)
	}

	mem, err := unix.Mmap(fd, 0, mapSize(d.Fix, d.Var), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: %w", ErrMmap, err)
	}
	d.mem = mem

	d.Buffer, err = surface.New(mem, surface.Geometry{
		Width:         int(d.Var.XRes),
		Height:        int(d.Var.YRes),
		XOffset:       int(d.Var.XOffset),
		YOffset:       int(d.Var.YOffset),
		Stride:        int(d.Fix.LineLength),
		BytesPerPixel: int(d.Var.BitsPerPixel / 8),
	})
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("%w: %w", ErrMmap, err)
	}
	return d, nil
}

// Close unmaps the device memory and closes the device.
func (d *Device) Close() error {
	var err error
	if d.mem != nil {
		err = unix.Munmap(d.mem)
		d.mem = nil
	}
	if cerr := unix.Close(d.fd); err == nil {
		err = cerr
	}
	return err
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
