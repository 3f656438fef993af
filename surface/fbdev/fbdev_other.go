//go:build !linux

package fbdev

import (
	"errors"
	"fmt"

	"github.com/wbrown/fbtext/surface"
)

// Device is an open, mapped framebuffer. Framebuffer devices only exist
// on Linux; elsewhere Open always fails.
type Device struct {
	*surface.Buffer
	Fix FixScreenInfo
	Var VarScreenInfo
}

// Open always fails on this platform.
func Open(path string) (*Device, error) {
	return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, errors.ErrUnsupported)
}

// Close does nothing.
func (d *Device) Close() error {
	return nil
}
