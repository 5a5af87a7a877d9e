// Package devices defines the peripheral contracts of the machine.
package devices

import (
	"log"

	"github.com/pkg/errors"

	"github.com/hexaflex/c8vm/display"
)

// Device represents a peripheral device.
type Device interface {
	// ID yields the manufacturer and serial number for the device.
	ID() ID

	// Startup initializes internal resources.
	Startup() error

	// Shutdown cleans up internal resources.
	Shutdown() error
}

// Screen is a device which presents the frame buffer.
//
// Refresh is called by the CPU after every instruction that changes the
// frame buffer. It receives a private copy of the buffer and must not block;
// implementations presenting on another goroutine keep the latest snapshot
// and draw it on their own schedule.
type Screen interface {
	Device
	Refresh(display.Buffer)
}

// Map contains a list of registered peripherals.
type Map []Device

// Connect adds the given device to the device map.
// Returns false if the device type is already present in the set.
func (dm *Map) Connect(dev Device) bool {
	if (*dm).Find(dev.ID()) > -1 {
		return false
	}

	*dm = append(*dm, dev)
	return true
}

// Refresh hands the given frame buffer to every connected screen.
func (dm Map) Refresh(fb *display.Buffer) {
	for _, dev := range dm {
		if scr, ok := dev.(Screen); ok {
			scr.Refresh(*fb)
		}
	}
}

// Startup initializes internal resources.
func (dm Map) Startup() error {
	var errorset ErrorSet

	for _, dev := range dm {
		log.Println(dev.ID(), "startup")
		if err := dev.Startup(); err != nil {
			errorset.Append(errors.Wrapf(err, "%s", dev.ID()))
		}
	}

	if errorset.Len() == 0 {
		return nil
	}

	return errorset
}

// Shutdown cleans up internal resources.
func (dm Map) Shutdown() error {
	var errorset ErrorSet

	for _, dev := range dm {
		log.Println(dev.ID(), "shutdown")
		if err := dev.Shutdown(); err != nil {
			errorset.Append(errors.Wrapf(err, "%s", dev.ID()))
		}
	}

	if errorset.Len() == 0 {
		return nil
	}

	return errorset
}

// Find returns the index for the device with the given id.
// Returns -1 if it can't be found.
func (dm Map) Find(id ID) int {
	for i, dev := range dm {
		if dev.ID() == id {
			return i
		}
	}
	return -1
}
