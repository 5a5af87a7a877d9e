// Package gamepad implements emulator controls driven by a glfw gamepad.
package gamepad

import (
	"log"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/hexaflex/c8vm/devices"
)

// Button Ids.
const (
	ButtonA     = glfw.ButtonA
	ButtonB     = glfw.ButtonB
	ButtonX     = glfw.ButtonX
	ButtonY     = glfw.ButtonY
	ButtonBack  = glfw.ButtonBack
	ButtonStart = glfw.ButtonStart
)

const buttonCount = len(glfw.GamepadState{}.Buttons)

type state struct {
	pressed     bool
	justPressed bool
}

// Device polls the first connected gamepad and calls the bound handler
// whenever a button goes down.
type Device struct {
	joy         glfw.Joystick
	state       [buttonCount]state
	handlers    map[glfw.GamepadButton]func()
	initialized bool
}

var _ devices.Device = &Device{}

// New creates a new device.
func New() *Device {
	return &Device{
		handlers: make(map[glfw.GamepadButton]func()),
	}
}

// Bind sets the function called when btn is pressed.
func (d *Device) Bind(btn glfw.GamepadButton, f func()) {
	d.handlers[btn] = f
}

// Update polls gamepad state and fires handlers for newly pressed buttons.
// It must be called from the main thread.
func (d *Device) Update() {
	if !d.initialized {
		return
	}

	state := d.joy.GetGamepadState()
	if state == nil {
		return
	}

	d.apply(state.Buttons[:])
}

func (d *Device) apply(buttons []glfw.Action) {
	for btn, action := range buttons {
		bs := &d.state[btn]
		pressed := action == glfw.Press

		bs.justPressed = pressed && !bs.pressed
		bs.pressed = pressed

		if !bs.justPressed {
			continue
		}

		if f, ok := d.handlers[glfw.GamepadButton(btn)]; ok {
			f()
		}
	}
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.Gamepad
}

// Startup detects any connected gamepad.
func (d *Device) Startup() error {
	glfw.SetJoystickCallback(d.configure)

	for joy := glfw.Joystick1; joy <= glfw.JoystickLast; joy++ {
		if joy.Present() && joy.IsGamepad() {
			d.configure(joy, glfw.Connected)
			break
		}
	}

	return nil
}

// Shutdown clears up device resources.
func (d *Device) Shutdown() error {
	glfw.SetJoystickCallback(nil)
	return nil
}

// configure is called whenever a joystick is connected or disconnected from the system.
func (d *Device) configure(joy glfw.Joystick, event glfw.PeripheralEvent) {
	d.initialized = event == glfw.Connected && joy.IsGamepad()
	d.joy = joy

	if d.initialized {
		log.Println(d.ID(), "gamepad connected")
	} else {
		log.Println(d.ID(), "gamepad disconnected")
	}

	d.state = [buttonCount]state{}
}
