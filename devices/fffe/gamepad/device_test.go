package gamepad

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestApplyFiresOnPress(t *testing.T) {
	var pauses, steps int

	d := New()
	d.Bind(ButtonStart, func() { pauses++ })
	d.Bind(ButtonA, func() { steps++ })

	buttons := make([]glfw.Action, buttonCount)

	buttons[ButtonStart] = glfw.Press
	d.apply(buttons)
	d.apply(buttons)

	if pauses != 1 {
		t.Fatalf("held button must fire once; have %d", pauses)
	}

	buttons[ButtonStart] = glfw.Release
	buttons[ButtonA] = glfw.Press
	d.apply(buttons)

	buttons[ButtonA] = glfw.Release
	d.apply(buttons)

	buttons[ButtonA] = glfw.Press
	d.apply(buttons)

	if pauses != 1 || steps != 2 {
		t.Fatalf("want 1 pause, 2 steps; have %d, %d", pauses, steps)
	}
}

func TestUnboundButton(t *testing.T) {
	d := New()
	buttons := make([]glfw.Action, buttonCount)
	buttons[ButtonX] = glfw.Press
	d.apply(buttons)

	if !d.state[ButtonX].pressed {
		t.Fatalf("expected button state to be tracked")
	}
}

func TestUpdateWithoutGamepad(t *testing.T) {
	New().Update()
}
