package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-gl/gl/v4.2-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"github.com/hexaflex/c8vm/devices/fffe/gamepad"
	"github.com/hexaflex/c8vm/devices/fffe/gldisplay"
	"github.com/hexaflex/c8vm/display"
	"github.com/hexaflex/c8vm/rom"
	"github.com/hexaflex/c8vm/vm"
)

// App defines application context.
type App struct {
	config       *Config            // Application configuration.
	ctx          context.Context    // Lifetime of the machine.
	cancel       context.CancelFunc // Ends the machine.
	window       *glfw.Window       // OpenGL/GLFW context.
	vm           *vm.VM             // Machine with program to be run.
	display      *gldisplay.Device  // Display peripheral.
	gamepad      *gamepad.Device    // Gamepad controls.
	titleUpdated time.Time          // Value used to periodically update window title.
}

// NewApp creates a new application instance using the given configuration.
func NewApp(config *Config) *App {
	var a App
	a.config = config
	a.ctx, a.cancel = context.WithCancel(context.Background())
	a.display = gldisplay.New(gldisplay.DefaultOn, gldisplay.DefaultOff)
	a.gamepad = gamepad.New()
	a.vm = vm.New(config.Machine(), nil, a.display, a.gamepad)

	a.gamepad.Bind(gamepad.ButtonStart, a.vm.TogglePause)
	a.gamepad.Bind(gamepad.ButtonA, a.vm.Step)
	a.gamepad.Bind(gamepad.ButtonBack, a.reload)
	return &a
}

// Run runs the application and does not return until it is finished
// or an error occured during initialization.
func (a *App) Run() error {
	if err := a.initGL(); err != nil {
		return err
	}

	defer a.dispose()

	log.Println(Version())
	printHelp()

	if err := a.vm.Startup(); err != nil {
		return err
	}

	if err := a.loadProgram(); err != nil {
		return err
	}

	for !a.window.ShouldClose() {
		a.mainLoop()
	}

	return nil
}

// mainLoop performs all main loop operations.
func (a *App) mainLoop() {
	a.gamepad.Update()

	gl.Clear(gl.COLOR_BUFFER_BIT)
	a.display.Draw()
	a.window.SwapBuffers()

	// Periodically update the window title to show the current cpu clock frequency.
	if time.Since(a.titleUpdated) >= time.Second {
		a.titleUpdated = time.Now()
		a.window.SetTitle(fmt.Sprintf("%s %s - %s", AppName, AppVersion, a.status()))
	}

	glfw.PollEvents()
}

// status describes the machine state for the window title.
func (a *App) status() string {
	switch {
	case a.vm.Done() == nil:
		return "stopped"
	case isClosed(a.vm.Done()):
		if err := a.vm.Err(); err != nil {
			return "error"
		}
		return "halted"
	case a.vm.Paused():
		return "paused"
	}
	return prettyFrequency(a.vm.Frequency())
}

// dispose ensures openGL/GLFW and other resources are cleaned up.
func (a *App) dispose() {
	a.cancel()
	if err := a.vm.Shutdown(); err != nil {
		log.Println(err)
	}

	if a.window != nil {
		a.window.Destroy()
		a.window = nil
	}

	glfw.Terminate()
}

func (a *App) keyCallback(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	switch key {
	case glfw.KeyEscape:
		a.window.SetShouldClose(true)
	case glfw.KeyF1:
		printHelp()
	case glfw.KeyF5:
		a.reload()
	case glfw.KeyQ:
		a.vm.TogglePause()
	case glfw.KeyE:
		a.vm.Step()
	case glfw.KeyD:
		a.vm.ToggleTrace()
	}
}

// initGL initializes GLFW and openGL.
func (a *App) initGL() error {
	err := glfw.Init()
	if err != nil {
		return errors.Wrapf(err, "glfw.Init failed")
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.True)
	glfw.WindowHint(glfw.Focused, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 2)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var monitor *glfw.Monitor

	width := display.Width * a.config.ScaleFactor
	height := display.Height * a.config.ScaleFactor

	if a.config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()

		width = mode.Width
		height = mode.Height

		glfw.WindowHint(glfw.Decorated, glfw.False)
		glfw.WindowHint(glfw.Maximized, glfw.True)
	} else {
		glfw.WindowHint(glfw.Decorated, glfw.True)
		glfw.WindowHint(glfw.Maximized, glfw.False)
	}

	a.window, err = glfw.CreateWindow(width, height, AppName, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return errors.Wrapf(err, "glfw.CreateWindow failed")
	}

	a.window.MakeContextCurrent()
	a.window.SetKeyCallback(a.keyCallback)
	a.window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		gl.Viewport(0, 0, int32(w), int32(h))
	})

	glfw.SwapInterval(1)

	err = gl.Init()
	if err != nil {
		a.window.Destroy()
		a.window = nil
		glfw.Terminate()
		return errors.Wrapf(err, "gl.Init failed")
	}

	gl.ClearColor(0, 0, 0, 1.0)
	return nil
}

// loadProgram loads the program from disk and starts the machine.
func (a *App) loadProgram() error {
	img, err := rom.Open(a.config.Image)
	if err != nil {
		return err
	}

	if err := a.vm.Load(img); err != nil {
		return err
	}

	if a.config.Paused {
		a.vm.Pause()
	}

	return a.vm.Start(a.ctx)
}

// reload reads the program from disk again and restarts the machine.
func (a *App) reload() {
	if err := a.loadProgram(); err != nil {
		log.Println(err)
	}
}

// printHelp writes a short overview of supported shortcut keys to the log.
func printHelp() {
	var sb strings.Builder
	sb.WriteString("shortcut keys:\n")
	sb.WriteString(" ESC      Exit the program.\n")
	sb.WriteString(" F1       Display this help.\n")
	sb.WriteString(" F5       (re)load the program from disk and reset the machine.\n")
	sb.WriteString(" Q        Pause/Resume program execution.\n")
	sb.WriteString(" E        Perform a single execution step while paused.\n")
	sb.WriteString(" D        Enable/Disable instruction trace output.\n")
	sb.WriteString("gamepad:\n")
	sb.WriteString(" START    Pause/Resume program execution.\n")
	sb.WriteString(" A        Perform a single execution step while paused.\n")
	sb.WriteString(" BACK     (re)load the program from disk and reset the machine.")
	log.Println(sb.String())
}

// prettyFrequency returns a human-readable version of the given clock frequency in herz.
func prettyFrequency(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2f GHz", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2f MHz", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2f KHz", v/1e3)
	default:
		return fmt.Sprintf("%.2f Hz", v)
	}
}

// isClosed returns true if ch is closed.
func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
