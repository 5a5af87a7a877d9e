package main

import (
	"context"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"

	"github.com/hexaflex/c8vm/devices/fffe/ebitendisplay"
	"github.com/hexaflex/c8vm/display"
	"github.com/hexaflex/c8vm/rom"
	"github.com/hexaflex/c8vm/vm"
)

func main() {
	if err := run(parseArgs()); err != nil {
		log.Fatal(err)
	}
}

func run(config *Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	screen := ebitendisplay.New(ebitendisplay.DefaultOn, ebitendisplay.DefaultOff)
	machine := vm.New(config.Machine(), nil, screen)

	load := func() error {
		img, err := rom.Open(config.Image)
		if err != nil {
			return err
		}
		if err := machine.Load(img); err != nil {
			return err
		}
		if config.Paused {
			machine.Pause()
		}
		return machine.Start(ctx)
	}

	screen.Bind(ebiten.KeyQ, machine.TogglePause)
	screen.Bind(ebiten.KeyE, machine.Step)
	screen.Bind(ebiten.KeyD, machine.ToggleTrace)
	screen.Bind(ebiten.KeyF5, func() {
		if err := load(); err != nil {
			log.Println(err)
		}
	})
	screen.SetTitleFunc(func() string {
		if machine.Paused() {
			return fmt.Sprintf("%s - paused", AppName)
		}
		return fmt.Sprintf("%s - %.0f Hz", AppName, machine.Frequency())
	})

	log.Println(Version())

	if err := machine.Startup(); err != nil {
		return err
	}

	defer func() {
		if err := machine.Shutdown(); err != nil {
			log.Println(err)
		}
	}()

	if err := load(); err != nil {
		return err
	}

	ebiten.SetWindowSize(display.Width*config.ScaleFactor, display.Height*config.ScaleFactor)
	ebiten.SetWindowTitle(AppName)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(screen)
	if errors.Is(err, ebitendisplay.ErrQuit) {
		return nil
	}
	return err
}
