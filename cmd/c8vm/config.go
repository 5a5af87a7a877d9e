package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hexaflex/c8vm/vm"
)

// Config defines program configuration.
type Config struct {
	Image       string  // Path to the program image to load.
	Frontend    string  // Presentation frontend: gl or term.
	Rate        float64 // Instructions per second.
	Seed        int64   // Random number seed. Zero picks a time based seed.
	ScaleFactor int     // Amount by which each pixel is scaled.
	Fullscreen  bool    // Run in fullscreen?
	LegacyShift bool    // Shift Vy into Vx?
	DelayGate   bool    // Suspend execution while the delay timer runs?
	PrintTrace  bool    // Print instruction trace data?
	Paused      bool    // Start with execution paused?
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	defaults := vm.DefaultConfig()

	var c Config
	c.Frontend = "gl"
	c.Rate = defaults.Rate
	c.ScaleFactor = 10
	c.DelayGate = defaults.DelayGate

	flag.Usage = func() {
		fmt.Printf("%s [options] <image file>\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.StringVar(&c.Frontend, "frontend", c.Frontend, "Presentation frontend: gl or term.")
	flag.Float64Var(&c.Rate, "rate", c.Rate, "Instructions executed per second.")
	flag.Int64Var(&c.Seed, "seed", c.Seed, "Random number seed. Zero picks a time based seed.")
	flag.IntVar(&c.ScaleFactor, "scale-factor", c.ScaleFactor, "Pixel scale factor for the display.")
	flag.BoolVar(&c.Fullscreen, "fullscreen", c.Fullscreen, "Run the display in fullscreen or windowed mode.")
	flag.BoolVar(&c.LegacyShift, "legacy-shift", c.LegacyShift, "Shift instructions operate on Vy and store the result in Vx.")
	flag.BoolVar(&c.DelayGate, "delay-gate", c.DelayGate, "Suspend instruction execution while the delay timer is nonzero.")
	flag.BoolVar(&c.PrintTrace, "trace", c.PrintTrace, "Print instruction trace data.")
	flag.BoolVar(&c.Paused, "paused", c.Paused, "Start with execution paused.")
	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	if err := c.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	c.Image = flag.Arg(0)
	return &c
}

// validate checks option values.
func (c *Config) validate() error {
	switch c.Frontend {
	case "gl", "term":
	default:
		return fmt.Errorf("unknown frontend %q", c.Frontend)
	}

	if c.Rate <= 0 {
		return fmt.Errorf("rate must be positive; have %v", c.Rate)
	}

	if c.ScaleFactor < 1 {
		return fmt.Errorf("scale factor must be at least 1; have %d", c.ScaleFactor)
	}

	return nil
}

// Machine returns the machine configuration.
func (c *Config) Machine() vm.Config {
	mc := vm.DefaultConfig()
	mc.Rate = c.Rate
	mc.Seed = c.Seed
	mc.LegacyShift = c.LegacyShift
	mc.DelayGate = c.DelayGate
	mc.Trace = c.PrintTrace
	return mc
}
