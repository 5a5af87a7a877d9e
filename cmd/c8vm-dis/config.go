package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/hexaflex/c8vm/arch"
)

// Various version related constants.
const (
	AppVendor  = "hexaflex"
	AppName    = "c8vm-dis"
	AppVersion = "v1.0.0"
)

// Config defines program configuration.
type Config struct {
	Input  string // Program image to disassemble.
	Output string // Output file. Leave empty for stdout.
	Origin int    // Load address of the first image byte.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config
	c.Origin = arch.ProgramStart

	flag.Usage = func() {
		fmt.Printf("%s [options] <image file>\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.StringVar(&c.Output, "out", c.Output, "File path to write output to. Leave empty to use stdout.")
	flag.IntVar(&c.Origin, "origin", c.Origin, "Address at which the image is loaded.")
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

	c.Input = flag.Arg(0)
	return &c
}

// Version returns program version information.
func Version() string {
	version := AppVersion
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	return fmt.Sprintf("%s %s %s", AppVendor, AppName, version)
}
