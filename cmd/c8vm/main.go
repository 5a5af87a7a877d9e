package main

import (
	"log"
	"runtime"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	config := parseArgs()

	var err error
	switch config.Frontend {
	case "term":
		err = runTerminal(config)
	default:
		err = NewApp(config).Run()
	}

	if err != nil {
		log.Fatal(err)
	}
}
