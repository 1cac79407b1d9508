package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ironsheep/shelf-occupancy/internal/inspect"
)

// Version information - set by ldflags during build
var Version = "dev"

func main() {
	log.SetFlags(0)

	app := &cli.App{
		Name:    "shelf-inspect",
		Usage:   "classify shelf slots in one image and write an annotated overlay",
		Version: Version,
		Flags:   inspect.Flags(),
		Action:  inspect.Action,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("shelf-inspect: %v", err)
	}
}
