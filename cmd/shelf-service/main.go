package main

import (
	"fmt"
	"log"
	"os"

	"go.uber.org/fx"

	"github.com/ironsheep/shelf-occupancy/internal/config"
	"github.com/ironsheep/shelf-occupancy/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("shelf-service %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("shelf-service - HTTP service for shelf slot occupancy")
			fmt.Println()
			fmt.Println("Usage: shelf-service [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from .env):")
			fmt.Println("  SHELF_ADDR=127.0.0.1:5001    Listen address")
			fmt.Println("  SHELF_ID=SHELF_001           Default shelf id in responses")
			fmt.Println("  SHELF_SLOTS=10               Slots per image")
			fmt.Println("  SHELF_THRESHOLD=220          Empty-slot brightness threshold (0-255)")
			fmt.Println("  SHELF_WORKDIR=.              Directory image paths are resolved against")
			fmt.Println("  SHELF_PLANOGRAM=             Slot-to-product YAML file")
			fmt.Println("  SHELF_LOG_LEVEL=info         debug, info, warn or error")
			fmt.Println("  SHELF_CONFIG=                YAML file overriding the above")
			fmt.Println()
			fmt.Println("Endpoints:")
			fmt.Println("  GET  /health")
			fmt.Println("  POST /process-shelf-image   {\"imagePath\": \"/uploads/shelf.jpg\"}")
			return
		}
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Printf("Shelf occupancy service %s (built %s, commit %s)", Version, BuildTime, GitCommit)

	app := fx.New(
		fx.Provide(config.Load),
		server.Module,
	)
	if err := app.Err(); err != nil {
		log.Fatalf("Startup error: %v", err)
	}
	app.Run()
}
