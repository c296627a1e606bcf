package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/hbomb79/Tubely/internal"
	"github.com/hbomb79/Tubely/pkg/logger"
)

var log = logger.Get("Bootstrap")

// main is the entry point to the program. The configuration is loaded from the
// path given by the -config flag before Tubely is started. Tubely runs until an
// interrupt or SIGTERM is received.
func main() {
	configPath := flag.String("config", internal.DefaultConfigPath, "path to the Tubely YAML configuration file")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	flag.Parse()

	if *verbose {
		logger.SetMinLoggingLevel(logger.VERBOSE.Level())
	}

	config, err := internal.LoadConfig(*configPath)
	if err != nil {
		log.Emit(logger.FATAL, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := internal.New(*config).Run(ctx); err != nil {
		log.Emit(logger.FATAL, "Tubely exited with error: %v\n", err)
		os.Exit(1)
	}

	log.Emit(logger.STOP, "Tubely shutdown complete\n")
}
