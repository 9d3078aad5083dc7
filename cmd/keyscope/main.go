package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/keyscope/keyscope/internal/config"
	"github.com/keyscope/keyscope/internal/version"
	"github.com/spf13/cobra"
)

func main() {
	if os.Getenv("KEYSCOPE_DEBUG") != "" {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Config path: %s\n", config.ConfigPath())
		os.Exit(1)
	}

	root := cobra.Command{
		Use:     "keyscope",
		Short:   "Keyscope summarizes API key usage telemetry: per-key health, rates and spend.",
		Version: version.String(),
	}

	root.AddCommand(newUsageCommand(cfg))
	root.AddCommand(newPricesCommand(cfg))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
