// Command web runs the catalog enhancement HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"catalogcli/internal/app"
	"catalogcli/internal/config"
)

func main() {
	// Optional .env for local development, real environments set vars directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	application, err := app.NewApplication(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "application error: %v\n", err)
		os.Exit(1)
	}
}
