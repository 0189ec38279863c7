// Command processor runs the enhancement pipeline against a local
// spreadsheet without the HTTP server. Useful for batch jobs and cron.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"catalogcli/internal/ai"
	"catalogcli/internal/config"
	"catalogcli/internal/enhance"
	"catalogcli/internal/exporter"
	"catalogcli/internal/infrastructure"
	"catalogcli/internal/operations"
	"catalogcli/internal/pages"
)

func main() {
	input := flag.String("input", "", "path to the catalog file (.csv or .xlsx)")
	skipImages := flag.Bool("skip-images", false, "skip the image resolution step")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: processor -input catalog.csv [-skip-images]")
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	metrics := infrastructure.NewMetrics()
	aiClient := ai.NewClient(cfg.AI, logger, metrics)

	steps := []operations.Step{
		&operations.ParseStep{Path: *input},
		&operations.EnhanceStep{Enhancer: enhance.NewEnhancer(aiClient, logger)},
	}
	if !*skipImages {
		steps = append(steps, &operations.ImagesStep{Resolver: enhance.NewImageResolver(aiClient, logger)})
	}
	steps = append(steps,
		&operations.PagesStep{Generator: pages.NewGenerator(aiClient, logger)},
		&operations.ExportStep{Writer: exporter.NewWriter(cfg.Paths, logger, metrics)},
	)

	manager := operations.NewManager(logger, metrics, cfg.Server.WorkflowTimeout)
	state, err := manager.Run(context.Background(), steps)

	for _, step := range state.Snapshot().Steps {
		line := fmt.Sprintf("%-24s %s", step.Name, step.Status)
		if step.Message != "" {
			line += "  " + step.Message
		}
		fmt.Println(line)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "pipeline failed: %v\n", err)
		os.Exit(1)
	}

	for _, file := range state.Exports {
		fmt.Printf("wrote %s (%d bytes)\n", file.Path, file.Size)
	}
}
