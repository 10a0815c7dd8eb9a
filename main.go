package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"

	"github.com/Mamtha-mass/HR-designer-workflow/pkg/logging"
)

const (
	defaultAddr              = ":8080"
	defaultAllowedOrigin     = "http://localhost:3003"
	defaultSimulationTimeout = 10 * time.Second
	defaultCatalogTimeout    = 5 * time.Second
	shutdownTimeout          = 5 * time.Second
	serviceName              = "hr-workflow"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, errSimulationFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "hr-workflow",
		Usage: "Serve and simulate HR workflow graphs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (json, text)",
				Value:   "json",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "Address the HTTP server listens on",
				Value:   defaultAddr,
				Sources: cli.EnvVars("ADDR"),
			},
			&cli.StringSliceFlag{
				Name:    "allowed-origins",
				Usage:   "Origins allowed by CORS",
				Value:   []string{defaultAllowedOrigin},
				Sources: cli.EnvVars("ALLOWED_ORIGINS"),
			},
			&cli.DurationFlag{
				Name:    "simulation-delay",
				Usage:   "Artificial latency added before each simulation",
				Sources: cli.EnvVars("SIMULATION_DELAY"),
			},
			&cli.DurationFlag{
				Name:    "simulation-timeout",
				Usage:   "Upper bound on a single simulation request",
				Value:   defaultSimulationTimeout,
				Sources: cli.EnvVars("SIMULATION_TIMEOUT"),
			},
			&cli.DurationFlag{
				Name:    "catalog-timeout",
				Usage:   "Upper bound on fetching the automation catalog",
				Value:   defaultCatalogTimeout,
				Sources: cli.EnvVars("CATALOG_TIMEOUT"),
			},
			&cli.DurationFlag{
				Name:    "catalog-latency",
				Usage:   "Artificial latency added to the built-in or file catalog",
				Sources: cli.EnvVars("CATALOG_LATENCY"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "PostgreSQL URL serving the automation catalog",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "catalog-url",
				Usage:   "Base URL of a remote automation directory",
				Sources: cli.EnvVars("CATALOG_URL"),
			},
			&cli.StringFlag{
				Name:    "catalog-file",
				Usage:   "Path to a YAML automation catalog",
				Sources: cli.EnvVars("CATALOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "otel-endpoint",
				Usage:   "OTLP/HTTP endpoint receiving traces; tracing is off when empty",
				Sources: cli.EnvVars("OTEL_EXPORTER_OTLP_ENDPOINT"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.Setup(cmd.String("log-level"), cmd.String("log-format"))
			return ctx, nil
		},
		Action: runServer,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: runServer,
			},
			{
				Name:  "simulate",
				Usage: "Simulate a workflow snapshot and print the execution log",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Snapshot JSON file, or - for stdin",
						Required: true,
					},
				},
				Action: runSimulate,
			},
			{
				Name:  "automations",
				Usage: "Print the configured automation catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Print a single automation",
					},
				},
				Action: runAutomations,
			},
			{
				Name:  "node",
				Usage: "Print the default node for a type",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "type",
						Usage:    "Node type (start, task, approval, automated, end)",
						Required: true,
					},
					&cli.FloatFlag{Name: "x"},
					&cli.FloatFlag{Name: "y"},
				},
				Action: runNode,
			},
		},
	}
}
