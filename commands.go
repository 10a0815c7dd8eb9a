package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	cli "github.com/urfave/cli/v3"

	"github.com/Mamtha-mass/HR-designer-workflow/pkg/clients/directory"
	"github.com/Mamtha-mass/HR-designer-workflow/pkg/db"
	"github.com/Mamtha-mass/HR-designer-workflow/pkg/logging"
	"github.com/Mamtha-mass/HR-designer-workflow/pkg/tracing"
	"github.com/Mamtha-mass/HR-designer-workflow/services/automation"
	"github.com/Mamtha-mass/HR-designer-workflow/services/nodes"
	"github.com/Mamtha-mass/HR-designer-workflow/services/storage"
	"github.com/Mamtha-mass/HR-designer-workflow/services/workflow"
)

// errSimulationFailed marks a simulation whose result reported success=false.
// The result has already been printed, so main only sets the exit status.
var errSimulationFailed = errors.New("simulation failed")

// openCatalog picks the catalog source by precedence: database, remote
// directory, YAML file, built-in. The returned func releases its resources.
func openCatalog(ctx context.Context, cmd *cli.Command) (automation.Catalog, func(), error) {
	logger := logging.WithModule("catalog")
	noop := func() {}

	if url := cmd.String("database-url"); url != "" {
		pool, err := db.Connect(ctx, db.DefaultConfig(url))
		if err != nil {
			return nil, noop, fmt.Errorf("connect to catalog database: %w", err)
		}
		store, err := storage.NewInstance(pool)
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		logger.Debug("serving automation catalog from postgres")
		return store, pool.Close, nil
	}

	if url := cmd.String("catalog-url"); url != "" {
		logger.Debug("serving automation catalog from directory", "url", url)
		return directory.NewClient(url, &http.Client{Timeout: cmd.Duration("catalog-timeout")}), noop, nil
	}

	var entries []automation.Entry
	if path := cmd.String("catalog-file"); path != "" {
		loaded, err := automation.LoadFile(path)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug("serving automation catalog from file", "path", path, "entries", len(loaded))
		entries = loaded
	}
	static, err := automation.NewStatic(entries, cmd.Duration("catalog-latency"))
	if err != nil {
		return nil, noop, err
	}
	return static, noop, nil
}

func newEngine(cmd *cli.Command) *workflow.Engine {
	return workflow.NewEngine(workflow.WithDelay(cmd.Duration("simulation-delay")))
}

func runServer(ctx context.Context, cmd *cli.Command) error {
	logger := logging.WithModule("server")

	shutdownTracing, err := tracing.Setup(ctx, serviceName, cmd.String("otel-endpoint"))
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("Failed to flush traces", "error", err)
		}
	}()

	catalog, closeCatalog, err := openCatalog(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeCatalog()

	workflowService, err := workflow.NewService(catalog,
		workflow.WithEngine(newEngine(cmd)),
		workflow.WithTimeouts(cmd.Duration("simulation-timeout"), cmd.Duration("catalog-timeout")),
	)
	if err != nil {
		return fmt.Errorf("create workflow service: %w", err)
	}

	// setup router
	mainRouter := mux.NewRouter()
	apiRouter := mainRouter.PathPrefix("/api/v1").Subrouter()
	workflowService.LoadRoutes(apiRouter)

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins(cmd.StringSlice("allowed-origins")),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Request-ID"}),
		handlers.ExposedHeaders([]string{"X-Request-ID"}),
		handlers.AllowCredentials(),
	)(mainRouter)

	addr := cmd.String("addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("Starting server", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("Shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Could not stop server gracefully", "error", err)
			return srv.Close()
		}
	}
	return nil
}

func runSimulate(ctx context.Context, cmd *cli.Command) error {
	snap, err := readSnapshot(cmd.String("file"), cmd.Root().Reader)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("simulation-timeout"))
	defer cancel()

	result, err := newEngine(cmd).Run(ctx, snap)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	if err := printJSON(cmd.Root().Writer, result); err != nil {
		return err
	}
	if !result.Success {
		slog.Debug("workflow failed validation", "error", result.Error)
		return errSimulationFailed
	}
	return nil
}

func readSnapshot(path string, stdin io.Reader) (nodes.Snapshot, error) {
	var snap nodes.Snapshot

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return snap, fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

func runAutomations(ctx context.Context, cmd *cli.Command) error {
	catalog, closeCatalog, err := openCatalog(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeCatalog()

	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("catalog-timeout"))
	defer cancel()

	id := cmd.String("id")
	if id == "" {
		entries, err := catalog.List(ctx)
		if err != nil {
			return fmt.Errorf("list automations: %w", err)
		}
		return printJSON(cmd.Root().Writer, entries)
	}

	if store, ok := catalog.(storage.Storage); ok {
		entry, err := store.Get(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(cmd.Root().Writer, entry)
	}
	entries, err := catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("list automations: %w", err)
	}
	entry, err := automation.Find(entries, id)
	if err != nil {
		return err
	}
	return printJSON(cmd.Root().Writer, entry)
}

func runNode(_ context.Context, cmd *cli.Command) error {
	kind, err := nodes.ParseKind(cmd.String("type"))
	if err != nil {
		return err
	}
	node, err := nodes.NewDefault(nodes.NewID(), kind, nodes.Position{X: cmd.Float("x"), Y: cmd.Float("y")})
	if err != nil {
		return err
	}
	return printJSON(cmd.Root().Writer, node)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
