// Command tidy runs registered operations on cron schedules and serves them over MCP.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/tidy/internal/adapters/driven/config/file"
	"github.com/custodia-labs/tidy/internal/adapters/driven/cron"
	"github.com/custodia-labs/tidy/internal/adapters/driven/fuzzy"
	"github.com/custodia-labs/tidy/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/tidy/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tidy/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/tidy/internal/adapters/driving/cli"
	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driven"
	"github.com/custodia-labs/tidy/internal/core/services"
	"github.com/custodia-labs/tidy/internal/logger"
	"github.com/custodia-labs/tidy/internal/operations"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configDir, err := file.DefaultDir()
	if err != nil {
		return err
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	logger.SetVerbose(settings.Log.Verbose)

	dataDir := settings.Storage.Dir
	if dataDir == "" {
		dataDir = configDir
	}

	store, closeStore, err := openTaskStore(settings.Storage.Backend, dataDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("closing task store: %v", err)
		}
	}()

	registry := services.NewRegistry()
	if err := operations.Register(registry); err != nil {
		return err
	}

	resolver := services.NewResolver(registry, fuzzy.NewScorer())
	tasks := services.NewTaskCollection(store)
	executor := services.NewExecutor(registry, tasks)
	engine := services.NewEngine(cron.NewTimers(nil), executor)
	taskService := services.NewTaskService(tasks, resolver, engine, executor)

	if err := taskService.Load(ctx); err != nil {
		return err
	}

	var taskDocument string
	if settings.Storage.Backend.IsDurable() {
		taskDocument = store.Path()
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Tasks:        taskService,
		Scheduler:    taskService,
		Operations:   registry,
		Resolver:     resolver,
		Settings:     settingsService,
		TaskDocument: taskDocument,
	})

	return cli.Execute(ctx)
}

// openTaskStore builds the task store for backend under dir.
func openTaskStore(backend domain.StorageBackend, dir string) (driven.TaskStore, func() error, error) {
	switch backend {
	case domain.StorageSQLite:
		store, err := sqlite.NewStore(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening task database: %w", err)
		}
		return store, store.Close, nil

	case domain.StorageMemory:
		return memory.NewTaskStore(), noClose, nil

	default:
		store, err := jsonfile.NewStore(filepath.Clean(dir))
		if err != nil {
			return nil, nil, fmt.Errorf("opening task document: %w", err)
		}
		return store, noClose, nil
	}
}

func noClose() error { return nil }
