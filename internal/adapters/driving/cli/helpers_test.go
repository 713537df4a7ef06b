package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tidy/internal/adapters/driven/cron"
	"github.com/custodia-labs/tidy/internal/adapters/driven/fuzzy"
	"github.com/custodia-labs/tidy/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/services"
	"github.com/custodia-labs/tidy/internal/operations"
)

// testStack is the real service graph over in-memory storage.
type testStack struct {
	tasks    *services.TaskService
	store    *memory.TaskStore
	settings *services.SettingsService
}

func setupTestServices(t *testing.T, seed ...domain.ScheduledTask) *testStack {
	t.Helper()

	registry := services.NewRegistry()
	require.NoError(t, operations.Register(registry))

	store := memory.NewTaskStore(seed...)
	collection := services.NewTaskCollection(store)
	executor := services.NewExecutor(registry, collection)
	timers := cron.NewTimers(time.UTC)
	engine := services.NewEngine(timers, executor)
	resolver := services.NewResolver(registry, fuzzy.NewScorer())
	tasks := services.NewTaskService(collection, resolver, engine, executor)
	require.NoError(t, tasks.Load(context.Background()))

	settings := services.NewSettingsService(memory.NewConfigStore())

	SetServices(Services{
		Tasks:      tasks,
		Scheduler:  tasks,
		Operations: registry,
		Resolver:   resolver,
		Settings:   settings,
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = timers.Stop(ctx)
		SetServices(Services{})
	})

	return &testStack{tasks: tasks, store: store, settings: settings}
}

// resetFlags restores every flag in the command tree to its default so
// values from one test do not leak into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCommand executes the root command with args and returns its output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func decodeJSON[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}
