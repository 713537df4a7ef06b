// Package cli implements the tidy command line on cobra.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tidy/internal/core/ports/driving"
	"github.com/custodia-labs/tidy/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

var verbose bool

// Services injected by the composition root.
var (
	taskService      driving.TaskService
	schedulerService driving.Scheduler
	operationCatalog driving.OperationCatalog
	nameResolver     driving.NameResolver
	settingsService  driving.SettingsService

	// taskDocument is the path watched by serve --watch.
	taskDocument string
)

// Services groups the driving ports the commands use.
type Services struct {
	Tasks      driving.TaskService
	Scheduler  driving.Scheduler
	Operations driving.OperationCatalog
	Resolver   driving.NameResolver
	Settings   driving.SettingsService

	// TaskDocument is the on-disk task document, if the backend has one.
	TaskDocument string
}

var rootCmd = &cobra.Command{
	Use:   "tidy",
	Short: "Run operations on cron schedules",
	Long: `tidy schedules registered operations to run on cron expressions or
intervals, records their execution history, and exposes everything as MCP
tools so an assistant can manage the schedule.

Operations can be chosen by exact name or by a free-text query that is
matched against operation names and descriptions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output on stderr")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices injects the services used by all commands.
func SetServices(s Services) {
	taskService = s.Tasks
	schedulerService = s.Scheduler
	operationCatalog = s.Operations
	nameResolver = s.Resolver
	settingsService = s.Settings
	taskDocument = s.TaskDocument
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
