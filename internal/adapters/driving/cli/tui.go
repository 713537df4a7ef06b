package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tidy/internal/adapters/driving/tui"
	"github.com/custodia-labs/tidy/internal/logger"
)

var tuiNoScheduler bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for tidy.

The TUI lists scheduled tasks and lets you run, enable, disable and
delete them. Timers keep firing in the background while it is open.

Controls:
  ↑/k, ↓/j   - Navigate tasks
  Enter      - Show task details and history
  r          - Run now
  Space/e    - Enable / disable
  d          - Delete
  Ctrl+r     - Refresh
  Esc        - Back
  ?          - Toggle help
  q          - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiNoScheduler, "no-scheduler", false, "do not fire timers while the TUI is open")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if taskService == nil {
		return errors.New("task service not configured")
	}

	app, err := tui.NewApp(&tui.Ports{Tasks: taskService})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if schedulerService != nil && !tuiNoScheduler {
		if err := schedulerService.Start(cmd.Context()); err != nil {
			// Timers are optional here; the list still works.
			logger.Warn("scheduler not started: %v", err)
		} else {
			defer stopScheduler()
		}
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
