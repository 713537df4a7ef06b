package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driving"
)

var (
	taskJSON         bool
	taskName         string
	taskCron         string
	taskTool         string
	taskQuery        string
	taskParamsJSON   string
	taskParams       []string
	taskDisabled     bool
	taskEnabled      bool
	taskHistoryLimit int
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks"},
	Short:   "Manage scheduled tasks",
	Long: `Create, inspect and run scheduled tasks.

A task binds a schedule to one operation with fixed parameters. Schedules
accept cron expressions ("0 2 * * *", "@daily") or intervals ("15m", "01:30").`,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a task with its execution history",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task",
	Long: `Create a scheduled task.

Pick the operation with --tool (exact name) or --query (free text), not both.

Examples:
  tidy task create --name nightly --cron "0 2 * * *" --tool Hash_File --param path=/var/log/syslog
  tidy task create --name logs --cron 1h --query "list files matching glob" --param pattern='**/*.log'`,
	Args: cobra.NoArgs,
	RunE: runTaskCreate,
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update fields of a task",
	Long: `Update a task. Only the flags given are changed.
--param and --params replace the whole parameter set.`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskUpdate,
}

var taskEnableCmd = &cobra.Command{
	Use:   "enable [id]",
	Short: "Enable a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskEnable,
}

var taskDisableCmd = &cobra.Command{
	Use:   "disable [id]",
	Short: "Disable a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDisable,
}

var taskDeleteCmd = &cobra.Command{
	Use:     "delete [id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskDelete,
}

var taskRunCmd = &cobra.Command{
	Use:   "run [id]",
	Short: "Run a task now",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskRun,
}

var taskHistoryCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show recent executions of a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskHistory,
}

func init() {
	taskListCmd.Flags().BoolVar(&taskJSON, "json", false, "output as JSON")
	taskHistoryCmd.Flags().BoolVar(&taskJSON, "json", false, "output as JSON")
	taskHistoryCmd.Flags().IntVarP(&taskHistoryLimit, "limit", "n", driving.DefaultHistoryLimit, "number of records (max 20)")

	for _, c := range []*cobra.Command{taskCreateCmd, taskUpdateCmd} {
		c.Flags().StringVar(&taskName, "name", "", "task name")
		c.Flags().StringVar(&taskCron, "cron", "", "cron expression or interval")
		c.Flags().StringVar(&taskTool, "tool", "", "exact operation name")
		c.Flags().StringVar(&taskQuery, "query", "", "free-text operation query")
		c.Flags().StringVar(&taskParamsJSON, "params", "", "operation params as a JSON object")
		c.Flags().StringArrayVarP(&taskParams, "param", "p", nil, "operation param as key=value (repeatable)")
	}
	taskCreateCmd.Flags().BoolVar(&taskDisabled, "disabled", false, "create without arming the schedule")
	taskUpdateCmd.Flags().BoolVar(&taskEnabled, "enabled", true, "enable or disable the task")

	taskCmd.AddCommand(taskListCmd, taskShowCmd, taskCreateCmd, taskUpdateCmd,
		taskEnableCmd, taskDisableCmd, taskDeleteCmd, taskRunCmd, taskHistoryCmd)
	rootCmd.AddCommand(taskCmd)
}

func requireTaskService() error {
	if taskService == nil {
		return errors.New("task service not configured")
	}
	return nil
}

func runTaskList(cmd *cobra.Command, _ []string) error {
	if err := requireTaskService(); err != nil {
		return err
	}

	tasks, err := taskService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if wantJSON(cmd, taskJSON) {
		if tasks == nil {
			tasks = []driving.TaskSummary{}
		}
		return printJSON(cmd, tasks)
	}

	if len(tasks) == 0 {
		cmd.Println("No tasks. Create one with 'tidy task create'.")
		return nil
	}

	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		state := "disabled"
		if t.Enabled {
			state = "enabled"
		}
		last := "-"
		if t.LastRunResult != "" {
			last = fmt.Sprintf("%s (%s)", formatWhen(t.LastRunAt), t.LastRunResult)
		}
		rows[i] = []string{t.ID, t.Name, t.CronExpression, t.ToolName, state, formatWhen(t.NextRunAt), last}
	}
	printTable(cmd, []string{"ID", "NAME", "SCHEDULE", "OPERATION", "STATE", "NEXT RUN", "LAST RUN"}, rows)
	return nil
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	if err := requireTaskService(); err != nil {
		return err
	}

	task, err := taskService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, task)
}

func runTaskCreate(cmd *cobra.Command, _ []string) error {
	if err := requireTaskService(); err != nil {
		return err
	}

	params, err := parseParams(taskParamsJSON, taskParams)
	if err != nil {
		return err
	}
	enabled := !taskDisabled

	task, err := taskService.Create(cmd.Context(), driving.CreateTaskRequest{
		Name:           taskName,
		CronExpression: taskCron,
		ToolName:       taskTool,
		ToolQuery:      taskQuery,
		ToolParams:     params,
		Enabled:        &enabled,
	})
	if task == nil {
		return err
	}

	cmd.Printf("Created task %s (%s) running %s\n", task.ID, task.Name, task.ToolName)
	return err
}

func runTaskUpdate(cmd *cobra.Command, args []string) error {
	if err := requireTaskService(); err != nil {
		return err
	}

	var req driving.UpdateTaskRequest
	flags := cmd.Flags()
	if flags.Changed("name") {
		req.Name = &taskName
	}
	if flags.Changed("cron") {
		req.CronExpression = &taskCron
	}
	if flags.Changed("tool") {
		req.ToolName = &taskTool
	}
	if flags.Changed("query") {
		req.ToolQuery = &taskQuery
	}
	if flags.Changed("params") || flags.Changed("param") {
		params, err := parseParams(taskParamsJSON, taskParams)
		if err != nil {
			return err
		}
		req.ToolParams = params
	}
	if flags.Changed("enabled") {
		req.Enabled = &taskEnabled
	}

	task, err := taskService.Update(cmd.Context(), args[0], req)
	if task == nil {
		return err
	}

	cmd.Printf("Updated task %s (%s)\n", task.ID, task.Name)
	return err
}

func runTaskEnable(cmd *cobra.Command, args []string) error {
	if err := requireTaskService(); err != nil {
		return err
	}

	task, changed, err := taskService.Enable(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printStateChange(cmd, task, changed, "enabled")
	return nil
}

func runTaskDisable(cmd *cobra.Command, args []string) error {
	if err := requireTaskService(); err != nil {
		return err
	}

	task, changed, err := taskService.Disable(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printStateChange(cmd, task, changed, "disabled")
	return nil
}

func printStateChange(cmd *cobra.Command, task *domain.ScheduledTask, changed bool, state string) {
	if changed {
		cmd.Printf("Task %s (%s) %s\n", task.ID, task.Name, state)
		return
	}
	cmd.Printf("Task %s (%s) is already %s\n", task.ID, task.Name, state)
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	if err := requireTaskService(); err != nil {
		return err
	}

	if err := taskService.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted task %s\n", args[0])
	return nil
}

func runTaskRun(cmd *cobra.Command, args []string) error {
	if err := requireTaskService(); err != nil {
		return err
	}

	record, err := taskService.RunNow(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	cmd.Printf("[%s] %s\n", record.Result, record.Details)
	return nil
}

func runTaskHistory(cmd *cobra.Command, args []string) error {
	if err := requireTaskService(); err != nil {
		return err
	}

	records, err := taskService.History(cmd.Context(), args[0], taskHistoryLimit)
	if err != nil {
		return err
	}

	if wantJSON(cmd, taskJSON) {
		if records == nil {
			records = []domain.TaskExecutionRecord{}
		}
		return printJSON(cmd, records)
	}

	if len(records) == 0 {
		cmd.Println("No executions recorded.")
		return nil
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		ts := r.Timestamp
		rows[i] = []string{formatWhen(&ts), r.Result.String(), r.Details}
	}
	printTable(cmd, []string{"TIME", "RESULT", "DETAILS"}, rows)
	return nil
}
