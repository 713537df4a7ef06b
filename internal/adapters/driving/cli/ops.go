package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driving"
)

var (
	opsJSON       bool
	opsFindLimit  int
	opsParamsJSON string
	opsParams     []string
)

var opsCmd = &cobra.Command{
	Use:     "ops",
	Aliases: []string{"operations"},
	Short:   "Inspect and run registered operations",
}

var opsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered operations",
	Args:  cobra.NoArgs,
	RunE:  runOpsList,
}

var opsFindCmd = &cobra.Command{
	Use:   "find [query]",
	Short: "Find operations matching a free-text query",
	Long: `Rank registered operations by similarity to the query, matching both
names and descriptions. This is the same matching used by 'task create --query'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOpsFind,
}

var opsRunCmd = &cobra.Command{
	Use:   "run [name]",
	Short: "Run an operation once, outside any task",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpsRun,
}

func init() {
	opsListCmd.Flags().BoolVar(&opsJSON, "json", false, "output as JSON")
	opsFindCmd.Flags().BoolVar(&opsJSON, "json", false, "output as JSON")
	opsFindCmd.Flags().IntVarP(&opsFindLimit, "limit", "n", 0, "maximum number of candidates (default 3)")
	opsRunCmd.Flags().StringVar(&opsParamsJSON, "params", "", "params as a JSON object")
	opsRunCmd.Flags().StringArrayVarP(&opsParams, "param", "p", nil, "param as key=value (repeatable)")

	opsCmd.AddCommand(opsListCmd, opsFindCmd, opsRunCmd)
	rootCmd.AddCommand(opsCmd)
}

func runOpsList(cmd *cobra.Command, _ []string) error {
	if operationCatalog == nil {
		return errors.New("operation catalog not configured")
	}

	ops := operationCatalog.List()
	if wantJSON(cmd, opsJSON) {
		if ops == nil {
			ops = []domain.OperationInfo{}
		}
		return printJSON(cmd, ops)
	}

	rows := make([][]string, len(ops))
	for i, op := range ops {
		rows[i] = []string{op.Name, op.Description}
	}
	printTable(cmd, []string{"NAME", "DESCRIPTION"}, rows)
	return nil
}

func runOpsFind(cmd *cobra.Command, args []string) error {
	if nameResolver == nil {
		return errors.New("name resolver not configured")
	}

	query := strings.Join(args, " ")
	matches := nameResolver.Candidates(query, opsFindLimit)

	if wantJSON(cmd, opsJSON) {
		if matches == nil {
			matches = []driving.OperationMatch{}
		}
		return printJSON(cmd, matches)
	}

	if len(matches) == 0 {
		cmd.Printf("No operations match %q.\n", query)
		return nil
	}

	rows := make([][]string, len(matches))
	for i, m := range matches {
		rows[i] = []string{fmt.Sprintf("%.0f%%", m.Similarity*100), m.Name, m.Description}
	}
	printTable(cmd, []string{"MATCH", "NAME", "DESCRIPTION"}, rows)
	return nil
}

func runOpsRun(cmd *cobra.Command, args []string) error {
	if operationCatalog == nil {
		return errors.New("operation catalog not configured")
	}

	params, err := parseParams(opsParamsJSON, opsParams)
	if err != nil {
		return err
	}

	result, err := operationCatalog.Invoke(cmd.Context(), args[0], params)
	if err != nil {
		return err
	}

	for _, text := range result.Content {
		cmd.Println(text)
	}
	if result.IsError {
		return fmt.Errorf("%w: %s reported an error", domain.ErrExecution, args[0])
	}
	return nil
}
