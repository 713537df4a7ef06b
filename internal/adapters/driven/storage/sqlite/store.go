package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/tidy/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driven"
)

// DatabaseFileName is the database file within the data directory.
const DatabaseFileName = "scheduled-tasks.db"

// Ensure Store implements the interface.
var _ driven.TaskStore = (*Store)(nil)

// Store is a SQLite-backed task store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the task database in dataDir.
// If dataDir is empty, defaults to ~/.tidy.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".tidy")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFileName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps PRAGMAs and transactions on the same handle.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies every NNN_name.up.sql newer than the recorded version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// Load reads every task in stored order, with its execution history.
func (s *Store) Load(ctx context.Context) ([]domain.ScheduledTask, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, cron_expression, tool_name, tool_params, enabled,
		       created_at, updated_at, last_run_at, last_run_result
		FROM scheduled_tasks ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying scheduled tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.ScheduledTask{}
	index := make(map[string]int)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		index[task.ID] = len(tasks)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scheduled tasks: %w", err)
	}

	if err := s.loadHistory(ctx, tasks, index); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) loadHistory(ctx context.Context, tasks []domain.ScheduledTask, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT task_id, timestamp, result, details
		FROM task_executions ORDER BY task_id, seq
	`)
	if err != nil {
		return fmt.Errorf("querying task executions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, ts, result, details string
		if err := rows.Scan(&taskID, &ts, &result, &details); err != nil {
			return fmt.Errorf("scanning task execution: %w", err)
		}
		i, ok := index[taskID]
		if !ok {
			continue
		}
		at, err := parseTime(ts)
		if err != nil {
			return fmt.Errorf("task %s execution timestamp: %w", taskID, err)
		}
		tasks[i].ExecutionHistory = append(tasks[i].ExecutionHistory, domain.TaskExecutionRecord{
			Timestamp: at,
			Result:    domain.ExecutionResult(result),
			Details:   details,
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating task executions: %w", err)
	}
	return nil
}

// Save replaces all stored tasks with tasks in a single transaction.
func (s *Store) Save(ctx context.Context, tasks []domain.ScheduledTask) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM task_executions"); err != nil {
		return fmt.Errorf("clearing task executions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM scheduled_tasks"); err != nil {
		return fmt.Errorf("clearing scheduled tasks: %w", err)
	}

	for i := range tasks {
		if err := insertTask(ctx, tx, i, &tasks[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing tasks: %w", err)
	}
	return nil
}

func insertTask(ctx context.Context, tx *sql.Tx, position int, t *domain.ScheduledTask) error {
	params := t.ToolParams
	if params == nil {
		params = domain.Params{}
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encoding params for task %s: %w", t.ID, err)
	}

	var lastRunAt, lastRunResult sql.NullString
	if t.LastRunAt != nil {
		lastRunAt = sql.NullString{String: formatTime(*t.LastRunAt), Valid: true}
	}
	if t.LastRunResult != "" {
		lastRunResult = sql.NullString{String: t.LastRunResult.String(), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO scheduled_tasks (id, position, name, cron_expression, tool_name, tool_params,
		                             enabled, created_at, updated_at, last_run_at, last_run_result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, position, t.Name, t.CronExpression, t.ToolName, string(paramsJSON),
		boolToInt(t.Enabled), formatTime(t.CreatedAt), formatTime(t.UpdatedAt), lastRunAt, lastRunResult)
	if err != nil {
		return fmt.Errorf("inserting task %s: %w", t.ID, err)
	}

	for seq, rec := range t.ExecutionHistory {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO task_executions (task_id, seq, timestamp, result, details)
			VALUES (?, ?, ?, ?, ?)
		`, t.ID, seq, formatTime(rec.Timestamp), rec.Result.String(), rec.Details)
		if err != nil {
			return fmt.Errorf("inserting execution %d of task %s: %w", seq, t.ID, err)
		}
	}
	return nil
}

func scanTask(rows *sql.Rows) (domain.ScheduledTask, error) {
	var (
		t                        domain.ScheduledTask
		paramsJSON               string
		enabled                  int
		createdAt, updatedAt     string
		lastRunAt, lastRunResult sql.NullString
	)

	err := rows.Scan(&t.ID, &t.Name, &t.CronExpression, &t.ToolName, &paramsJSON, &enabled,
		&createdAt, &updatedAt, &lastRunAt, &lastRunResult)
	if err != nil {
		return t, fmt.Errorf("scanning task: %w", err)
	}

	if err := json.Unmarshal([]byte(paramsJSON), &t.ToolParams); err != nil {
		return t, fmt.Errorf("decoding params for task %s: %w", t.ID, err)
	}
	t.Enabled = enabled != 0

	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return t, fmt.Errorf("task %s created_at: %w", t.ID, err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return t, fmt.Errorf("task %s updated_at: %w", t.ID, err)
	}
	if lastRunAt.Valid {
		at, err := parseTime(lastRunAt.String)
		if err != nil {
			return t, fmt.Errorf("task %s last_run_at: %w", t.ID, err)
		}
		t.LastRunAt = &at
	}
	if lastRunResult.Valid {
		t.LastRunResult = domain.ExecutionResult(lastRunResult.String)
	}
	return t, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
