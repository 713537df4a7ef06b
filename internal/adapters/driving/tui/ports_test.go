package tui

import (
	"context"
	"time"

	"github.com/custodia-labs/tidy/internal/core/domain"
	"github.com/custodia-labs/tidy/internal/core/ports/driving"
)

// MockTaskService implements driving.TaskService for testing.
type MockTaskService struct {
	ListFunc   func(ctx context.Context) ([]driving.TaskSummary, error)
	GetFunc    func(ctx context.Context, id string) (*domain.ScheduledTask, error)
	RunNowFunc func(ctx context.Context, id string) (domain.TaskExecutionRecord, error)
}

func (m *MockTaskService) Create(context.Context, driving.CreateTaskRequest) (*domain.ScheduledTask, error) {
	return nil, nil
}

func (m *MockTaskService) List(ctx context.Context) ([]driving.TaskSummary, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []driving.TaskSummary{}, nil
}

func (m *MockTaskService) Get(ctx context.Context, id string) (*domain.ScheduledTask, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockTaskService) Update(context.Context, string, driving.UpdateTaskRequest) (*domain.ScheduledTask, error) {
	return nil, nil
}

func (m *MockTaskService) Enable(_ context.Context, id string) (*domain.ScheduledTask, bool, error) {
	return &domain.ScheduledTask{ID: id, Name: id, Enabled: true}, true, nil
}

func (m *MockTaskService) Disable(_ context.Context, id string) (*domain.ScheduledTask, bool, error) {
	return &domain.ScheduledTask{ID: id, Name: id}, false, nil
}

func (m *MockTaskService) Delete(context.Context, string) error {
	return nil
}

func (m *MockTaskService) RunNow(ctx context.Context, id string) (domain.TaskExecutionRecord, error) {
	if m.RunNowFunc != nil {
		return m.RunNowFunc(ctx, id)
	}
	return domain.TaskExecutionRecord{Timestamp: time.Now(), Result: domain.ExecutionSuccess}, nil
}

func (m *MockTaskService) History(context.Context, string, int) ([]domain.TaskExecutionRecord, error) {
	return nil, nil
}
