package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tidy/internal/core/domain"
)

func newEngineFixture(t *testing.T, tasks ...domain.ScheduledTask) (*Engine, *fakeTimers, *TaskCollection) {
	t.Helper()
	registry := NewRegistry()
	require.NoError(t, registry.Register("System_Echo", "Echo", echoHandler))

	collection := NewTaskCollection(newMockTaskStore(tasks...))
	require.NoError(t, collection.Load(context.Background()))

	timers := newFakeTimers()
	return NewEngine(timers, NewExecutor(registry, collection)), timers, collection
}

func TestEngine_Schedule(t *testing.T) {
	engine, timers, _ := newEngineFixture(t)

	t.Run("enabled task is armed", func(t *testing.T) {
		require.NoError(t, engine.Schedule(sampleTask("a")))
		assert.True(t, engine.IsScheduled("a"))
		_, ok := engine.NextRun("a")
		assert.True(t, ok)
	})

	t.Run("rescheduling replaces the timer", func(t *testing.T) {
		task := sampleTask("a")
		task.CronExpression = "*/5 * * * *"
		require.NoError(t, engine.Schedule(task))
		assert.Equal(t, 1, timers.Len())
		assert.Equal(t, "*/5 * * * *", timers.live["a"].expr)
	})

	t.Run("disabled task is disarmed", func(t *testing.T) {
		task := sampleTask("a")
		task.Enabled = false
		require.NoError(t, engine.Schedule(task))
		assert.False(t, engine.IsScheduled("a"))
		assert.Zero(t, timers.Len())
	})

	t.Run("invalid expression", func(t *testing.T) {
		require.NoError(t, engine.Schedule(sampleTask("b")))
		task := sampleTask("b")
		task.CronExpression = "invalid cron"

		err := engine.Schedule(task)

		assert.ErrorIs(t, err, domain.ErrSchedule)
		assert.Contains(t, err.Error(), "invalid cron")
		assert.False(t, engine.IsScheduled("b"), "old timer must not survive a failed reschedule")
	})
}

func TestEngine_Unschedule(t *testing.T) {
	engine, _, _ := newEngineFixture(t)
	require.NoError(t, engine.Schedule(sampleTask("a")))

	assert.True(t, engine.Unschedule("a"))
	assert.False(t, engine.Unschedule("a"))
	assert.False(t, engine.IsScheduled("a"))
}

func TestEngine_Validate(t *testing.T) {
	engine, _, _ := newEngineFixture(t)

	assert.NoError(t, engine.Validate("0 2 * * *"))
	assert.ErrorIs(t, engine.Validate("invalid"), domain.ErrSchedule)
}

func TestEngine_Restore(t *testing.T) {
	disabled := sampleTask("off")
	disabled.Enabled = false
	broken := sampleTask("broken")
	broken.CronExpression = "invalid"

	engine, timers, _ := newEngineFixture(t)

	failed := engine.Restore([]domain.ScheduledTask{sampleTask("a"), disabled, broken, sampleTask("b")})

	assert.Equal(t, 1, failed)
	assert.True(t, engine.IsScheduled("a"))
	assert.True(t, engine.IsScheduled("b"))
	assert.False(t, engine.IsScheduled("off"))
	assert.False(t, engine.IsScheduled("broken"))
	assert.Equal(t, 2, timers.Len())
}

func TestEngine_Restore_Reconciles(t *testing.T) {
	engine, timers, _ := newEngineFixture(t)
	engine.Restore([]domain.ScheduledTask{sampleTask("keep"), sampleTask("change"), sampleTask("drop")})

	changed := sampleTask("change")
	changed.CronExpression = "@hourly"
	engine.Restore([]domain.ScheduledTask{sampleTask("keep"), changed})

	assert.Equal(t, 1, timers.armCount("keep"), "unchanged timer keeps running")
	assert.Equal(t, 2, timers.armCount("change"))
	assert.Equal(t, "@hourly", timers.live["change"].expr)
	assert.False(t, engine.IsScheduled("drop"))
}

func TestEngine_FireRecordsHistory(t *testing.T) {
	engine, timers, collection := newEngineFixture(t, sampleTask("a"))
	require.NoError(t, engine.Schedule(sampleTask("a")))

	require.True(t, timers.Fire(context.Background(), "a"))
	require.True(t, timers.Fire(context.Background(), "a"))

	task, _ := collection.Find("a")
	assert.Len(t, task.ExecutionHistory, 2)
	assert.Equal(t, domain.ExecutionSuccess, task.LastRunResult)
}

func TestEngine_FireForDeletedTaskIsContained(t *testing.T) {
	engine, timers, collection := newEngineFixture(t, sampleTask("a"))
	require.NoError(t, engine.Schedule(sampleTask("a")))
	collection.Remove(context.Background(), "a")

	assert.NotPanics(t, func() { timers.Fire(context.Background(), "a") })
}

func TestEngine_StartStop(t *testing.T) {
	engine, timers, _ := newEngineFixture(t)

	engine.Start()
	require.NoError(t, engine.Stop(context.Background()))

	assert.True(t, timers.started)
	assert.True(t, timers.stopped)
}
