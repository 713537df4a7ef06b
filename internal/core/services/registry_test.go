package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tidy/internal/core/domain"
)

func echoHandler(_ context.Context, params domain.Params) (*domain.OperationResult, error) {
	msg, _ := params["message"].(string)
	return domain.TextResult(msg), nil
}

func TestRegistry_RegisterAndInvoke(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("System_Echo", "Echo a message", echoHandler))

	result, err := r.Invoke(context.Background(), "System_Echo", domain.Params{"message": "hi"})

	require.NoError(t, err)
	assert.Equal(t, "hi", result.Text())
	assert.True(t, r.Has("System_Echo"))
	assert.False(t, r.Has("system_echo"))
}

func TestRegistry_Register_Validation(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name    string
		opName  string
		handler domain.OperationHandler
	}{
		{"empty name", "", echoHandler},
		{"blank name", "   ", echoHandler},
		{"nil handler", "Op", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.opName, "", tt.handler)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, r.List())
}

func TestRegistry_Register_DuplicateKeepsFirst(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Op", "first", echoHandler))

	err := r.Register("Op", "second", func(context.Context, domain.Params) (*domain.OperationResult, error) {
		return domain.TextResult("second"), nil
	})

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	result, err := r.Invoke(context.Background(), "Op", domain.Params{"message": "first"})
	require.NoError(t, err)
	assert.Equal(t, "first", result.Text())
	assert.Equal(t, "first", r.List()[0].Description)
}

func TestRegistry_Invoke_Unknown(t *testing.T) {
	r := NewRegistry()

	result, err := r.Invoke(context.Background(), "Missing", nil)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "Missing")
}

func TestRegistry_Invoke_PassesResultAndErrorVerbatim(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	require.NoError(t, r.Register("Fails", "", func(context.Context, domain.Params) (*domain.OperationResult, error) {
		return nil, boom
	}))
	require.NoError(t, r.Register("Reports", "", func(context.Context, domain.Params) (*domain.OperationResult, error) {
		return domain.ErrorResult("bad path"), nil
	}))

	_, err := r.Invoke(context.Background(), "Fails", nil)
	assert.ErrorIs(t, err, boom)

	result, err := r.Invoke(context.Background(), "Reports", nil)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "bad path", result.Text())
}

func TestRegistry_Invoke_RecoversPanic(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Panics", "", func(context.Context, domain.Params) (*domain.OperationResult, error) {
		panic("kaboom")
	}))

	result, err := r.Invoke(context.Background(), "Panics", nil)

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestRegistry_List_SortedSnapshot(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Zeta", "z", echoHandler))
	require.NoError(t, r.Register("Alpha", "a", echoHandler))
	require.NoError(t, r.Register("Mid", "m", echoHandler))

	list := r.List()

	require.Len(t, list, 3)
	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, []string{list[0].Name, list[1].Name, list[2].Name})

	list[0].Name = "mutated"
	assert.Equal(t, "Alpha", r.List()[0].Name)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("System_Echo", "", echoHandler))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = r.Invoke(context.Background(), "System_Echo", domain.Params{"message": "x"})
		}()
		go func() {
			defer wg.Done()
			_ = r.List()
		}()
	}
	wg.Wait()
}
