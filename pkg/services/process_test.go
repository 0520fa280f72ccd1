package services

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dukex/flowc/pkg/compiler"
	"github.com/dukex/flowc/pkg/events"
	"github.com/dukex/flowc/pkg/factory"
	"github.com/dukex/flowc/pkg/mocks"
	"github.com/dukex/flowc/pkg/persistence"
	"github.com/dukex/flowc/pkg/persistence/file"
	"github.com/dukex/flowc/pkg/registry"
	"github.com/dukex/flowc/pkg/spec"
	"github.com/dukex/flowc/pkg/testutil"
)

func newService(t *testing.T, p persistence.Persistence, bus *mocks.MockEventBus) *Process {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	reg := registry.NewRegistry(logger)
	reg.RegisterDefaultStates()

	c := compiler.NewCompiler(logger, factory.NewFactory(logger, factory.Config{}), reg, nil)

	if bus == nil {
		return NewProcess(logger, c, p, nil)
	}

	return NewProcess(logger, c, p, bus)
}

func TestProcess_Compile(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.MatchedBy(func(e *events.ProcessCompiled) bool { return e.GetProcessID() == "greeting" })).Return(nil).Once()

	store := file.NewPersistence(t.TempDir())
	service := newService(t, store, bus)

	process, err := service.Compile(t.Context(), []byte(testutil.GreetingWorkflow), spec.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "greeting", process.ID)
	assert.Equal(t, "1.0", process.Version)

	stored, err := store.ProcessByID(t.Context(), "greeting")
	require.NoError(t, err)
	assert.Equal(t, process.NodeCount(), stored.NodeCount())

	bus.AssertExpectations(t)

	event, ok := bus.Calls[0].Arguments.Get(1).(*events.ProcessCompiled)
	require.True(t, ok)
	assert.Equal(t, process.NodeCount(), event.NodeCount)
}

func TestProcess_CompileYAML(t *testing.T) {
	service := newService(t, file.NewPersistence(t.TempDir()), nil)

	process, err := service.Compile(t.Context(), []byte(testutil.GreetingWorkflowYAML), spec.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "greeting", process.ID)
}

func TestProcess_CompileConflict(t *testing.T) {
	service := newService(t, file.NewPersistence(t.TempDir()), nil)

	_, err := service.Compile(t.Context(), []byte(testutil.GreetingWorkflow), spec.FormatJSON)
	require.NoError(t, err)

	_, err = service.Compile(t.Context(), []byte(testutil.GreetingWorkflow), spec.FormatJSON)
	require.Error(t, err)
	assert.True(t, IsConflictError(err))

	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "PROCESS_EXISTS", serviceErr.Code)
}

func TestProcess_CompileInvalid(t *testing.T) {
	store := &mocks.MockPersistence{}
	service := newService(t, store, nil)

	tests := []struct {
		name     string
		document string
		code     string
	}{
		{name: "empty", document: "", code: "EMPTY_DOCUMENT"},
		{name: "malformed", document: "{", code: "INVALID_DOCUMENT"},
		{name: "schema", document: `{"id": "x"}`, code: "INVALID_DOCUMENT"},
		{
			name: "dangling_transition",
			document: `{
				"id": "broken", "name": "Broken", "start": "A",
				"states": [{"name": "A", "type": "inject", "data": {}, "transition": "B"}]
			}`,
			code: "INVALID_WORKFLOW",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Compile(t.Context(), []byte(tt.document), spec.FormatJSON)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))

			var serviceErr *ServiceError
			require.ErrorAs(t, err, &serviceErr)
			assert.Equal(t, tt.code, serviceErr.Code)
		})
	}

	store.AssertNotCalled(t, "SaveProcess", mock.Anything, mock.Anything)
}

func TestProcess_Validate(t *testing.T) {
	store := &mocks.MockPersistence{}
	service := newService(t, store, nil)

	process, err := service.Validate(t.Context(), []byte(testutil.GreetingWorkflow), spec.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "greeting", process.ID)

	store.AssertNotCalled(t, "SaveProcess", mock.Anything, mock.Anything)
}

func TestProcess_GetListDelete(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	service := newService(t, file.NewPersistence(t.TempDir()), bus)

	_, err := service.Compile(t.Context(), []byte(testutil.GreetingWorkflow), spec.FormatJSON)
	require.NoError(t, err)

	process, err := service.Get(t.Context(), "greeting")
	require.NoError(t, err)
	assert.Equal(t, "Greeting workflow", process.Name)

	processes, err := service.List(t.Context())
	require.NoError(t, err)
	assert.Len(t, processes, 1)

	require.NoError(t, service.Delete(t.Context(), "greeting"))
	bus.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e *events.ProcessDeleted) bool { return e.GetProcessID() == "greeting" }))

	_, err = service.Get(t.Context(), "greeting")
	assert.True(t, IsNotFoundError(err))

	err = service.Delete(t.Context(), "greeting")
	assert.True(t, IsNotFoundError(err))

	_, err = service.Get(t.Context(), "")
	assert.True(t, IsValidationError(err))
}

func TestProcess_PublishFailureIsNotFatal(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	service := newService(t, file.NewPersistence(t.TempDir()), bus)

	_, err := service.Compile(t.Context(), []byte(testutil.GreetingWorkflow), spec.FormatJSON)
	assert.NoError(t, err)
}

func TestProcess_HealthCheck(t *testing.T) {
	store := &mocks.MockPersistence{}
	store.On("HealthCheck", mock.Anything).Return(errors.New("connection refused")).Once()
	store.On("HealthCheck", mock.Anything).Return(nil)

	service := newService(t, store, nil)

	message, ok := service.HealthCheck(t.Context())
	assert.False(t, ok)
	assert.Contains(t, message, "connection refused")

	_, ok = service.HealthCheck(t.Context())
	assert.True(t, ok)
}
