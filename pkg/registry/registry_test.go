package registry

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/flowc/pkg/protocol"
	"github.com/dukex/flowc/pkg/spec"
)

type mockCompiler struct {
	stateType spec.StateType
	calls     int
}

func (m *mockCompiler) Compile(_ *protocol.Scope, _ *spec.State) (*protocol.Fragment, error) {
	m.calls++

	return &protocol.Fragment{Entry: 1}, nil
}

func (m *mockCompiler) Type() spec.StateType { return m.stateType }
func (m *mockCompiler) Name() string         { return "Mock" }
func (m *mockCompiler) Description() string  { return "mock compiler" }

func TestRegisterDefaultStates(t *testing.T) {
	registry := NewRegistry(slog.Default())
	registry.RegisterDefaultStates()

	expected := []spec.StateType{
		spec.StateTypeDelay,
		spec.StateTypeEvent,
		spec.StateTypeInject,
		spec.StateTypeOperation,
		spec.StateTypeParallel,
		spec.StateTypeSubflow,
		spec.StateTypeSwitch,
	}

	available := registry.Available()
	require.Len(t, available, len(expected))

	for i, c := range available {
		assert.Equal(t, expected[i], c.Type())
		assert.NotEmpty(t, c.Name())
		assert.NotEmpty(t, c.Description())
	}
}

func TestRegistry_Compile(t *testing.T) {
	registry := NewRegistry(slog.Default())
	mock := &mockCompiler{stateType: spec.StateTypeDelay}
	registry.Register(mock)

	fragment, err := registry.Compile(nil, &spec.State{Name: "wait", Type: spec.StateTypeDelay})
	require.NoError(t, err)
	assert.Equal(t, int64(1), fragment.Entry)
	assert.Equal(t, 1, mock.calls)
}

func TestRegistry_UnsupportedState(t *testing.T) {
	registry := NewRegistry(slog.Default())

	_, err := registry.Compile(nil, &spec.State{Name: "loop", Type: spec.StateType("loop")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedState)

	var stateErr *protocol.StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "loop", stateErr.State)
}

func TestRegistry_ReplacesCompiler(t *testing.T) {
	registry := NewRegistry(slog.Default())
	registry.RegisterDefaultStates()

	mock := &mockCompiler{stateType: spec.StateTypeInject}
	registry.Register(mock)

	c, err := registry.Compiler(spec.StateTypeInject)
	require.NoError(t, err)
	assert.Same(t, mock, c)
}

func TestRegistry_LoadPluginsEmptyDir(t *testing.T) {
	registry := NewRegistry(slog.Default())

	loaded, err := registry.LoadPlugins(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
