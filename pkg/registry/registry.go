// Package registry dispatches workflow states to the compiler registered for their type.
package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"plugin"
	"sort"

	"github.com/dukex/flowc/pkg/protocol"
	"github.com/dukex/flowc/pkg/spec"
)

// PluginSymbol is the exported symbol a state compiler plugin must provide.
const PluginSymbol = "State"

// ErrUnsupportedState indicates a state type without a registered compiler.
var ErrUnsupportedState = errors.New("unsupported state type")

type Registry struct {
	logger    *slog.Logger
	compilers map[spec.StateType]protocol.StateCompiler
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:    log.With("module", "registry"),
		compilers: make(map[spec.StateType]protocol.StateCompiler),
	}
}

// Register adds a state compiler, replacing any compiler registered for the same type.
func (r *Registry) Register(compiler protocol.StateCompiler) {
	if _, exists := r.compilers[compiler.Type()]; exists {
		r.logger.Warn("Replacing state compiler", "type", compiler.Type())
	}

	r.compilers[compiler.Type()] = compiler
}

// Compiler returns the compiler registered for stateType.
func (r *Registry) Compiler(stateType spec.StateType) (protocol.StateCompiler, error) {
	compiler, ok := r.compilers[stateType]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedState, stateType)
	}

	return compiler, nil
}

// Compile dispatches state to its compiler.
func (r *Registry) Compile(scope *protocol.Scope, state *spec.State) (*protocol.Fragment, error) {
	compiler, err := r.Compiler(state.Type)
	if err != nil {
		return nil, &protocol.StateError{State: state.Name, Err: err}
	}

	return compiler.Compile(scope, state)
}

// Available returns the registered compilers ordered by state type.
func (r *Registry) Available() []protocol.StateCompiler {
	out := make([]protocol.StateCompiler, 0, len(r.compilers))
	for _, c := range r.compilers {
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Type() < out[j].Type() })

	return out
}

// LoadPlugins opens every shared object under pluginsPath and registers the state compiler
// each one exports as PluginSymbol.
func (r *Registry) LoadPlugins(pluginsPath string) ([]protocol.StateCompiler, error) {
	root := os.DirFS(pluginsPath)

	pluginPathList, err := fs.Glob(root, "*.so")
	if err != nil {
		return nil, err
	}

	l := r.logger.With(slog.String("path", pluginsPath))
	l.Info("Loading plugins", "count", len(pluginPathList))

	loaded := make([]protocol.StateCompiler, 0, len(pluginPathList))

	for _, p := range pluginPathList {
		plg, err := plugin.Open(filepath.Join(pluginsPath, p))
		if err != nil {
			return nil, fmt.Errorf("failed to open plugin %s: %w", p, err)
		}

		v, err := plg.Lookup(PluginSymbol)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", p, err)
		}

		compiler, ok := v.(protocol.StateCompiler)
		if !ok {
			if ptr, isPtr := v.(*protocol.StateCompiler); isPtr && ptr != nil {
				compiler = *ptr
			} else {
				return nil, fmt.Errorf("plugin %s: symbol %s is not a state compiler", p, PluginSymbol)
			}
		}

		r.Register(compiler)
		loaded = append(loaded, compiler)

		l.Info("Loaded state plugin", slog.String("plugin", p), slog.String("type", string(compiler.Type())))
	}

	return loaded, nil
}
