// Package factory builds the nodes of a compiled process graph, one operation per node kind.
//
// Every operation creates a node, populates the metadata vocabulary the runtime engine relies
// on, wires triggers and data mappings, and inserts the node into the container it is given.
// Operations are synchronous and perform no I/O; the container and process passed in are
// owned by the caller for the duration of the call.
package factory

import (
	"log/slog"

	"github.com/dukex/flowc/pkg/models"
	"github.com/dukex/flowc/pkg/spec"
)

const (
	// DefaultPackageName is used when neither the workflow nor the configuration sets one.
	DefaultPackageName = "org.flowc.workflows"

	// PackageMetadataKey is the workflow metadata entry overriding the package name.
	PackageMetadataKey = "package"

	// MessageTypePrefix prefixes the event source to form a message correlation type.
	MessageTypePrefix = "Message-"

	// InputParameter and OutputParameter are the node-local names workflow data maps to.
	InputParameter  = "Parameter"
	OutputParameter = "Result"

	// EventParameter is the trigger-local name an incoming message is bound to.
	EventParameter = "event"
)

// Config holds process-level defaults applied by CreateProcess.
type Config struct {
	PackageName string
	Visibility  string
}

// Factory builds process definitions and their nodes. It holds no per-compilation state and
// can be shared between goroutines compiling independent workflows.
type Factory struct {
	logger *slog.Logger
	config Config
}

// NewFactory creates a node factory.
func NewFactory(logger *slog.Logger, config Config) *Factory {
	if config.PackageName == "" {
		config.PackageName = DefaultPackageName
	}

	if config.Visibility == "" {
		config.Visibility = models.VisibilityPublic
	}

	return &Factory{
		logger: logger.With("module", "factory"),
		config: config,
	}
}

// CreateProcess creates the process definition for a workflow, declaring the workflow data
// variable every message and task maps against.
func (f *Factory) CreateProcess(workflow *spec.Workflow) (*models.ProcessDefinition, error) {
	if workflow == nil {
		return nil, invalid("CreateProcess", 0, "workflow is required")
	}

	if workflow.ID == "" || workflow.Name == "" {
		return nil, invalid("CreateProcess", 0, "workflow id and name are required")
	}

	packageName := f.config.PackageName
	if p, ok := workflow.Metadata[PackageMetadataKey]; ok && p != "" {
		packageName = p
	}

	process := models.NewProcessDefinition(workflow.ID, workflow.Name, workflow.Version, packageName)
	process.Visibility = f.config.Visibility

	if err := f.ProcessVar(models.DefaultWorkflowVariable, models.DataTypeJSON, process); err != nil {
		return nil, err
	}

	f.logger.Debug("Created process", "process_id", process.ID, "package", packageName)

	return process, nil
}

// ProcessVar declares a process variable. Redeclaring a name with the same type is a no-op;
// a different type fails with models.ErrVariableTypeConflict.
func (f *Factory) ProcessVar(name string, dataType models.DataType, process *models.ProcessDefinition) error {
	if process == nil || process.Variables == nil {
		return invalid("ProcessVar", 0, "process with a variable scope is required")
	}

	return process.Variables.Declare(name, dataType)
}

// Connect links two nodes of the same container.
func (f *Factory) Connect(from, to int64, container *models.NodeContainer) error {
	if container == nil {
		return invalid("Connect", from, "container is required")
	}

	_, err := container.Connect(from, to)

	return err
}

// add registers a fully built node into its container.
func (f *Factory) add(op string, node *models.Node, container *models.NodeContainer) (*models.Node, error) {
	if container == nil {
		return nil, invalid(op, node.ID, "container is required")
	}

	if node.Name == "" {
		return nil, invalid(op, node.ID, "node name is required")
	}

	if err := container.AddNode(node); err != nil {
		return nil, &SpecError{Op: op, NodeID: node.ID, Err: err}
	}

	f.logger.Debug("Created node", "op", op, "node_id", node.ID, "kind", node.Kind, "name", node.Name)

	return node, nil
}

func workflowDataMappings(in, out string) ([]models.Mapping, []models.Mapping) {
	return []models.Mapping{{Variable: models.DefaultWorkflowVariable, Parameter: in}},
		[]models.Mapping{{Variable: models.DefaultWorkflowVariable, Parameter: out}}
}
