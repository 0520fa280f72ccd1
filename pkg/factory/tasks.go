package factory

import (
	"github.com/dukex/flowc/pkg/models"
	"github.com/dukex/flowc/pkg/spec"
)

const (
	HumanTaskType = "Human Task"

	// DefaultTaskNamePrefix replaces the process name in derived human task names.
	DefaultTaskNamePrefix = "workflow"

	// Work parameters understood by the runtime work item handlers.
	ParamInterface          = "Interface"
	ParamOperation          = "Operation"
	ParamInterfaceImplRef   = "interfaceImplementationRef"
	ParamOperationImplRef   = "operationImplementationRef"
	ParamImplementation     = "implementation"
	ParamParameterType      = "ParameterType"
	ParamTaskName           = "TaskName"
	ParamSkippable          = "Skippable"
	ParamGroupID            = "GroupId"
	ParamActorID            = "ActorId"
	ParamNodeName           = "NodeName"
	ParamDefaultSkippable   = "true"
	subProcessParameter     = models.DefaultWorkflowVariable
)

// Function metadata keys, matched case-insensitively.
const (
	MetaInterface      = "interface"
	MetaOperation      = "operation"
	MetaImplementation = "implementation"
	MetaTaskName       = "taskname"
	MetaSkippable      = "skippable"
	MetaGroupID        = "groupid"
	MetaActorID        = "actorid"
	MetaRuleFlowGroup  = "ruleflowgroup"
	MetaRuleUnit       = "ruleunit"
	MetaDecision       = "decision"
	MetaNamespace      = "namespace"
	MetaModel          = "model"
)

// ScriptNode creates an action node running an inline jq script.
func (f *Factory) ScriptNode(id int64, name, script string, container *models.NodeContainer) (*models.Node, error) {
	node := models.NewNode(id, name, models.NodeKindAction)
	node.Action = &models.ActionNode{Action: models.Action{
		Type:    models.ActionTypeScript,
		Dialect: models.DialectJQ,
		Script:  script,
	}}

	return f.add("ScriptNode", node, container)
}

// ServiceNode creates a work item node invoking the function's service operation. Function
// metadata takes precedence over the function's own operation.
func (f *Factory) ServiceNode(id int64, name string, function *spec.FunctionDefinition, container *models.NodeContainer) (*models.Node, error) {
	if function == nil {
		return nil, invalid("ServiceNode", id, "function is required")
	}

	iface, ok := function.Meta(MetaInterface)
	if !ok {
		iface = function.Name
	}

	operation, ok := function.Meta(MetaOperation)
	if !ok {
		operation = function.Operation
	}

	work := models.NewWork(models.ServiceTaskType)
	work.SetParameter(ParamInterface, iface)
	work.SetParameter(ParamOperation, operation)
	work.SetParameter(ParamInterfaceImplRef, iface)
	work.SetParameter(ParamOperationImplRef, operation)
	work.SetParameter(ParamParameterType, string(models.DataTypeJSON))

	if impl, ok := function.Meta(MetaImplementation); ok {
		work.SetParameter(ParamImplementation, impl)
	}

	in, out := workflowDataMappings(InputParameter, OutputParameter)

	node := models.NewNode(id, name, models.NodeKindWorkItem)
	node.WorkItem = &models.WorkItemNode{Work: work, InMappings: in, OutMappings: out}
	node.Metadata.Set(models.MetadataType, models.ServiceTaskType)

	return f.add("ServiceNode", node, container)
}

// HumanTaskNode creates a work item node assigned to people. It declares the workflow data
// variable on the process when missing.
func (f *Factory) HumanTaskNode(id int64, name string, function *spec.FunctionDefinition, process *models.ProcessDefinition, container *models.NodeContainer) (*models.Node, error) {
	if function == nil {
		return nil, invalid("HumanTaskNode", id, "function is required")
	}

	if err := f.ProcessVar(models.DefaultWorkflowVariable, models.DataTypeJSON, process); err != nil {
		return nil, &SpecError{Op: "HumanTaskNode", NodeID: id, Err: err}
	}

	taskName, ok := function.Meta(MetaTaskName)
	if !ok {
		prefix := process.Name
		if prefix == "" {
			prefix = DefaultTaskNamePrefix
		}

		taskName = prefix + "htask"
	}

	skippable, ok := function.Meta(MetaSkippable)
	if !ok {
		skippable = ParamDefaultSkippable
	}

	work := models.NewWork(HumanTaskType)
	work.SetParameter(ParamTaskName, taskName)
	work.SetParameter(ParamSkippable, skippable)
	work.SetParameter(ParamNodeName, name)

	if group, ok := function.Meta(MetaGroupID); ok {
		work.SetParameter(ParamGroupID, group)
	}

	if actor, ok := function.Meta(MetaActorID); ok {
		work.SetParameter(ParamActorID, actor)
	}

	in, out := workflowDataMappings(InputParameter, OutputParameter)

	node := models.NewNode(id, name, models.NodeKindHumanTask)
	node.WorkItem = &models.WorkItemNode{Work: work, InMappings: in, OutMappings: out}

	return f.add("HumanTaskNode", node, container)
}

// RuleSetNode creates a node evaluating rules. The rule type comes from the function
// metadata, defaulting to a rule flow group named after the function.
func (f *Factory) RuleSetNode(id int64, name string, function *spec.FunctionDefinition, container *models.NodeContainer) (*models.Node, error) {
	if function == nil {
		return nil, invalid("RuleSetNode", id, "function is required")
	}

	var ruleType models.RuleType

	if group, ok := function.Meta(MetaRuleFlowGroup); ok {
		ruleType = models.RuleFlowGroup(group)
	} else if unit, ok := function.Meta(MetaRuleUnit); ok {
		ruleType = models.RuleUnit(unit)
	} else if decision, ok := function.Meta(MetaDecision); ok {
		namespace, _ := function.Meta(MetaNamespace)
		model, _ := function.Meta(MetaModel)
		ruleType = models.Decision(namespace, model, decision)
	} else {
		ruleType = models.RuleFlowGroup(function.Name)
	}

	in, out := workflowDataMappings(InputParameter, OutputParameter)

	node := models.NewNode(id, name, models.NodeKindRuleSet)
	node.RuleSet = &models.RuleSetNode{
		Language:    models.RuleLanguageDRL,
		RuleType:    ruleType,
		InMappings:  in,
		OutMappings: out,
	}

	return f.add("RuleSetNode", node, container)
}

// CallActivity creates a node invoking another process by id, passing the workflow data in
// and taking it back on completion.
func (f *Factory) CallActivity(id int64, name, calledID string, waitForCompletion bool, container *models.NodeContainer) (*models.Node, error) {
	if calledID == "" {
		return nil, invalid("CallActivity", id, "called process id is required")
	}

	in, out := workflowDataMappings(subProcessParameter, subProcessParameter)

	node := models.NewNode(id, name, models.NodeKindSubProcess)
	node.SubProcess = &models.SubProcessNode{
		ProcessID:         calledID,
		WaitForCompletion: waitForCompletion,
		InMappings:        in,
		OutMappings:       out,
	}

	types := map[string]string{subProcessParameter: string(models.DataTypeJSON)}
	node.Metadata.Set(models.MetadataInputTypes, types)
	node.Metadata.Set(models.MetadataOutputTypes, types)

	return f.add("CallActivity", node, container)
}

// SubProcessNode creates an auto-completing composite node with an empty embedded container.
func (f *Factory) SubProcessNode(id int64, name string, container *models.NodeContainer) (*models.Node, error) {
	node := models.NewNode(id, name, models.NodeKindComposite)
	node.Composite = &models.CompositeNode{AutoComplete: true, Nodes: models.NewNodeContainer()}

	return f.add("SubProcessNode", node, container)
}
