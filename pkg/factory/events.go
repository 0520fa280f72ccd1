package factory

import (
	"fmt"

	"github.com/dukex/flowc/pkg/models"
	"github.com/dukex/flowc/pkg/spec"
)

// MessageType returns the correlation type of messages from source.
func MessageType(source string) string {
	return MessageTypePrefix + source
}

// StartNode creates a plain start node.
func (f *Factory) StartNode(id int64, name string, container *models.NodeContainer) (*models.Node, error) {
	node := models.NewNode(id, name, models.NodeKindStart)
	node.Start = &models.StartNode{}

	return f.add("StartNode", node, container)
}

// MessageStartNode creates a start node activated by a message from the event's source.
// The node takes the event name, or name when the event has none.
func (f *Factory) MessageStartNode(id int64, name string, event *spec.EventDefinition, container *models.NodeContainer) (*models.Node, error) {
	if event == nil || event.Source == "" {
		return nil, invalid("MessageStartNode", id, "event with a source is required")
	}

	if event.Name != "" {
		name = event.Name
	}

	node := models.NewNode(id, name, models.NodeKindStart)
	node.Start = &models.StartNode{}
	node.Metadata.Set(models.MetadataTriggerType, models.TriggerTypeConsumeMessage)
	node.Metadata.Set(models.MetadataTriggerRef, event.Source)
	node.Metadata.Set(models.MetadataMessageType, string(models.DataTypeJSON))

	if err := f.AddMessageTriggerToStartNode(node, event); err != nil {
		return nil, err
	}

	return f.add("MessageStartNode", node, container)
}

// AddMessageTriggerToStartNode attaches a trigger for messages from the event's source,
// referencing that source.
func (f *Factory) AddMessageTriggerToStartNode(node *models.Node, event *spec.EventDefinition) error {
	if event == nil || event.Source == "" {
		return &SpecError{Op: "AddMessageTriggerToStartNode", Err: ErrInvalidSpecification, Message: "event with a source is required"}
	}

	if err := f.AddTriggerToStartNode(node, MessageType(event.Source)); err != nil {
		return err
	}

	node.Start.Triggers[len(node.Start.Triggers)-1].Ref = event.Source

	return nil
}

// AddTriggerToStartNode attaches an event trigger that maps the incoming message into the
// workflow data variable.
func (f *Factory) AddTriggerToStartNode(node *models.Node, triggerEventType string) error {
	if node == nil || node.Start == nil {
		return &SpecError{Op: "AddTriggerToStartNode", Err: ErrUnexpectedNodeKind, Message: "start node is required"}
	}

	if triggerEventType == "" {
		return invalid("AddTriggerToStartNode", node.ID, "trigger event type is required")
	}

	node.Start.Triggers = append(node.Start.Triggers, models.Trigger{
		EventType: triggerEventType,
		Mapping: &models.Mapping{
			Variable:  models.DefaultWorkflowVariable,
			Parameter: EventParameter,
		},
	})

	return nil
}

// EndNode creates an end node. A terminating end node ends the whole process instance.
func (f *Factory) EndNode(id int64, name string, terminate bool, container *models.NodeContainer) (*models.Node, error) {
	node := models.NewNode(id, name, models.NodeKindEnd)
	node.End = &models.EndNode{Terminate: terminate}

	return f.add("EndNode", node, container)
}

// MessageEndNode creates an end node that publishes the workflow data as the first event the
// end definition produces.
func (f *Factory) MessageEndNode(id int64, name string, workflow *spec.Workflow, end *spec.End, container *models.NodeContainer) (*models.Node, error) {
	if workflow == nil || end == nil || len(end.ProduceEvents) == 0 {
		return nil, invalid("MessageEndNode", id, "end definition producing an event is required")
	}

	ref := end.ProduceEvents[0].EventRef

	event, ok := workflow.Event(ref)
	if !ok || event.Source == "" {
		return nil, invalid("MessageEndNode", id, fmt.Sprintf("event %q is not defined with a source", ref))
	}

	node := models.NewNode(id, name, models.NodeKindEnd)
	node.End = &models.EndNode{Terminate: end.Terminate}
	node.Metadata.Set(models.MetadataTriggerType, models.TriggerTypeProduceMessage)
	node.Metadata.Set(models.MetadataTriggerRef, event.Source)
	node.Metadata.Set(models.MetadataMessageType, string(models.DataTypeJSON))
	node.Metadata.Set(models.MetadataMappingVariable, models.DefaultWorkflowVariable)

	if err := f.AddMessageEndNodeAction(node, models.DefaultWorkflowVariable, models.DataTypeJSON); err != nil {
		return nil, err
	}

	return f.add("MessageEndNode", node, container)
}

// AddMessageEndNodeAction appends the enter-action publishing variable as a message of the
// given type when the end node is reached.
func (f *Factory) AddMessageEndNodeAction(node *models.Node, variable string, messageType models.DataType) error {
	if node == nil || node.End == nil {
		return &SpecError{Op: "AddMessageEndNodeAction", Err: ErrUnexpectedNodeKind, Message: "end node is required"}
	}

	if variable == "" || messageType == "" {
		return invalid("AddMessageEndNodeAction", node.ID, "variable and message type are required")
	}

	node.End.EnterActions = append(node.End.EnterActions, models.Action{
		Type:        models.ActionTypeProduceMessage,
		Variable:    variable,
		MessageType: messageType,
		TriggerRef:  node.Metadata.String(models.MetadataTriggerRef),
	})

	return nil
}

// SendEventNode creates an action node publishing the workflow data to the event's source.
func (f *Factory) SendEventNode(id int64, event *spec.EventDefinition, container *models.NodeContainer) (*models.Node, error) {
	if event == nil || event.Source == "" {
		return nil, invalid("SendEventNode", id, "event with a source is required")
	}

	node := models.NewNode(id, event.Name, models.NodeKindAction)
	node.Action = &models.ActionNode{Action: models.Action{
		Type:        models.ActionTypeProduceMessage,
		Variable:    models.DefaultWorkflowVariable,
		MessageType: models.DataTypeJSON,
		TriggerRef:  event.Source,
	}}
	node.Metadata.Set(models.MetadataTriggerType, models.TriggerTypeProduceMessage)
	node.Metadata.Set(models.MetadataTriggerRef, event.Source)
	node.Metadata.Set(models.MetadataMessageType, string(models.DataTypeJSON))
	node.Metadata.Set(models.MetadataMappingVariable, models.DefaultWorkflowVariable)

	return f.add("SendEventNode", node, container)
}

// ConsumeEventNode creates an event node waiting for a message from the event's source and
// storing its payload in the workflow data variable.
func (f *Factory) ConsumeEventNode(id int64, event *spec.EventDefinition, container *models.NodeContainer) (*models.Node, error) {
	if event == nil || event.Source == "" {
		return nil, invalid("ConsumeEventNode", id, "event with a source is required")
	}

	node := models.NewNode(id, event.Name, models.NodeKindEvent)
	node.Event = &models.EventNode{
		Type:         MessageType(event.Source),
		VariableName: models.DefaultWorkflowVariable,
	}
	node.Metadata.Set(models.MetadataTriggerType, models.TriggerTypeConsumeMessage)
	node.Metadata.Set(models.MetadataEventType, models.EventTypeMessage)
	node.Metadata.Set(models.MetadataTriggerRef, event.Source)
	node.Metadata.Set(models.MetadataMessageType, string(models.DataTypeJSON))

	return f.add("ConsumeEventNode", node, container)
}
