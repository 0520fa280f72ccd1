package factory

import (
	"github.com/dukex/flowc/pkg/models"
)

// TimerNode creates a timer node firing after delay. The expression is recorded verbatim.
func (f *Factory) TimerNode(id int64, name, delay string, container *models.NodeContainer) (*models.Node, error) {
	if delay == "" {
		return nil, invalid("TimerNode", id, "delay is required")
	}

	node := models.NewNode(id, name, models.NodeKindTimer)
	node.Timer = &models.TimerNode{Timer: models.Timer{Type: models.TimerTypeDelay, Expression: delay}}
	node.Metadata.Set(models.MetadataTimerEventType, models.EventTypeTimer)

	return f.add("TimerNode", node, container)
}

// SplitNode creates a diverging gateway. Event-based splits are tagged for the runtime.
func (f *Factory) SplitNode(id int64, name string, splitType models.SplitType, container *models.NodeContainer) (*models.Node, error) {
	if splitType < models.SplitTypeAnd || splitType > models.SplitTypeXand {
		return nil, invalid("SplitNode", id, "unknown split type "+splitType.String())
	}

	node := models.NewNode(id, name, models.NodeKindSplit)
	node.Split = &models.SplitNode{Type: splitType}

	if splitType == models.SplitTypeXand {
		node.Metadata.Set(models.MetadataEventBased, "true")
	}

	return f.add("SplitNode", node, container)
}

// EventBasedSplit creates a split waiting for the first of several competing events.
func (f *Factory) EventBasedSplit(id int64, name string, container *models.NodeContainer) (*models.Node, error) {
	return f.SplitNode(id, name, models.SplitTypeXand, container)
}

// JoinNode creates a converging gateway.
func (f *Factory) JoinNode(id int64, name string, joinType models.JoinType, container *models.NodeContainer) (*models.Node, error) {
	if joinType < models.JoinTypeAnd || joinType > models.JoinTypeNOfM {
		return nil, invalid("JoinNode", id, "unknown join type "+joinType.String())
	}

	node := models.NewNode(id, name, models.NodeKindJoin)
	node.Join = &models.JoinNode{Type: joinType}

	return f.add("JoinNode", node, container)
}

// NOfMJoinNode creates a join activating once n incoming branches have completed.
func (f *Factory) NOfMJoinNode(id int64, name string, n int, container *models.NodeContainer) (*models.Node, error) {
	if n < 1 {
		return nil, invalid("NOfMJoinNode", id, "at least one completed branch is required")
	}

	node, err := f.JoinNode(id, name, models.JoinTypeNOfM, container)
	if err != nil {
		return nil, err
	}

	node.Join.N = n

	return node, nil
}

// SplitConstraint builds a branch constraint. Attach it to a split with SplitNode.SetConstraint.
func (f *Factory) SplitConstraint(name, constraintType, dialect, expression string, priority int, isDefault bool) models.Constraint {
	return models.Constraint{
		Name:       name,
		Type:       constraintType,
		Dialect:    dialect,
		Expression: expression,
		Priority:   priority,
		Default:    isDefault,
	}
}
