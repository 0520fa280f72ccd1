package models

// Work describes the external operation a work item node invokes.
type Work struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
}

// NewWork creates a work descriptor with no parameters.
func NewWork(name string) Work {
	return Work{Name: name, Parameters: make(map[string]any)}
}

// SetParameter stores a work parameter.
func (w *Work) SetParameter(name string, value any) {
	if w.Parameters == nil {
		w.Parameters = make(map[string]any)
	}

	w.Parameters[name] = value
}

// Parameter returns the parameter value or nil when absent.
func (w Work) Parameter(name string) any {
	return w.Parameters[name]
}

// RuleLanguageDRL tags rule set nodes for the rule engine.
const RuleLanguageDRL = "http://www.jboss.org/drools/rule"

type ruleKind string

const (
	ruleKindFlowGroup ruleKind = "rule_flow_group"
	ruleKindUnit      ruleKind = "rule_unit"
	ruleKindDecision  ruleKind = "decision"
)

// RuleType selects how a rule set node invokes the rule engine.
type RuleType struct {
	Kind      ruleKind `json:"kind"`
	Name      string   `json:"name"`
	Namespace string   `json:"namespace,omitempty"`
	Model     string   `json:"model,omitempty"`
}

func RuleFlowGroup(name string) RuleType {
	return RuleType{Kind: ruleKindFlowGroup, Name: name}
}

func RuleUnit(name string) RuleType {
	return RuleType{Kind: ruleKindUnit, Name: name}
}

// Decision references a decision inside a decision model.
func Decision(namespace, model, decision string) RuleType {
	return RuleType{Kind: ruleKindDecision, Name: decision, Namespace: namespace, Model: model}
}

func (r RuleType) IsRuleFlowGroup() bool { return r.Kind == ruleKindFlowGroup }
func (r RuleType) IsRuleUnit() bool      { return r.Kind == ruleKindUnit }
func (r RuleType) IsDecision() bool      { return r.Kind == ruleKindDecision }
