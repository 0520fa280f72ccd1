// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/dukex/flowc/pkg/models"
)

// GreetingWorkflow is a minimal JSON workflow document with one operation state.
const GreetingWorkflow = `{
  "id": "greeting",
  "name": "Greeting workflow",
  "version": "1.0",
  "start": "Greet",
  "functions": [
    {"name": "greetFunction", "type": "rest", "metadata": {"interface": "org.acme.Greeter", "operation": "greet"}}
  ],
  "states": [
    {
      "name": "Greet",
      "type": "operation",
      "actions": [{"functionRef": "greetFunction"}],
      "end": true
    }
  ]
}`

// GreetingWorkflowYAML is GreetingWorkflow in YAML form.
const GreetingWorkflowYAML = `
id: greeting
name: Greeting workflow
version: "1.0"
start: Greet
functions:
  - name: greetFunction
    type: rest
    metadata:
      interface: org.acme.Greeter
      operation: greet
states:
  - name: Greet
    type: operation
    actions:
      - functionRef: greetFunction
    end: true
`

// CreateTestProcess creates a start -> script -> end process with default values that can
// be overridden.
func CreateTestProcess(overrides ...func(*models.ProcessDefinition)) *models.ProcessDefinition {
	process := models.NewProcessDefinition("greeting", "Greeting workflow", "1.0", "org.flowc.workflows")
	_ = process.Variables.Declare("workflowdata", models.DataTypeJSON)

	start := models.NewNode(1, "Start", models.NodeKindStart)
	start.Start = &models.StartNode{}

	script := models.NewNode(2, "Greet", models.NodeKindAction)
	script.Action = &models.ActionNode{Action: models.Action{Type: models.ActionTypeScript, Dialect: "jq", Script: ". + {\"greeting\":\"hello\"}"}}

	end := models.NewNode(3, "GreetEnd", models.NodeKindEnd)
	end.End = &models.EndNode{Terminate: false}

	for _, n := range []*models.Node{start, script, end} {
		_ = process.Nodes.AddNode(n)
	}

	_, _ = process.Nodes.Connect(1, 2)
	_, _ = process.Nodes.Connect(2, 3)

	for _, override := range overrides {
		override(process)
	}

	return process
}

// WithID sets the process id.
func WithID(id string) func(*models.ProcessDefinition) {
	return func(p *models.ProcessDefinition) {
		p.ID = id
	}
}

// WithVersion sets the process version.
func WithVersion(version string) func(*models.ProcessDefinition) {
	return func(p *models.ProcessDefinition) {
		p.Version = version
	}
}
