package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greetingJSON = `{
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

const approvalYAML = `
id: approval
name: Approval
version: "2.0"
start:
  stateName: Wait
  schedule:
    cron: "0 * * * *"
events:
  - name: approved
    source: approvals
    type: approval.granted
    kind: consumed
states:
  - name: Wait
    type: event
    onEvents:
      - eventRefs: [approved]
    end:
      terminate: true
`

func TestLoad_JSON(t *testing.T) {
	wf, err := Load([]byte(greetingJSON), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "greeting", wf.ID)
	assert.Equal(t, "Greet", wf.Start.StateName)
	require.Len(t, wf.States, 1)
	assert.True(t, wf.States[0].End.Active())

	fn, ok := wf.Function("greetFunction")
	require.True(t, ok)
	assert.Equal(t, FunctionTypeRest, fn.Type)
}

func TestLoad_YAML(t *testing.T) {
	wf, err := Load([]byte(approvalYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "2.0", wf.Version)
	require.NotNil(t, wf.Start.Schedule)
	assert.Equal(t, "0 * * * *", wf.Start.Schedule.Cron)

	state, ok := wf.StartState()
	require.True(t, ok)
	assert.Equal(t, StateTypeEvent, state.Type)
	assert.True(t, state.IsExclusive())
	assert.True(t, state.End.Active())
	assert.True(t, state.End.Terminate)

	event, ok := wf.Event("approved")
	require.True(t, ok)
	assert.Equal(t, "approvals", event.Source)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
	}{
		{"malformed json", `{"id":`, FormatJSON},
		{"malformed yaml", "id: [", FormatYAML},
		{"missing states", `{"id":"a","name":"b"}`, FormatJSON},
		{"unknown state type", `{"id":"a","name":"b","states":[{"name":"s","type":"loop"}]}`, FormatJSON},
		{"action without function", `{"id":"a","name":"b","states":[{"name":"s","type":"operation","actions":[{"name":"x"}]}]}`, FormatJSON},
		{"unsupported format", `{}`, Format("toml")},
		{"empty", `null`, FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc), tt.format)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestEnd_DecodesBooleans(t *testing.T) {
	wf, err := Load([]byte(`{"id":"a","name":"b","states":[
		{"name":"s1","type":"delay","timeDelay":"PT1S","end":false,"transition":"s2"},
		{"name":"s2","type":"inject","data":{"x":1},"end":true}
	]}`), FormatJSON)
	require.NoError(t, err)

	assert.False(t, wf.States[0].End.Active())
	assert.True(t, wf.States[1].End.Active())
	assert.JSONEq(t, `{"x":1}`, string(wf.States[1].Data))
}

func TestFunctionDefinition_MetaIsCaseInsensitive(t *testing.T) {
	fn := FunctionDefinition{Name: "f", Metadata: map[string]string{"TaskName": "review"}}

	v, ok := fn.Meta("taskname")
	require.True(t, ok)
	assert.Equal(t, "review", v)

	_, ok = fn.Meta("groupid")
	assert.False(t, ok)
}

func TestFormatFrom(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("flow.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("flow.YAML"))
	assert.Equal(t, FormatJSON, FormatFromPath("flow.sw.json"))
	assert.Equal(t, FormatYAML, FormatFromContentType("application/x-yaml"))
	assert.Equal(t, FormatJSON, FormatFromContentType("application/json"))
}
