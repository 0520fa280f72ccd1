package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/flowc/pkg/testutil"
)

func TestProcessCompiled_JSONSerialization(t *testing.T) {
	original := NewProcessCompiled(testutil.CreateTestProcess())

	jsonData, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"process_id":"greeting"`)
	assert.Contains(t, string(jsonData), `"node_count":3`)
	assert.Contains(t, string(jsonData), `"type":"process.compiled"`)

	var deserialized ProcessCompiled

	require.NoError(t, json.Unmarshal(jsonData, &deserialized))
	assert.Equal(t, original.ID, deserialized.ID)
	assert.Equal(t, original.ProcessID, deserialized.ProcessID)
	assert.Equal(t, "Greeting workflow", deserialized.Name)
	assert.Equal(t, "1.0", deserialized.Version)
	assert.Equal(t, 3, deserialized.NodeCount)
	assert.Equal(t, ProcessCompiledEvent, deserialized.GetType())
}

func TestProcessCompiled_Validation(t *testing.T) {
	tests := []struct {
		name    string
		event   *ProcessCompiled
		wantErr bool
	}{
		{
			name:  "valid_event",
			event: NewProcessCompiled(testutil.CreateTestProcess()),
		},
		{
			name: "missing_process_id",
			event: &ProcessCompiled{
				BaseEvent: NewBaseEvent(ProcessCompiledEvent, ""),
				Name:      "Greeting",
				NodeCount: 1,
			},
			wantErr: true,
		},
		{
			name: "empty_process",
			event: &ProcessCompiled{
				BaseEvent: NewBaseEvent(ProcessCompiledEvent, "greeting"),
				Name:      "Greeting",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessDeleted(t *testing.T) {
	event := NewProcessDeleted("greeting")

	require.NoError(t, event.Validate())
	assert.Equal(t, ProcessDeletedEvent, event.GetType())
	assert.Equal(t, "greeting", event.ProcessID)
	assert.NotEmpty(t, event.ID)

	assert.Error(t, NewProcessDeleted("").Validate())
}
