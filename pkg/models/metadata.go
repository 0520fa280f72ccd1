package models

// MetadataKey names an entry of the metadata vocabulary shared with the runtime engine.
// The string values are part of the wire contract and must not change.
type MetadataKey string

const (
	MetadataUniqueID        MetadataKey = "UniqueId"
	MetadataTriggerType     MetadataKey = "TRIGGER_TYPE"
	MetadataTriggerRef      MetadataKey = "TRIGGER_REF"
	MetadataMessageType     MetadataKey = "MESSAGE_TYPE"
	MetadataMappingVariable MetadataKey = "MAPPING_VARIABLE"
	MetadataEventType       MetadataKey = "EVENT_TYPE"
	MetadataTimerEventType  MetadataKey = "EventType"
	MetadataEventBased      MetadataKey = "EventBased"
	MetadataType            MetadataKey = "Type"
	MetadataInputTypes      MetadataKey = "BPMN.InputTypes"
	MetadataOutputTypes     MetadataKey = "BPMN.OutputTypes"
	MetadataState           MetadataKey = "state"
)

// Values recorded under the keys above.
const (
	TriggerTypeConsumeMessage = "ConsumeMessage"
	TriggerTypeProduceMessage = "ProduceMessage"
	EventTypeMessage          = "message"
	EventTypeTimer            = "timer"
	ServiceTaskType           = "Service Task"
)

// Metadata is the string-keyed tag map attached to nodes and processes.
type Metadata map[MetadataKey]any

// Set stores value under key, allocating the map on first use.
func (m *Metadata) Set(key MetadataKey, value any) {
	if *m == nil {
		*m = make(Metadata)
	}

	(*m)[key] = value
}

// Get returns the raw value stored under key.
func (m Metadata) Get(key MetadataKey) (any, bool) {
	v, ok := m[key]

	return v, ok
}

// String returns the value under key when it is a string, or "" otherwise.
func (m Metadata) String(key MetadataKey) string {
	if s, ok := m[key].(string); ok {
		return s
	}

	return ""
}

// Has reports whether key is present.
func (m Metadata) Has(key MetadataKey) bool {
	_, ok := m[key]

	return ok
}
