// Package events defines the notifications published about compiled process definitions.
package events

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dukex/flowc/pkg/models"
)

type EventType string

// Topic carries every process lifecycle event.
const Topic = "flowc.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ProcessCompiledEvent EventType = "process.compiled"
	ProcessDeletedEvent  EventType = "process.deleted"
)

var validate = validator.New()

type BaseEvent struct {
	ID        string         `json:"id"         validate:"required"`
	Type      EventType      `json:"type"       validate:"required"`
	Timestamp time.Time      `json:"timestamp"  validate:"required"`
	ProcessID string         `json:"process_id" validate:"required"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent stamps a new event with a random id and the current time.
func NewBaseEvent(eventType EventType, processID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		ProcessID: processID,
		Metadata:  make(map[string]any),
	}
}

func (e BaseEvent) GetProcessID() string {
	return e.ProcessID
}

// ProcessCompiled announces a newly stored process definition.
type ProcessCompiled struct {
	BaseEvent

	Name      string `json:"name"       validate:"required"`
	Version   string `json:"version"`
	NodeCount int    `json:"node_count" validate:"gt=0"`
}

func NewProcessCompiled(process *models.ProcessDefinition) *ProcessCompiled {
	return &ProcessCompiled{
		BaseEvent: NewBaseEvent(ProcessCompiledEvent, process.ID),
		Name:      process.Name,
		Version:   process.Version,
		NodeCount: process.NodeCount(),
	}
}

func (e ProcessCompiled) GetType() EventType {
	return ProcessCompiledEvent
}

func (e *ProcessCompiled) Validate() error {
	return validate.Struct(e)
}

// ProcessDeleted announces the removal of a stored process definition.
type ProcessDeleted struct {
	BaseEvent
}

func NewProcessDeleted(processID string) *ProcessDeleted {
	return &ProcessDeleted{BaseEvent: NewBaseEvent(ProcessDeletedEvent, processID)}
}

func (e ProcessDeleted) GetType() EventType {
	return ProcessDeletedEvent
}

func (e *ProcessDeleted) Validate() error {
	return validate.Struct(e)
}
