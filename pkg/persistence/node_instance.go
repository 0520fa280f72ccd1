package persistence

import (
	"fmt"
	"time"

	"github.com/dukex/flowc/pkg/models"
)

// Field names of a node instance record.
const (
	FieldID    = "id"
	FieldName  = "name"
	FieldType  = "type"
	FieldEnter = "enter"
	FieldExit  = "exit"
)

// FieldWriter receives named fields of a record.
type FieldWriter interface {
	WriteString(name, value string) error
	WriteTime(name string, value *time.Time) error
}

// FieldReader returns named fields of a record. Absent fields read as zero values.
type FieldReader interface {
	ReadString(name string) (string, error)
	ReadTime(name string) (*time.Time, error)
}

// NodeInstanceMarshaller converts node instances to and from field records, one field per
// attribute with no transformation.
type NodeInstanceMarshaller struct{}

// TypeName identifies the record type.
func (NodeInstanceMarshaller) TypeName() string {
	return "flowc.NodeInstance"
}

// ReadFrom restores a node instance from r.
func (NodeInstanceMarshaller) ReadFrom(r FieldReader) (*models.NodeInstance, error) {
	var (
		ni  models.NodeInstance
		err error
	)

	if ni.ID, err = r.ReadString(FieldID); err != nil {
		return nil, err
	}

	if ni.Name, err = r.ReadString(FieldName); err != nil {
		return nil, err
	}

	if ni.Type, err = r.ReadString(FieldType); err != nil {
		return nil, err
	}

	if ni.Enter, err = r.ReadTime(FieldEnter); err != nil {
		return nil, err
	}

	if ni.Exit, err = r.ReadTime(FieldExit); err != nil {
		return nil, err
	}

	return &ni, nil
}

// WriteTo writes the five fields of ni to w.
func (NodeInstanceMarshaller) WriteTo(w FieldWriter, ni *models.NodeInstance) error {
	if ni == nil {
		return fmt.Errorf("%w: node instance", ErrNilRecord)
	}

	for _, f := range []struct{ name, value string }{
		{FieldID, ni.ID},
		{FieldName, ni.Name},
		{FieldType, ni.Type},
	} {
		if err := w.WriteString(f.name, f.value); err != nil {
			return err
		}
	}

	if err := w.WriteTime(FieldEnter, ni.Enter); err != nil {
		return err
	}

	return w.WriteTime(FieldExit, ni.Exit)
}

// MapFieldWriter collects fields in memory. Nil times are stored as nil.
type MapFieldWriter map[string]any

func (m MapFieldWriter) WriteString(name, value string) error {
	m[name] = value

	return nil
}

func (m MapFieldWriter) WriteTime(name string, value *time.Time) error {
	if value == nil {
		m[name] = nil

		return nil
	}

	m[name] = *value

	return nil
}

// MapFieldReader reads fields from an in-memory record.
type MapFieldReader map[string]any

func (m MapFieldReader) ReadString(name string) (string, error) {
	switch v := m[name].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("field %s: expected string, got %T", name, v)
	}
}

func (m MapFieldReader) ReadTime(name string) (*time.Time, error) {
	switch v := m[name].(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &v, nil
	case *time.Time:
		return v, nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}

		return &t, nil
	default:
		return nil, fmt.Errorf("field %s: expected time, got %T", name, v)
	}
}
