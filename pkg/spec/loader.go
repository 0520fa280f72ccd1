package spec

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument indicates a workflow document that cannot be decoded or fails validation.
var ErrInvalidDocument = errors.New("invalid workflow document")

// Format is the encoding of a workflow document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath derives the document format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FormatFromContentType derives the document format from an HTTP content type.
func FormatFromContentType(contentType string) Format {
	if strings.Contains(strings.ToLower(contentType), "yaml") {
		return FormatYAML
	}

	return FormatJSON
}

var (
	schemaLoader = gojsonschema.NewStringLoader(workflowSchema)
	validate     = validator.New(validator.WithRequiredStructEnabled())
)

// Load decodes a workflow document, validating it against the workflow schema and the
// struct constraints of the workflow types.
func Load(data []byte, format Format) (*Workflow, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	var workflow Workflow
	if err := json.Unmarshal(normalized, &workflow); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if err := Validate(&workflow); err != nil {
		return nil, err
	}

	return &workflow, nil
}

// Validate checks the struct constraints of an in-memory workflow.
func Validate(workflow *Workflow) error {
	if workflow == nil {
		return fmt.Errorf("%w: workflow is nil", ErrInvalidDocument)
	}

	if err := validate.Struct(workflow); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			msgs := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}

			return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
		}

		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return nil
}

func decode(data []byte, format Format) (any, error) {
	var doc any

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	if doc == nil {
		return nil, errors.New("empty document")
	}

	return doc, nil
}

func validateSchema(doc any) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if !result.Valid() {
		var errs []string
		for _, e := range result.Errors() {
			errs = append(errs, e.String())
		}

		return fmt.Errorf("%w: JSON schema validation failed: %s", ErrInvalidDocument, strings.Join(errs, "; "))
	}

	return nil
}
