// Package web provides the HTTP API for compiling workflow documents and browsing the stored
// process definitions.
package web

import "github.com/dukex/flowc/pkg/models"

// ProcessIDParam holds the :id route parameter.
type ProcessIDParam struct {
	ID string `validate:"required,max=255,excludesall=/\\"`
}

// ProcessSummary is the list form of a process definition.
type ProcessSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	PackageName string `json:"package_name"`
	NodeCount   int    `json:"node_count"`
}

// ValidationResponse reports a successful dry-run compilation.
type ValidationResponse struct {
	Valid     bool   `json:"valid"`
	ProcessID string `json:"process_id"`
	NodeCount int    `json:"node_count"`
}

// TransformProcessSummary reduces a process to its list form.
func TransformProcessSummary(process *models.ProcessDefinition) ProcessSummary {
	return ProcessSummary{
		ID:          process.ID,
		Name:        process.Name,
		Version:     process.Version,
		PackageName: process.PackageName,
		NodeCount:   process.NodeCount(),
	}
}
