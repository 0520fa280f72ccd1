package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/dukex/flowc/pkg/registry"
	"github.com/dukex/flowc/pkg/services"
	"github.com/dukex/flowc/pkg/spec"
)

type APIHandlers struct {
	processService *services.Process
	validator      *validator.Validate
	registry       *registry.Registry
}

func NewAPIHandlers(
	processService *services.Process,
	validator *validator.Validate,
	registry *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		processService: processService,
		validator:      validator,
		registry:       registry,
	}
}

// GetProcesses lists the stored processes. include_nodes=true returns full definitions.
func (h *APIHandlers) GetProcesses(c fiber.Ctx) error {
	includeNodes := false

	if raw := c.Query("include_nodes"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "Invalid query parameters: "+err.Error())
		}

		includeNodes = parsed
	}

	processes, err := h.processService.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	if includeNodes {
		return c.JSON(fiber.Map{"processes": processes, "total_count": len(processes)})
	}

	summaries := make([]ProcessSummary, 0, len(processes))
	for _, p := range processes {
		summaries = append(summaries, TransformProcessSummary(p))
	}

	return c.JSON(fiber.Map{"processes": summaries, "total_count": len(summaries)})
}

func (h *APIHandlers) GetProcess(c fiber.Ctx) error {
	id, err := h.processID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	process, err := h.processService.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(process)
}

// CreateProcess compiles the workflow document in the body. The Content-Type selects JSON
// or YAML.
func (h *APIHandlers) CreateProcess(c fiber.Ctx) error {
	process, err := h.processService.Compile(c.Context(), c.Body(), h.format(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(process)
}

func (h *APIHandlers) ValidateProcess(c fiber.Ctx) error {
	process, err := h.processService.Validate(c.Context(), c.Body(), h.format(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(ValidationResponse{Valid: true, ProcessID: process.ID, NodeCount: process.NodeCount()})
}

func (h *APIHandlers) DeleteProcess(c fiber.Ctx) error {
	id, err := h.processID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.processService.Delete(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	compilers := len(h.registry.Available())
	repositoryCheck, repOk := h.processService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "flowc API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if compilers > 0 && repOk {
		status = "healthy"
		message = "flowc API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"registry":   strconv.Itoa(compilers) + " state compilers registered",
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) processID(c fiber.Ctx) (string, error) {
	param := ProcessIDParam{ID: c.Params("id")}
	if err := h.validator.Struct(param); err != nil {
		return "", err
	}

	return param.ID, nil
}

func (h *APIHandlers) format(c fiber.Ctx) spec.Format {
	return spec.FormatFromContentType(c.Get(fiber.HeaderContentType))
}
