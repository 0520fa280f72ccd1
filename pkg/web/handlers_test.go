package web_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/flowc/pkg/compiler"
	"github.com/dukex/flowc/pkg/factory"
	"github.com/dukex/flowc/pkg/persistence/file"
	"github.com/dukex/flowc/pkg/registry"
	"github.com/dukex/flowc/pkg/services"
	"github.com/dukex/flowc/pkg/testutil"
	"github.com/dukex/flowc/pkg/web"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	reg := registry.NewRegistry(logger)
	reg.RegisterDefaultStates()

	c := compiler.NewCompiler(logger, factory.NewFactory(logger, factory.Config{}), reg, nil)
	service := services.NewProcess(logger, c, file.NewPersistence(t.TempDir()), nil)
	handlers := web.NewAPIHandlers(service, validator.New(validator.WithRequiredStructEnabled()), reg)

	return web.NewApp(handlers)
}

func do(t *testing.T, app *fiber.App, method, target, contentType, body string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, data
}

func TestAPIHandlers_CreateProcess(t *testing.T) {
	tests := []struct {
		name           string
		contentType    string
		body           string
		expectedStatus int
		expectedType   string
	}{
		{
			name:           "json document",
			contentType:    "application/json",
			body:           testutil.GreetingWorkflow,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "yaml document",
			contentType:    "application/yaml",
			body:           testutil.GreetingWorkflowYAML,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "malformed document",
			contentType:    "application/json",
			body:           "{",
			expectedStatus: http.StatusBadRequest,
			expectedType:   "validation_error",
		},
		{
			name:           "empty body",
			contentType:    "application/json",
			expectedStatus: http.StatusBadRequest,
			expectedType:   "validation_error",
		},
		{
			name:        "undefined function",
			contentType: "application/json",
			body: `{"id": "bad", "name": "Bad", "start": "A",
				"states": [{"name": "A", "type": "operation", "actions": [{"functionRef": "missing"}], "end": true}]}`,
			expectedStatus: http.StatusBadRequest,
			expectedType:   "validation_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupTestApp(t)

			resp, body := do(t, app, http.MethodPost, "/processes", tt.contentType, tt.body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode, string(body))

			var payload map[string]any
			require.NoError(t, json.Unmarshal(body, &payload))

			if tt.expectedType != "" {
				assert.Equal(t, tt.expectedType, payload["type"])
			} else {
				assert.Equal(t, "greeting", payload["id"])
				assert.Contains(t, payload, "nodes")
			}
		})
	}
}

func TestAPIHandlers_CreateProcessConflict(t *testing.T) {
	app := setupTestApp(t)

	resp, _ := do(t, app, http.MethodPost, "/processes", "application/json", testutil.GreetingWorkflow)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := do(t, app, http.MethodPost, "/processes", "application/json", testutil.GreetingWorkflow)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "conflict")
}

func TestAPIHandlers_ValidateProcess(t *testing.T) {
	app := setupTestApp(t)

	resp, body := do(t, app, http.MethodPost, "/processes/validate", "application/json", testutil.GreetingWorkflow)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result web.ValidationResponse
	require.NoError(t, json.Unmarshal(body, &result))
	assert.True(t, result.Valid)
	assert.Equal(t, "greeting", result.ProcessID)
	assert.Positive(t, result.NodeCount)

	resp, _ = do(t, app, http.MethodGet, "/processes/greeting", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPIHandlers_ProcessLifecycle(t *testing.T) {
	app := setupTestApp(t)

	resp, _ := do(t, app, http.MethodPost, "/processes", "application/json", testutil.GreetingWorkflow)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := do(t, app, http.MethodGet, "/processes", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Processes  []web.ProcessSummary `json:"processes"`
		TotalCount int                  `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	require.Equal(t, 1, list.TotalCount)
	assert.Equal(t, "greeting", list.Processes[0].ID)
	assert.Equal(t, "1.0", list.Processes[0].Version)

	resp, _ = do(t, app, http.MethodGet, "/processes?include_nodes=maybe", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, app, http.MethodGet, "/processes/greeting", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"package_name":"org.flowc.workflows"`)

	resp, _ = do(t, app, http.MethodDelete, "/processes/greeting", "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, app, http.MethodDelete, "/processes/greeting", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "process_not_found")
}

func TestAPIHandlers_HealthCheck(t *testing.T) {
	app := setupTestApp(t)

	resp, body := do(t, app, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]any
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "healthy", health["status"])
}
