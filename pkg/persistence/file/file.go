// Package file provides file-based persistence of compiled process definitions.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dukex/flowc/pkg/models"
	"github.com/dukex/flowc/pkg/persistence"
)

const processesDir = "processes"

// Persistence implements the persistence.Persistence interface using one JSON file per
// process under <root>/processes.
type Persistence struct {
	root string
	mu   sync.RWMutex
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) *Persistence {
	return &Persistence{root: strings.Replace(root, "file://", "", 1)}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Processes returns every stored process ordered by id.
func (fp *Persistence) Processes(ctx context.Context) ([]*models.ProcessDefinition, error) {
	fp.mu.RLock()
	defer fp.mu.RUnlock()

	jsonFiles, err := fs.Glob(os.DirFS(fp.root), processesDir+"/*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list process files: %w", err)
	}

	processes := make([]*models.ProcessDefinition, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		id := strings.TrimSuffix(path.Base(file), ".json")

		process, err := fp.read(id)
		if err != nil {
			return nil, err
		}

		processes = append(processes, process)
	}

	sort.Slice(processes, func(i, j int) bool { return processes[i].ID < processes[j].ID })

	return processes, nil
}

// ProcessByID returns the stored process or ErrProcessNotFound.
func (fp *Persistence) ProcessByID(_ context.Context, id string) (*models.ProcessDefinition, error) {
	fp.mu.RLock()
	defer fp.mu.RUnlock()

	return fp.read(id)
}

// SaveProcess writes process as indented JSON.
func (fp *Persistence) SaveProcess(_ context.Context, process *models.ProcessDefinition) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	target, err := fp.path("SaveProcess", process.ID)
	if err != nil {
		return err
	}

	stored, err := fp.read(process.ID)
	if err != nil && !persistence.IsProcessNotFound(err) {
		return err
	}

	if err := persistence.CheckReplace(stored, process); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(fp.root, processesDir), 0750); err != nil {
		return fmt.Errorf("failed to create processes directory: %w", err)
	}

	data, err := json.MarshalIndent(process, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal process %s: %w", process.ID, err)
	}

	return os.WriteFile(target, data, 0600)
}

// DeleteProcess removes the stored process file.
func (fp *Persistence) DeleteProcess(_ context.Context, id string) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	target, err := fp.path("DeleteProcess", id)
	if err != nil {
		return err
	}

	err = os.Remove(target)
	if os.IsNotExist(err) {
		return persistence.NewProcessError("DeleteProcess", id, persistence.ErrProcessNotFound)
	}

	if err != nil {
		return fmt.Errorf("failed to delete process %s: %w", id, err)
	}

	return nil
}

// path maps id to its file. Ids must be plain file names so that distinct ids never share
// a file.
func (fp *Persistence) path(op, id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || filepath.Base(id) != id {
		return "", persistence.NewProcessError(op, id, persistence.ErrInvalidProcessID)
	}

	return filepath.Join(fp.root, processesDir, id+".json"), nil
}

func (fp *Persistence) read(id string) (*models.ProcessDefinition, error) {
	target, err := fp.path("ProcessByID", id)
	if err != nil {
		return nil, err
	}

	body, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewProcessError("ProcessByID", id, persistence.ErrProcessNotFound)
		}

		return nil, fmt.Errorf("failed to fetch process %s: %w", id, err)
	}

	var process models.ProcessDefinition

	if err := json.Unmarshal(body, &process); err != nil {
		return nil, fmt.Errorf("failed to unmarshal process %s: %w", id, err)
	}

	return &process, nil
}
