// Package redis provides Redis persistence of compiled process definitions.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dukex/flowc/pkg/models"
	"github.com/dukex/flowc/pkg/persistence"
)

const (
	processKeyPrefix = "flowc:process:"
	processIndexKey  = "flowc:processes"
)

// Persistence stores each process as a JSON string and keeps the ids in a set.
type Persistence struct {
	client goredis.UniversalClient
	logger *slog.Logger
}

// NewPersistence connects to the Redis server addressed by redisURL.
func NewPersistence(ctx context.Context, logger *slog.Logger, redisURL string) (*Persistence, error) {
	options, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := goredis.NewClient(options)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewPersistenceWithClient(logger, client), nil
}

// NewPersistenceWithClient wraps an existing client.
func NewPersistenceWithClient(logger *slog.Logger, client goredis.UniversalClient) *Persistence {
	return &Persistence{client: client, logger: logger.With("module", "redis")}
}

// Close closes the client.
func (p *Persistence) Close(_ context.Context) error {
	return p.client.Close()
}

// HealthCheck pings the server.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

// Processes returns every stored process ordered by id.
func (p *Persistence) Processes(ctx context.Context) ([]*models.ProcessDefinition, error) {
	ids, err := p.client.SMembers(ctx, processIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	sort.Strings(ids)

	processes := make([]*models.ProcessDefinition, 0, len(ids))

	for _, id := range ids {
		process, err := p.ProcessByID(ctx, id)
		if persistence.IsProcessNotFound(err) {
			p.logger.WarnContext(ctx, "Dangling process index entry", "process_id", id)

			continue
		}

		if err != nil {
			return nil, err
		}

		processes = append(processes, process)
	}

	return processes, nil
}

// ProcessByID returns the process or ErrProcessNotFound.
func (p *Persistence) ProcessByID(ctx context.Context, id string) (*models.ProcessDefinition, error) {
	return get(ctx, p.client, id)
}

type getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

func get(ctx context.Context, g getter, id string) (*models.ProcessDefinition, error) {
	data, err := g.Get(ctx, processKeyPrefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, persistence.NewProcessError("ProcessByID", id, persistence.ErrProcessNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to fetch process %s: %w", id, err)
	}

	var process models.ProcessDefinition

	if err := json.Unmarshal(data, &process); err != nil {
		return nil, fmt.Errorf("failed to unmarshal process %s: %w", id, err)
	}

	return &process, nil
}

// SaveProcess stores process, watching its key so a concurrent save of the same id aborts.
func (p *Persistence) SaveProcess(ctx context.Context, process *models.ProcessDefinition) error {
	data, err := json.Marshal(process)
	if err != nil {
		return fmt.Errorf("failed to marshal process %s: %w", process.ID, err)
	}

	key := processKeyPrefix + process.ID

	err = p.client.Watch(ctx, func(tx *goredis.Tx) error {
		stored, err := get(ctx, tx, process.ID)
		if err != nil && !persistence.IsProcessNotFound(err) {
			return err
		}

		if err := persistence.CheckReplace(stored, process); err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.SAdd(ctx, processIndexKey, process.ID)

			return nil
		})

		return err
	}, key)
	if err != nil {
		if persistence.IsProcessAlreadyExists(err) {
			return err
		}

		return fmt.Errorf("failed to save process %s: %w", process.ID, err)
	}

	return nil
}

// DeleteProcess removes the process or returns ErrProcessNotFound.
func (p *Persistence) DeleteProcess(ctx context.Context, id string) error {
	var deleted *goredis.IntCmd

	_, err := p.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		deleted = pipe.Del(ctx, processKeyPrefix+id)
		pipe.SRem(ctx, processIndexKey, id)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete process %s: %w", id, err)
	}

	if deleted.Val() == 0 {
		return persistence.NewProcessError("DeleteProcess", id, persistence.ErrProcessNotFound)
	}

	return nil
}
