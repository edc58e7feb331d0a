package scenariorepo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/scenario-gen/internal/errors"
	"github.com/KirkDiggler/scenario-gen/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/scenario-gen/internal/redis"
)

const (
	// Key pattern: scenario:{record_id}; index key holds listing entries
	recordKeyPrefix = "scenario:"
	indexKey        = "scenario_index"

	errRecordNil  = "record cannot be nil"
	errIDEmpty    = "record id cannot be empty"
	errNoSnapshot = "record has no snapshot"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for scenarios
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Save stores a generated scenario
func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Record == nil {
		return nil, errors.InvalidArgument(errRecordNil)
	}
	if input.Record.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}
	if input.Record.Snapshot == nil {
		return nil, errors.InvalidArgument(errNoSnapshot)
	}

	record := *input.Record
	record.CreatedAt = r.clock.Now()

	recordJSON, err := json.Marshal(&record)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal scenario record")
	}

	key := r.buildKey(record.ID)
	if err := r.client.Set(ctx, key, recordJSON, input.TTL).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to store scenario in Redis")
	}

	entry := ListEntry{
		ID:           record.ID,
		TemplateName: record.TemplateName,
		Seed:         record.Seed,
		Size:         record.Size,
		CreatedAt:    record.CreatedAt,
	}
	entryJSON, err := json.Marshal(&entry)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal index entry")
	}

	if err := r.client.HSet(ctx, indexKey, record.ID, entryJSON).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to index scenario in Redis")
	}

	return &SaveOutput{Record: &record}, nil
}

// Get retrieves a stored scenario by record id
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	recordJSON, err := r.client.Get(ctx, r.buildKey(input.ID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("scenario %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get scenario from Redis")
	}

	var record Record
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal scenario record")
	}

	return &GetOutput{Record: &record}, nil
}

// List enumerates stored scenarios without their payloads
func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	entries, err := r.client.HGetAll(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list scenarios from Redis")
	}

	output := &ListOutput{}
	for _, entryJSON := range entries {
		var entry ListEntry
		if err := json.Unmarshal([]byte(entryJSON), &entry); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal index entry")
		}

		if input.TemplateName != "" && entry.TemplateName != input.TemplateName {
			continue
		}

		output.Records = append(output.Records, entry)
	}

	// HGetAll order is not stable; sort for deterministic listings
	sort.Slice(output.Records, func(i, j int) bool {
		return output.Records[i].ID < output.Records[j].ID
	})

	return output, nil
}

// Delete removes a stored scenario
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	deleted, err := r.client.Del(ctx, r.buildKey(input.ID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete scenario from Redis")
	}

	if err := r.client.HDel(ctx, indexKey, input.ID).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to remove scenario from index")
	}

	return &DeleteOutput{Deleted: deleted > 0}, nil
}

// buildKey creates the Redis key for a scenario record
func (r *redisRepository) buildKey(id string) string {
	return fmt.Sprintf("%s%s", recordKeyPrefix, id)
}
