package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

const recordsKey = "records"

// RecordRepository is the append-only log of finished games.
type RecordRepository interface {
	Append(ctx context.Context, record *entity.GameRecord) error
	List(ctx context.Context) ([]*entity.GameRecord, error)
}

type redisRecord struct {
	client *redis.Client
}

func NewRedisRecordRepository(client *redis.Client) RecordRepository {
	return &redisRecord{
		client: client,
	}
}

func (that *redisRecord) Append(ctx context.Context, record *entity.GameRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not marshal record: %w", err)
	}

	if err = that.client.RPush(ctx, recordsKey, recordJSON).Err(); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}

	return nil
}

func (that *redisRecord) List(ctx context.Context) ([]*entity.GameRecord, error) {
	values, err := that.client.LRange(ctx, recordsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	records := make([]*entity.GameRecord, 0, len(values))
	for _, value := range values {
		var record entity.GameRecord
		if err = json.Unmarshal([]byte(value), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}

		records = append(records, &record)
	}

	return records, nil
}

// memoryRecord stores records by value so callers cannot edit the log through
// the pointers they are handed.
type memoryRecord struct {
	mu      sync.RWMutex
	records []entity.GameRecord
}

func NewMemoryRecordRepository() RecordRepository {
	return &memoryRecord{}
}

func (that *memoryRecord) Append(_ context.Context, record *entity.GameRecord) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored := *record
	if record.Winner != nil {
		winner := *record.Winner
		stored.Winner = &winner
	}

	that.records = append(that.records, stored)

	return nil
}

func (that *memoryRecord) List(_ context.Context) ([]*entity.GameRecord, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	records := make([]*entity.GameRecord, 0, len(that.records))
	for _, stored := range that.records {
		record := stored
		if stored.Winner != nil {
			winner := *stored.Winner
			record.Winner = &winner
		}

		records = append(records, &record)
	}

	return records, nil
}
