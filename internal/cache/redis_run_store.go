package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/logisim/internal/pipeline"
	"github.com/redis/go-redis/v9"
)

const (
	runKeyPrefix     = "simulation:run:"
	latestRunKey     = "simulation:latest"
	simulationPrefix = "simulation:"
	runScanBatchSize = 100
)

type redisRunStore struct {
	client *redis.Client
	ttl    time.Duration
}

func runKey(id string) string {
	return runKeyPrefix + id
}

func (s *redisRunStore) Save(ctx context.Context, run *pipeline.Run) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode simulation run: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, runKey(run.ID), payload, s.ttl)
	pipe.Set(ctx, latestRunKey, run.ID, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *redisRunStore) Get(ctx context.Context, id string) (*pipeline.Run, error) {
	payload, err := s.client.Get(ctx, runKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var run pipeline.Run
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, fmt.Errorf("decode simulation run: %w", err)
	}
	return &run, nil
}

func (s *redisRunStore) Latest(ctx context.Context) (*pipeline.Run, error) {
	id, err := s.client.Get(ctx, latestRunKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *redisRunStore) Delete(ctx context.Context, id string) error {
	deleted, err := s.client.Del(ctx, runKey(id)).Result()
	if err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	if deleted == 0 {
		return ErrRunNotFound
	}

	latest, err := s.client.Get(ctx, latestRunKey).Result()
	if err == nil && latest == id {
		if err := s.client.Del(ctx, latestRunKey).Err(); err != nil {
			return fmt.Errorf("redis delete failed: %w", err)
		}
	}
	return nil
}

func (s *redisRunStore) Clear(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, s.client, simulationPrefix, runScanBatchSize)
}
