package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"vectorchat/internal/model"
)

// RecordStore is the durable home for completed turns. Writes are best-effort
// and keyed deterministically, so replaying a fan-out for the same turn
// overwrites rather than duplicates.
type RecordStore interface {
	PutTurn(ctx context.Context, sessionID string, turn model.Turn) error
	ListKeys(ctx context.Context, limit int64) ([]string, error)
}

const recordKeyPrefix = "messages/"

type redisRecordStore struct {
	rdb *redis.Client
}

// NewRedisRecordStore creates a RecordStore backed by Redis.
func NewRedisRecordStore(rdb *redis.Client) RecordStore {
	return &redisRecordStore{rdb: rdb}
}

func (r *redisRecordStore) turnKey(sessionID, userMessageID string) string {
	return fmt.Sprintf("%s%s/%s.json", recordKeyPrefix, sessionID, userMessageID)
}

func (r *redisRecordStore) PutTurn(ctx context.Context, sessionID string, turn model.Turn) error {
	val, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("could not marshal turn: %w", err)
	}
	return r.rdb.Set(ctx, r.turnKey(sessionID, turn.UserMessage.ID), val, 0).Err()
}

func (r *redisRecordStore) ListKeys(ctx context.Context, limit int64) ([]string, error) {
	var keys []string
	iter := r.rdb.Scan(ctx, 0, recordKeyPrefix+"*", limit).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if limit > 0 && int64(len(keys)) >= limit {
			break
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("record key scan failed: %w", err)
	}
	return keys, nil
}
