// Package store provides Redis- and SQLite-backed implementations of
// the aisdk.Store interface.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	aisdk "github.com/kushdevteam/grokani-ai-sdk-go"
)

// RedisConfig configures the Redis store.
type RedisConfig struct {
	Prefix             string // key prefix, default "ai"
	InteractionLogSize int    // per-entity log bound, default aisdk.MaxInteractionLog
}

// RedisStore implements aisdk.Store on Redis.
//
// Key scheme:
//
//	{prefix}:personality:{entity}          JSON PersonalityState
//	{prefix}:personality:{entity}:ver      version counter for CAS
//	{prefix}:profile:{userID}:{entity}     JSON UserAiProfile
//	{prefix}:interactions:{entity}         list of JSON InteractionRecords, newest first
type RedisStore struct {
	client  redis.UniversalClient
	prefix  string
	logSize int
}

// personalityCAS writes the state only when the stored version matches.
// KEYS[1]=payload key, KEYS[2]=version key;
// ARGV[1]=expected version, ARGV[2]=payload, ARGV[3]=new version.
var personalityCAS = redis.NewScript(`
local cur = redis.call('GET', KEYS[2])
if not cur then cur = '0' end
if cur ~= ARGV[1] then return 0 end
redis.call('SET', KEYS[1], ARGV[2])
redis.call('SET', KEYS[2], ARGV[3])
return 1
`)

// NewRedisStore creates a Store backed by Redis.
func NewRedisStore(client redis.UniversalClient, config ...RedisConfig) *RedisStore {
	cfg := RedisConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "ai"
	}
	if cfg.InteractionLogSize <= 0 {
		cfg.InteractionLogSize = aisdk.MaxInteractionLog
	}
	return &RedisStore{
		client:  client,
		prefix:  cfg.Prefix,
		logSize: cfg.InteractionLogSize,
	}
}

func (s *RedisStore) personalityKey(entity aisdk.Entity) string {
	return fmt.Sprintf("%s:personality:%s", s.prefix, entity)
}

func (s *RedisStore) profileKey(userID string, entity aisdk.Entity) string {
	return fmt.Sprintf("%s:profile:%s:%s", s.prefix, userID, entity)
}

func (s *RedisStore) interactionsKey(entity aisdk.Entity) string {
	return fmt.Sprintf("%s:interactions:%s", s.prefix, entity)
}

func (s *RedisStore) GetPersonality(ctx context.Context, entity aisdk.Entity) (*aisdk.PersonalityState, error) {
	raw, err := s.client.Get(ctx, s.personalityKey(entity)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, aisdk.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get personality: %w", err)
	}
	var state aisdk.PersonalityState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("decode personality: %w", err)
	}
	return &state, nil
}

func (s *RedisStore) PutPersonality(ctx context.Context, state *aisdk.PersonalityState) error {
	expected := state.Version
	next := state.Version + 1

	payload := state.Clone()
	payload.Version = next
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode personality: %w", err)
	}

	keys := []string{s.personalityKey(state.Entity), s.personalityKey(state.Entity) + ":ver"}
	res, err := personalityCAS.Run(ctx, s.client, keys,
		fmt.Sprintf("%d", expected), string(raw), fmt.Sprintf("%d", next)).Int64()
	if err != nil {
		return fmt.Errorf("put personality: %w", err)
	}
	if res != 1 {
		return aisdk.ErrVersionConflict
	}
	state.Version = next
	return nil
}

func (s *RedisStore) GetProfile(ctx context.Context, userID string, entity aisdk.Entity) (*aisdk.UserAiProfile, error) {
	raw, err := s.client.Get(ctx, s.profileKey(userID, entity)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, aisdk.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	var profile aisdk.UserAiProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}

func (s *RedisStore) PutProfile(ctx context.Context, profile *aisdk.UserAiProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.client.Set(ctx, s.profileKey(profile.UserID, profile.Entity), raw, 0).Err(); err != nil {
		return fmt.Errorf("put profile: %w", err)
	}
	return nil
}

func (s *RedisStore) AppendInteraction(ctx context.Context, rec *aisdk.InteractionRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode interaction: %w", err)
	}
	key := s.interactionsKey(rec.Entity)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, raw)
	pipe.LTrim(ctx, key, 0, int64(s.logSize-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append interaction: %w", err)
	}
	return nil
}

func (s *RedisStore) RecentInteractions(ctx context.Context, entity aisdk.Entity, limit int) ([]*aisdk.InteractionRecord, error) {
	if limit <= 0 {
		limit = s.logSize
	}
	raws, err := s.client.LRange(ctx, s.interactionsKey(entity), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("recent interactions: %w", err)
	}
	out := make([]*aisdk.InteractionRecord, 0, len(raws))
	for _, raw := range raws {
		var rec aisdk.InteractionRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode interaction: %w", err)
		}
		out = append(out, &rec)
	}
	return out, nil
}
