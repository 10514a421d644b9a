package aisdk

import (
	"context"
	"sync"
)

// ──────────────────────────────────────────────
// Store — pluggable persistence for personalities, profiles, interactions
// ──────────────────────────────────────────────

// MaxInteractionLog bounds how many interactions a store keeps per entity.
// The evolution engine only ever reads a recent window.
const MaxInteractionLog = 200

// Store is the pluggable persistence backend.
//
// PutPersonality is a compare-and-swap: the write succeeds only if the
// stored Version matches state.Version (or the record does not exist and
// state.Version is 0). On success the store increments the version and
// reflects it back on the passed state; on mismatch it returns
// ErrVersionConflict. Profile and interaction writes are plain
// last-write-wins.
type Store interface {
	GetPersonality(ctx context.Context, entity Entity) (*PersonalityState, error)
	PutPersonality(ctx context.Context, state *PersonalityState) error

	GetProfile(ctx context.Context, userID string, entity Entity) (*UserAiProfile, error)
	PutProfile(ctx context.Context, profile *UserAiProfile) error

	AppendInteraction(ctx context.Context, rec *InteractionRecord) error
	// RecentInteractions returns up to limit records for entity,
	// newest first.
	RecentInteractions(ctx context.Context, entity Entity, limit int) ([]*InteractionRecord, error)
}

// InMemoryStore is a thread-safe in-memory Store for development and
// tests. Data is lost on restart.
type InMemoryStore struct {
	mu            sync.RWMutex
	personalities map[Entity]*PersonalityState
	profiles      map[string]*UserAiProfile
	interactions  map[Entity][]*InteractionRecord
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		personalities: make(map[Entity]*PersonalityState),
		profiles:      make(map[string]*UserAiProfile),
		interactions:  make(map[Entity][]*InteractionRecord),
	}
}

func profileKey(userID string, entity Entity) string {
	return userID + "|" + string(entity)
}

func (s *InMemoryStore) GetPersonality(ctx context.Context, entity Entity) (*PersonalityState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.personalities[entity]
	if !ok {
		return nil, ErrNotFound
	}
	return state.Clone(), nil
}

func (s *InMemoryStore) PutPersonality(ctx context.Context, state *PersonalityState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.personalities[state.Entity]
	if ok {
		if current.Version != state.Version {
			return ErrVersionConflict
		}
	} else if state.Version != 0 {
		return ErrVersionConflict
	}
	stored := state.Clone()
	stored.Version++
	s.personalities[state.Entity] = stored
	state.Version = stored.Version
	return nil
}

func (s *InMemoryStore) GetProfile(ctx context.Context, userID string, entity Entity) (*UserAiProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[profileKey(userID, entity)]
	if !ok {
		return nil, ErrNotFound
	}
	return profile.Clone(), nil
}

func (s *InMemoryStore) PutProfile(ctx context.Context, profile *UserAiProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profileKey(profile.UserID, profile.Entity)] = profile.Clone()
	return nil
}

func (s *InMemoryStore) AppendInteraction(ctx context.Context, rec *InteractionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	cp.Topics = append([]string(nil), rec.Topics...)
	list := append(s.interactions[rec.Entity], &cp)
	if len(list) > MaxInteractionLog {
		list = list[len(list)-MaxInteractionLog:]
	}
	s.interactions[rec.Entity] = list
	return nil
}

func (s *InMemoryStore) RecentInteractions(ctx context.Context, entity Entity, limit int) ([]*InteractionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.interactions[entity]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}
	out := make([]*InteractionRecord, 0, limit)
	for i := len(list) - 1; i >= len(list)-limit; i-- {
		cp := *list[i]
		cp.Topics = append([]string(nil), list[i].Topics...)
		out = append(out, &cp)
	}
	return out, nil
}
