package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	aisdk "github.com/kushdevteam/grokani-ai-sdk-go"
	"github.com/kushdevteam/grokani-ai-sdk-go/store/migrations"
)

// SQLiteStore implements aisdk.Store on a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
	path   string
}

// NewSQLiteStore opens or creates a SQLite-backed store at path and runs
// pending schema migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.Up(s.db, ".")
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *SQLiteStore) guard() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return aisdk.ErrStoreClosed
	}
	return nil
}

func (s *SQLiteStore) GetPersonality(ctx context.Context, entity aisdk.Entity) (*aisdk.PersonalityState, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM personality_states WHERE entity = ?`, string(entity)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, aisdk.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get personality: %w", err)
	}
	var state aisdk.PersonalityState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("decode personality: %w", err)
	}
	return &state, nil
}

func (s *SQLiteStore) PutPersonality(ctx context.Context, state *aisdk.PersonalityState) error {
	if err := s.guard(); err != nil {
		return err
	}

	expected := state.Version
	next := expected + 1
	payload := state.Clone()
	payload.Version = next
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode personality: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	if expected == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO personality_states (entity, data, version, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (entity) DO NOTHING`,
			string(state.Entity), string(raw), next, now)
		if err != nil {
			return fmt.Errorf("insert personality: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return aisdk.ErrVersionConflict
		}
	} else {
		res, err := s.db.ExecContext(ctx, `
			UPDATE personality_states SET data = ?, version = ?, updated_at = ?
			WHERE entity = ? AND version = ?`,
			string(raw), next, now, string(state.Entity), expected)
		if err != nil {
			return fmt.Errorf("update personality: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return aisdk.ErrVersionConflict
		}
	}

	state.Version = next
	return nil
}

func (s *SQLiteStore) GetProfile(ctx context.Context, userID string, entity aisdk.Entity) (*aisdk.UserAiProfile, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM user_ai_profiles WHERE user_id = ? AND entity = ?`,
		userID, string(entity)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, aisdk.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	var profile aisdk.UserAiProfile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}

func (s *SQLiteStore) PutProfile(ctx context.Context, profile *aisdk.UserAiProfile) error {
	if err := s.guard(); err != nil {
		return err
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_ai_profiles (user_id, entity, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, entity) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		profile.UserID, string(profile.Entity), string(raw), now)
	if err != nil {
		return fmt.Errorf("put profile: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AppendInteraction(ctx context.Context, rec *aisdk.InteractionRecord) error {
	if err := s.guard(); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = ulid.Make().String()
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode interaction: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO interactions (id, entity, user_id, data, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Entity), rec.UserID, string(raw),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("append interaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RecentInteractions(ctx context.Context, entity aisdk.Entity, limit int) ([]*aisdk.InteractionRecord, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = aisdk.MaxInteractionLog
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT data FROM interactions
		WHERE entity = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, string(entity), limit)
	if err != nil {
		return nil, fmt.Errorf("recent interactions: %w", err)
	}
	defer rows.Close()

	var out []*aisdk.InteractionRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		var rec aisdk.InteractionRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("decode interaction: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
