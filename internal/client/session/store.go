// Package session holds the client's one piece of mutable shared state, the
// credential store, and the single-flight refresh coordinator that keeps the
// access token valid under concurrent use.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/responderhq/fieldsync/internal/client/models"
	"github.com/responderhq/fieldsync/internal/client/repositories/credentials"
	"github.com/responderhq/fieldsync/internal/dbx"
)

// Well-known keys in the local credentials table.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyIdentity     = "identity"
	keyInstanceID   = "instance_id"
)

// Store persists the credential pair and identity snapshot. All writes go
// through a single transaction guarded by a mutex, so a concurrent reader
// observes either the fully-old or the fully-new pair, never a mix.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save writes both tokens as a unit.
func (s *Store) Save(ctx context.Context, accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveTokensTx(ctx, accessToken, refreshToken, nil)
}

// SaveSession writes the token pair and the identity snapshot in one
// transaction. Used on login so a crash cannot leave tokens without an
// identity or the other way around.
func (s *Store) SaveSession(ctx context.Context, pair models.TokenPair, identity models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encoding identity snapshot: %w", err)
	}
	return s.saveTokensTx(ctx, pair.AccessToken, pair.RefreshToken, raw)
}

func (s *Store) saveTokensTx(ctx context.Context, accessToken, refreshToken string, identity []byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := credentials.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyAccessToken, []byte(accessToken)); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyRefreshToken, []byte(refreshToken)); err != nil {
			return err
		}
		if identity != nil {
			if err := repo.Set(ctx, keyIdentity, identity); err != nil {
				return err
			}
		}
		return nil
	})
}

// Access returns the current access token, or "" when signed out.
func (s *Store) Access(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(ctx, keyAccessToken)
}

// Refresh returns the current refresh token, or "" when signed out.
func (s *Store) Refresh(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(ctx, keyRefreshToken)
}

// Pair reads both tokens under one lock so the result is a consistent unit.
func (s *Store) Pair(ctx context.Context) (models.TokenPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	access, err := s.get(ctx, keyAccessToken)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := s.get(ctx, keyRefreshToken)
	if err != nil {
		return models.TokenPair{}, err
	}
	return models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// SaveIdentity replaces the identity snapshot (e.g., after a profile fetch).
func (s *Store) SaveIdentity(ctx context.Context, identity models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encoding identity snapshot: %w", err)
	}
	return credentials.NewSQLiteRepository(s.db).Set(ctx, keyIdentity, raw)
}

// Identity returns the cached identity snapshot, or nil when absent.
func (s *Store) Identity(ctx context.Context) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := credentials.NewSQLiteRepository(s.db).Get(ctx, keyIdentity)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var identity models.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return nil, fmt.Errorf("decoding identity snapshot: %w", err)
	}
	return &identity, nil
}

// InstanceID returns the per-install client instance id, generating and
// persisting one on first use. It survives Clear.
func (s *Store) InstanceID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo := credentials.NewSQLiteRepository(s.db)
	raw, err := repo.Get(ctx, keyInstanceID)
	if err != nil {
		return "", err
	}
	if raw != nil {
		return string(raw), nil
	}

	id := uuid.NewString()
	if err := repo.Set(ctx, keyInstanceID, []byte(id)); err != nil {
		return "", err
	}
	return id, nil
}

// Clear removes both tokens and the identity snapshot as a unit. Invoked on
// logout and on unrecoverable refresh failure. The instance id is kept.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := credentials.NewSQLiteRepository(tx)
		for _, key := range []string{keyAccessToken, keyRefreshToken, keyIdentity} {
			if err := repo.Delete(ctx, key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	raw, err := credentials.NewSQLiteRepository(s.db).Get(ctx, key)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
