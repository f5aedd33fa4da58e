// Package store implements the session-scoped key-value persistence layer.
//
// Every persisted object is addressed by the normalized key
// {session}:{kind}:{name}. Ranged lists (chat histories) use the same triple
// with a position column for ordering.
//
// Error policy: this layer is a best-effort cache of conversational context,
// so any store-level error is logged and degraded to an empty/default result.
// Callers treat "not found" and "store unavailable" identically; writes
// return a best-effort ack. Nothing here is safe for data requiring
// durability guarantees, and that is intentional.
package store

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/plateful/go-recipe-backend/internal/domain"
)

// SessionStore persists session-scoped entries. It is safe for concurrent
// use; concurrent writers to the same key race and last write wins.
type SessionStore struct {
	DB *gorm.DB
}

// NewSessionStore constructs a SessionStore over the given GORM handle.
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{DB: db}
}

// Put upserts the value at {session}:{kind}:{name}. The returned bool is a
// best-effort ack: false means the write was lost (and logged), not that the
// caller should fail the request.
func (s *SessionStore) Put(ctx context.Context, session, kind, name, value string) bool {
	return s.PutAt(ctx, session, kind, name, 0, value)
}

// PutAt upserts a positioned entry, used for ranged lists.
func (s *SessionStore) PutAt(ctx context.Context, session, kind, name string, position int, value string) bool {
	entry := domain.SessionEntry{
		SessionID: session,
		Kind:      kind,
		Name:      name,
		Position:  position,
		Value:     value,
	}

	res := s.DB.WithContext(ctx).
		Where("session_id = ? AND kind = ? AND name = ?", session, kind, name).
		Assign(map[string]any{"value": value, "position": position}).
		FirstOrCreate(&entry)
	if res.Error != nil {
		log.Error().Err(res.Error).Str("key", entry.Key()).Msg("store put failed")
		return false
	}
	return true
}

// Get returns the value at {session}:{kind}:{name}, or ("", false) when the
// entry is missing or the store is unavailable.
func (s *SessionStore) Get(ctx context.Context, session, kind, name string) (string, bool) {
	var entry domain.SessionEntry
	err := s.DB.WithContext(ctx).
		Where("session_id = ? AND kind = ? AND name = ?", session, kind, name).
		First(&entry).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error().Err(err).Str("key", session+":"+kind+":"+name).Msg("store get failed")
		}
		return "", false
	}
	return entry.Value, true
}

// Delete removes the entry at {session}:{kind}:{name}. It reports whether a
// row was actually removed; store errors degrade to false.
func (s *SessionStore) Delete(ctx context.Context, session, kind, name string) bool {
	res := s.DB.WithContext(ctx).
		Where("session_id = ? AND kind = ? AND name = ?", session, kind, name).
		Delete(&domain.SessionEntry{})
	if res.Error != nil {
		log.Error().Err(res.Error).Str("key", session+":"+kind+":"+name).Msg("store delete failed")
		return false
	}
	return res.RowsAffected > 0
}

// List returns all entries for {session}:{kind} ordered by position then
// name. Store errors degrade to an empty slice.
func (s *SessionStore) List(ctx context.Context, session, kind string) []domain.SessionEntry {
	var out []domain.SessionEntry
	err := s.DB.WithContext(ctx).
		Where("session_id = ? AND kind = ?", session, kind).
		Order("position asc, name asc").
		Find(&out).Error
	if err != nil {
		log.Error().Err(err).Str("session", session).Str("kind", kind).Msg("store list failed")
		return nil
	}
	return out
}

// ListRange returns the entries for {session}:{kind} with positions in
// [start, end] inclusive, ordered by position. A negative end means "to the
// last entry". Store errors degrade to an empty slice.
func (s *SessionStore) ListRange(ctx context.Context, session, kind string, start, end int) []domain.SessionEntry {
	q := s.DB.WithContext(ctx).
		Where("session_id = ? AND kind = ? AND position >= ?", session, kind, start)
	if end >= 0 {
		q = q.Where("position <= ?", end)
	}

	var out []domain.SessionEntry
	if err := q.Order("position asc").Find(&out).Error; err != nil {
		log.Error().Err(err).Str("session", session).Str("kind", kind).Msg("store list range failed")
		return nil
	}
	return out
}

// DeleteAll removes every entry owned by the session, across all kinds.
func (s *SessionStore) DeleteAll(ctx context.Context, session string) bool {
	res := s.DB.WithContext(ctx).
		Where("session_id = ?", session).
		Delete(&domain.SessionEntry{})
	if res.Error != nil {
		log.Error().Err(res.Error).Str("session", session).Msg("store delete all failed")
		return false
	}
	return true
}

// DeleteKind removes every entry of one kind owned by the session.
func (s *SessionStore) DeleteKind(ctx context.Context, session, kind string) bool {
	res := s.DB.WithContext(ctx).
		Where("session_id = ? AND kind = ?", session, kind).
		Delete(&domain.SessionEntry{})
	if res.Error != nil {
		log.Error().Err(res.Error).Str("session", session).Str("kind", kind).Msg("store delete kind failed")
		return false
	}
	return true
}
