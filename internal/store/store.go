// Package store is the persistent key/value port the session manager and event
// registry mirror their state to after every successful mutation.
//
// Values are JSON documents addressed by string keys. The Store adapter never
// reports a failure to its caller: encoding, decoding and backend errors are
// logged and counted, and in-memory state stays authoritative.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Shivanand-hulikatti/virtual-events/internal/metrics"
	"github.com/rs/zerolog"
)

// Fixed keys.
const (
	KeySession  = "currentUser"
	KeyEvents   = "events"
	KeyUsers    = "users"
	KeyProfiles = "profiles"
)

// BookmarksKey is the per-user key holding bookmarked event ids.
func BookmarksKey(userID string) string { return "bookmarks_" + userID }

// RegistrationsKey is the per-user key holding registered event ids.
func RegistrationsKey(userID string) string { return "registrations_" + userID }

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("store closed")

// Backend persists raw JSON documents. Implementations must leave the previous
// value in place when Set fails.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Name() string
}

// Store wraps a Backend with JSON serialization and swallow-and-log error
// handling.
type Store struct {
	backend Backend
	prefix  string
	logger  zerolog.Logger
}

// New constructs a Store. prefix is prepended to every key so several
// deployments can share one backend.
func New(backend Backend, prefix string, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		prefix:  prefix,
		logger:  logger.With().Str("component", "store").Str("backend", backend.Name()).Logger(),
	}
}

// Get decodes the value under key into dst and reports whether a value was
// found. Missing, unreadable and undecodable values all report false.
func (s *Store) Get(ctx context.Context, key string, dst any) bool {
	raw, ok, err := s.backend.Get(ctx, s.prefix+key)
	if err != nil {
		s.fail("get", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.fail("decode", key, err)
		return false
	}
	return true
}

// Set encodes value and writes it under key.
func (s *Store) Set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.fail("encode", key, err)
		return
	}
	if err := s.backend.Set(ctx, s.prefix+key, raw); err != nil {
		s.fail("set", key, err)
	}
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, s.prefix+key); err != nil {
		s.fail("delete", key, err)
	}
}

func (s *Store) fail(op, key string, err error) {
	metrics.StoreFailures.WithLabelValues(s.backend.Name(), op).Inc()
	s.logger.Error().Err(err).Str("op", op).Str("key", key).Msg("persistence failed")
}
