// Package service implements session handling and the event registry: the
// business rules, validation and persistence orchestration that sit between
// the HTTP handlers and the key/value store.
package service

import (
	"context"

	"github.com/Shivanand-hulikatti/virtual-events/internal/store"
)

// App is the application state owned by the composition root. Consumers
// reach sessions and events only through it.
type App struct {
	Directory *UserDirectory
	Sessions  *SessionManager
	Registry  *EventRegistry
}

// New builds the application state and loads everything persisted in st: the
// signed-up users, the restored session and the event list.
func New(ctx context.Context, st *store.Store, opts ...Option) *App {
	dir := NewUserDirectory(st)
	dir.Load(ctx)

	sessions := NewSessionManager(dir, st, opts...)
	sessions.Restore(ctx)

	registry := NewEventRegistry(sessions, st, opts...)
	registry.Load(ctx)

	return &App{Directory: dir, Sessions: sessions, Registry: registry}
}
