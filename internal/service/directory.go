package service

import (
	"context"
	"strings"
	"sync"

	"github.com/Shivanand-hulikatti/virtual-events/internal/catalog"
	"github.com/Shivanand-hulikatti/virtual-events/internal/model"
	"github.com/Shivanand-hulikatti/virtual-events/internal/store"
)

// UserDirectory holds the seeded accounts plus every account created through
// signup. Signups are persisted under "users"; profile edits to seeded
// accounts are persisted under "profiles" and laid over the catalog on Load.
type UserDirectory struct {
	mu      sync.RWMutex
	seed     []model.User
	signups  []model.User
	profiles map[string]model.User
	store    *store.Store
}

// NewUserDirectory returns a directory seeded from the catalog.
func NewUserDirectory(st *store.Store) *UserDirectory {
	return &UserDirectory{seed: catalog.Users(), profiles: map[string]model.User{}, store: st}
}

// Load reads persisted signups and seeded-profile edits.
func (d *UserDirectory) Load(ctx context.Context) {
	var (
		signups  []model.User
		profiles map[string]model.User
	)
	hasSignups := d.store.Get(ctx, store.KeyUsers, &signups)
	d.store.Get(ctx, store.KeyProfiles, &profiles)

	d.mu.Lock()
	defer d.mu.Unlock()
	if hasSignups {
		d.signups = signups
	}
	for i := range d.seed {
		if p, ok := profiles[d.seed[i].ID]; ok {
			d.seed[i] = p
			d.profiles[p.ID] = p
		}
	}
}

// FindByEmail matches case-insensitively after trimming whitespace.
func (d *UserDirectory) FindByEmail(email string) (model.User, bool) {
	email = strings.TrimSpace(email)
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.all() {
		if strings.EqualFold(u.Email, email) {
			return u.Clone(), true
		}
	}
	return model.User{}, false
}

func (d *UserDirectory) FindByID(id string) (model.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.all() {
		if u.ID == id {
			return u.Clone(), true
		}
	}
	return model.User{}, false
}

// Add appends u unless its email is already in use.
func (d *UserDirectory) Add(ctx context.Context, u model.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.all() {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrEmailTaken
		}
	}
	d.signups = append(d.signups, u.Clone())
	d.store.Set(ctx, store.KeyUsers, d.signups)
	return nil
}

// Update replaces the account with u's id. It returns ErrEmailTaken when u's
// email belongs to a different account and ErrNotFound for an unknown id.
func (d *UserDirectory) Update(ctx context.Context, u model.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.all() {
		if existing.ID != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return ErrEmailTaken
		}
	}

	for i := range d.seed {
		if d.seed[i].ID == u.ID {
			d.seed[i] = u.Clone()
			d.profiles[u.ID] = u.Clone()
			d.store.Set(ctx, store.KeyProfiles, d.profiles)
			return nil
		}
	}
	for i := range d.signups {
		if d.signups[i].ID == u.ID {
			d.signups[i] = u.Clone()
			d.store.Set(ctx, store.KeyUsers, d.signups)
			return nil
		}
	}
	return ErrNotFound
}

// Users returns every account, seeded ones first.
func (d *UserDirectory) Users() []model.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	all := d.all()
	out := make([]model.User, len(all))
	for i, u := range all {
		out[i] = u.Clone()
	}
	return out
}

func (d *UserDirectory) all() []model.User {
	out := make([]model.User, 0, len(d.seed)+len(d.signups))
	out = append(out, d.seed...)
	return append(out, d.signups...)
}
