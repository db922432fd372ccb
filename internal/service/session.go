package service

import (
	"context"
	"strings"
	"sync"

	"github.com/Shivanand-hulikatti/virtual-events/internal/activity"
	"github.com/Shivanand-hulikatti/virtual-events/internal/ids"
	"github.com/Shivanand-hulikatti/virtual-events/internal/model"
	"github.com/Shivanand-hulikatti/virtual-events/internal/sanitize"
	"github.com/Shivanand-hulikatti/virtual-events/internal/store"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// SessionManager owns the single signed-in user and mirrors it to the store.
type SessionManager struct {
	mu      sync.RWMutex
	current *model.User

	dir       *UserDirectory
	store     *store.Store
	validator *validator.Validate
	opts      options
	logger    zerolog.Logger
}

func NewSessionManager(dir *UserDirectory, st *store.Store, opts ...Option) *SessionManager {
	o := buildOptions(opts)
	return &SessionManager{
		dir:       dir,
		store:     st,
		validator: newValidator(),
		opts:      o,
		logger:    o.logger.With().Str("component", "session").Logger(),
	}
}

// Restore adopts the persisted session, if any, without checking it against
// the directory.
func (s *SessionManager) Restore(ctx context.Context) bool {
	var u model.User
	if !s.store.Get(ctx, store.KeySession, &u) {
		return false
	}
	s.mu.Lock()
	s.current = &u
	s.mu.Unlock()
	s.logger.Info().Str("user_id", u.ID).Msg("session restored")
	return true
}

// Current returns a copy of the signed-in user.
func (s *SessionManager) Current() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.User{}, false
	}
	return s.current.Clone(), true
}

// Login signs in the account whose email matches. The password is accepted
// but not checked.
func (s *SessionManager) Login(ctx context.Context, email, password string) (*model.User, error) {
	if err := delay(ctx, s.opts.latency); err != nil {
		return nil, err
	}

	u, ok := s.dir.FindByEmail(email)
	if !ok {
		s.logger.Info().Str("email", email).Msg("login rejected")
		return nil, ErrInvalidCredentials
	}

	s.adopt(ctx, u)
	s.publish(ctx, activity.TypeUserLoggedIn, u)
	s.logger.Info().Str("user_id", u.ID).Msg("logged in")
	return &u, nil
}

// Signup creates an account and signs it in.
func (s *SessionManager) Signup(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	if err := delay(ctx, s.opts.latency); err != nil {
		return nil, err
	}

	req.Name = sanitize.Text(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := check(s.validator, req); err != nil {
		return nil, err
	}

	u := model.User{
		ID:            ids.NewAt("user", s.opts.now()),
		Name:          req.Name,
		Email:         req.Email,
		Role:          req.Role,
		JoinedEvents:  []string{},
		CreatedEvents: []string{},
	}
	if err := s.dir.Add(ctx, u); err != nil {
		return nil, err
	}

	s.adopt(ctx, u)
	s.publish(ctx, activity.TypeUserSignedUp, u)
	s.logger.Info().Str("user_id", u.ID).Str("role", string(u.Role)).Msg("signed up")
	return &u, nil
}

// Logout clears the session in memory and in the store.
func (s *SessionManager) Logout(ctx context.Context) {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	s.store.Delete(ctx, store.KeySession)
	if prev != nil {
		s.publish(ctx, activity.TypeUserLoggedOut, *prev)
		s.logger.Info().Str("user_id", prev.ID).Msg("logged out")
	}
}

// UpdateProfile patches the signed-in user.
func (s *SessionManager) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (*model.User, error) {
	if err := delay(ctx, s.opts.latency); err != nil {
		return nil, err
	}

	u, ok := s.Current()
	if !ok {
		return nil, ErrUnauthenticated
	}
	if patch.Name != nil {
		name := sanitize.Text(*patch.Name)
		patch.Name = &name
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		patch.Email = &email
	}
	if err := check(s.validator, patch); err != nil {
		return nil, err
	}

	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Bio != nil {
		u.Bio = sanitize.HTML(*patch.Bio)
	}
	if patch.Avatar != nil {
		u.Avatar = strings.TrimSpace(*patch.Avatar)
	}

	if err := s.dir.Update(ctx, u); err != nil {
		return nil, err
	}
	s.adopt(ctx, u)
	s.logger.Info().Str("user_id", u.ID).Msg("profile updated")
	return &u, nil
}

func (s *SessionManager) adopt(ctx context.Context, u model.User) {
	s.mu.Lock()
	cp := u.Clone()
	s.current = &cp
	s.mu.Unlock()
	s.store.Set(ctx, store.KeySession, u)
}

func (s *SessionManager) publish(ctx context.Context, typ string, u model.User) {
	s.opts.publisher.Publish(ctx, activity.Activity{
		Type:    typ,
		Version: activity.Version,
		UserID:  u.ID,
		Email:   u.Email,
		TS:      s.opts.now().UTC(),
	})
}
