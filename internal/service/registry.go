package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/virtual-events/internal/activity"
	"github.com/Shivanand-hulikatti/virtual-events/internal/catalog"
	"github.com/Shivanand-hulikatti/virtual-events/internal/filter"
	"github.com/Shivanand-hulikatti/virtual-events/internal/ids"
	"github.com/Shivanand-hulikatti/virtual-events/internal/metrics"
	"github.com/Shivanand-hulikatti/virtual-events/internal/model"
	"github.com/Shivanand-hulikatti/virtual-events/internal/sanitize"
	"github.com/Shivanand-hulikatti/virtual-events/internal/store"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Sessions exposes the signed-in user.
type Sessions interface {
	Current() (model.User, bool)
}

// EventRegistry owns the event list and the signed-in user's bookmark and
// registration lists. Every successful mutation is written to the store.
//
// The per-user lists are reloaded lazily whenever the signed-in user differs
// from the one they were last loaded for.
type EventRegistry struct {
	mu            sync.Mutex
	events        []model.Event
	loadedFor     string
	bookmarks     []string
	registrations []string

	sessions  Sessions
	store     *store.Store
	validator *validator.Validate
	opts      options
	logger    zerolog.Logger
}

func NewEventRegistry(sessions Sessions, st *store.Store, opts ...Option) *EventRegistry {
	o := buildOptions(opts)
	return &EventRegistry{
		sessions:  sessions,
		store:     st,
		validator: newValidator(),
		opts:      o,
		logger:    o.logger.With().Str("component", "registry").Logger(),
	}
}

// Load reads the persisted event list, seeding it from the catalog on first
// run.
func (r *EventRegistry) Load(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var events []model.Event
	if r.store.Get(ctx, store.KeyEvents, &events) {
		r.events = events
		r.logger.Info().Int("events", len(events)).Msg("events loaded")
	} else {
		r.events = catalog.Events()
		r.store.Set(ctx, store.KeyEvents, r.events)
		r.logger.Info().Int("events", len(r.events)).Msg("events seeded from catalog")
	}
	r.loadedFor = ""
	r.bookmarks = nil
	r.registrations = nil
	r.syncUserLocked(ctx)
}

// CreateEvent appends a new event owned by the signed-in user.
func (r *EventRegistry) CreateEvent(ctx context.Context, in model.EventInput) (*model.Event, error) {
	if _, ok := r.sessions.Current(); !ok {
		r.record("create", ErrUnauthenticated)
		return nil, ErrUnauthenticated
	}
	if err := delay(ctx, r.opts.latency); err != nil {
		return nil, err
	}

	in = sanitizeInput(in)
	if in.EndDate.IsZero() && in.Duration != nil {
		in.EndDate = in.StartDate.Add(time.Duration(*in.Duration) * time.Minute)
	}
	if err := r.checkInput(in); err != nil {
		r.record("create", err)
		return nil, err
	}

	r.mu.Lock()
	u, ok := r.syncUserLocked(ctx)
	if !ok {
		r.mu.Unlock()
		r.record("create", ErrUnauthenticated)
		return nil, ErrUnauthenticated
	}
	e := model.Event{
		ID:               ids.NewAt("event", r.opts.now()),
		Title:            in.Title,
		Description:      in.Description,
		Category:         in.Category,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		HostURL:          in.HostURL,
		Image:            in.Image,
		Tags:             in.Tags,
		MaxCapacity:      in.MaxCapacity,
		CurrentAttendees: 0,
		Organizer:        model.Organizer{ID: u.ID, Name: u.Name},
		IsPublic:         in.IsPublic,
		IsFeatured:       in.IsFeatured,
		Location:         in.Location,
		Price:            in.Price,
		Rating:           in.Rating,
		Duration:         in.Duration,
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	r.events = append(r.events, e)
	r.store.Set(ctx, store.KeyEvents, r.events)
	out := e.Clone()
	r.mu.Unlock()

	r.record("create", nil)
	r.publish(ctx, activity.TypeEventCreated, u, e.ID)
	r.logger.Info().Str("event_id", e.ID).Str("organizer_id", u.ID).Msg("event created")
	return &out, nil
}

// UpdateEvent merges patch into the event with the given id.
func (r *EventRegistry) UpdateEvent(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error) {
	if err := delay(ctx, r.opts.latency); err != nil {
		return nil, err
	}

	patch = sanitizePatch(patch)
	if err := check(r.validator, patch); err != nil {
		r.record("update", err)
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		r.record("update", ErrNotFound)
		return nil, ErrNotFound
	}
	updated := patch.Apply(r.events[i])
	if patch.EndDate == nil {
		updated.EndDate = rescheduledEnd(r.events[i], updated, patch)
	}
	if err := checkEvent(updated); err != nil {
		r.record("update", err)
		return nil, err
	}

	r.events[i] = updated
	r.store.Set(ctx, store.KeyEvents, r.events)
	r.record("update", nil)
	r.logger.Info().Str("event_id", id).Msg("event updated")

	out := updated.Clone()
	return &out, nil
}

// DeleteEvent removes the event with the given id. A missing id is not an
// error.
func (r *EventRegistry) DeleteEvent(ctx context.Context, id string) error {
	if err := delay(ctx, r.opts.latency); err != nil {
		return err
	}

	r.mu.Lock()
	kept := r.events[:0:0]
	for _, e := range r.events {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	removed := len(kept) != len(r.events)
	r.events = kept
	r.store.Set(ctx, store.KeyEvents, r.events)
	r.mu.Unlock()

	r.record("delete", nil)
	if removed {
		u, _ := r.sessions.Current()
		r.publish(ctx, activity.TypeEventDeleted, u, id)
		r.logger.Info().Str("event_id", id).Msg("event deleted")
	}
	return nil
}

// RegisterForEvent takes a seat for the signed-in user. Registering twice
// takes two seats and records the id twice.
func (r *EventRegistry) RegisterForEvent(ctx context.Context, id string) error {
	if _, ok := r.sessions.Current(); !ok {
		r.record("register", ErrUnauthenticated)
		return ErrUnauthenticated
	}
	if err := delay(ctx, r.opts.latency); err != nil {
		return err
	}

	r.mu.Lock()
	u, ok := r.syncUserLocked(ctx)
	if !ok {
		r.mu.Unlock()
		r.record("register", ErrUnauthenticated)
		return ErrUnauthenticated
	}
	i := r.indexLocked(id)
	if i < 0 {
		r.mu.Unlock()
		r.record("register", ErrNotFound)
		return ErrNotFound
	}
	if r.events[i].IsFull() {
		r.mu.Unlock()
		r.record("register", ErrEventFull)
		return ErrEventFull
	}

	r.events[i].CurrentAttendees++
	r.store.Set(ctx, store.KeyEvents, r.events)
	r.registrations = append(r.registrations, id)
	r.store.Set(ctx, store.RegistrationsKey(u.ID), r.registrations)
	attendees := r.events[i].CurrentAttendees
	r.mu.Unlock()

	r.record("register", nil)
	r.publish(ctx, activity.TypeEventRegistered, u, id)
	r.logger.Info().Str("event_id", id).Str("user_id", u.ID).Int("attendees", attendees).Msg("registered")
	return nil
}

// CancelRegistration releases a seat and drops every occurrence of id from the
// signed-in user's registrations. The count never goes below zero and a
// missing event is not an error.
func (r *EventRegistry) CancelRegistration(ctx context.Context, id string) error {
	if _, ok := r.sessions.Current(); !ok {
		r.record("cancel", ErrUnauthenticated)
		return ErrUnauthenticated
	}
	if err := delay(ctx, r.opts.latency); err != nil {
		return err
	}

	r.mu.Lock()
	u, ok := r.syncUserLocked(ctx)
	if !ok {
		r.mu.Unlock()
		r.record("cancel", ErrUnauthenticated)
		return ErrUnauthenticated
	}
	if i := r.indexLocked(id); i >= 0 {
		if r.events[i].CurrentAttendees > 0 {
			r.events[i].CurrentAttendees--
		}
		r.store.Set(ctx, store.KeyEvents, r.events)
	}
	r.registrations = without(r.registrations, id)
	r.store.Set(ctx, store.RegistrationsKey(u.ID), r.registrations)
	r.mu.Unlock()

	r.record("cancel", nil)
	r.publish(ctx, activity.TypeRegistrationCancelled, u, id)
	r.logger.Info().Str("event_id", id).Str("user_id", u.ID).Msg("registration cancelled")
	return nil
}

// BookmarkEvent adds id to the signed-in user's bookmarks. Without a session
// it does nothing.
func (r *EventRegistry) BookmarkEvent(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.syncUserLocked(ctx)
	if !ok {
		return
	}
	for _, b := range r.bookmarks {
		if b == id {
			return
		}
	}
	r.bookmarks = append(r.bookmarks, id)
	r.store.Set(ctx, store.BookmarksKey(u.ID), r.bookmarks)
	r.record("bookmark", nil)
}

// RemoveBookmark drops id from the signed-in user's bookmarks. Without a
// session it does nothing.
func (r *EventRegistry) RemoveBookmark(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.syncUserLocked(ctx)
	if !ok {
		return
	}
	r.bookmarks = without(r.bookmarks, id)
	r.store.Set(ctx, store.BookmarksKey(u.ID), r.bookmarks)
	r.record("remove_bookmark", nil)
}

// StartHosting marks the event live. Only its organizer may do so.
func (r *EventRegistry) StartHosting(ctx context.Context, id string) (*model.Event, error) {
	u, ok := r.sessions.Current()
	if !ok {
		return nil, ErrUnauthenticated
	}
	e, ok := r.GetEventByID(id)
	if !ok {
		return nil, ErrNotFound
	}
	if e.Organizer.ID != u.ID {
		r.record("host", ErrForbidden)
		return nil, ErrForbidden
	}
	live := true
	return r.UpdateEvent(ctx, id, model.EventPatch{IsLive: &live})
}

// GetEventByID returns a copy of the event with the given id.
func (r *EventRegistry) GetEventByID(id string) (model.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexLocked(id); i >= 0 {
		return r.events[i].Clone(), true
	}
	return model.Event{}, false
}

// FilterEvents applies c to the current event list.
func (r *EventRegistry) FilterEvents(c filter.Criteria) []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return filter.Apply(r.events, c)
}

// Events returns every event in stored order.
func (r *EventRegistry) Events() []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selectLocked(func(model.Event) bool { return true })
}

func (r *EventRegistry) Featured() []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selectLocked(func(e model.Event) bool { return e.IsFeatured })
}

// OrganizedEvents returns the events owned by the signed-in organizer. Other
// roles get an empty list.
func (r *EventRegistry) OrganizedEvents() []model.Event {
	u, ok := r.sessions.Current()
	if !ok || u.Role != model.RoleOrganizer {
		return []model.Event{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selectLocked(func(e model.Event) bool { return e.Organizer.ID == u.ID })
}

// RegisteredEvents returns the events the signed-in user registered for, in
// stored order, each once.
func (r *EventRegistry) RegisteredEvents(ctx context.Context) []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncUserLocked(ctx)
	return r.selectLocked(func(e model.Event) bool { return contains(r.registrations, e.ID) })
}

// BookmarkedEvents returns the events the signed-in user bookmarked.
func (r *EventRegistry) BookmarkedEvents(ctx context.Context) []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncUserLocked(ctx)
	return r.selectLocked(func(e model.Event) bool { return contains(r.bookmarks, e.ID) })
}

func (r *EventRegistry) BookmarkedIDs(ctx context.Context) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncUserLocked(ctx)
	return append([]string{}, r.bookmarks...)
}

// RegistrationIDs returns the raw registration list, duplicates included.
func (r *EventRegistry) RegistrationIDs(ctx context.Context) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncUserLocked(ctx)
	return append([]string{}, r.registrations...)
}

// Categories returns the category vocabulary.
func (r *EventRegistry) Categories() []string {
	return catalog.Categories()
}

// Tags returns the known tag vocabulary plus any tag used by a stored event,
// sorted.
func (r *EventRegistry) Tags() []string {
	seen := map[string]struct{}{}
	for _, t := range catalog.Tags() {
		seen[t] = struct{}{}
	}
	r.mu.Lock()
	for _, e := range r.events {
		for _, t := range e.Tags {
			seen[t] = struct{}{}
		}
	}
	r.mu.Unlock()

	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// syncUserLocked reloads the per-user lists when the signed-in user changed.
func (r *EventRegistry) syncUserLocked(ctx context.Context) (model.User, bool) {
	u, ok := r.sessions.Current()
	if u.ID == r.loadedFor {
		return u, ok
	}
	r.loadedFor = u.ID
	r.bookmarks = nil
	r.registrations = nil
	if !ok {
		return u, false
	}
	var bookmarks, registrations []string
	if r.store.Get(ctx, store.BookmarksKey(u.ID), &bookmarks) {
		r.bookmarks = bookmarks
	}
	if r.store.Get(ctx, store.RegistrationsKey(u.ID), &registrations) {
		r.registrations = registrations
	}
	r.logger.Debug().Str("user_id", u.ID).
		Int("bookmarks", len(r.bookmarks)).
		Int("registrations", len(r.registrations)).
		Msg("user lists loaded")
	return u, true
}

func (r *EventRegistry) indexLocked(id string) int {
	for i := range r.events {
		if r.events[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *EventRegistry) selectLocked(keep func(model.Event) bool) []model.Event {
	out := []model.Event{}
	for _, e := range r.events {
		if keep(e) {
			out = append(out, e.Clone())
		}
	}
	return out
}

func (r *EventRegistry) checkInput(in model.EventInput) error {
	if err := check(r.validator, in); err != nil {
		return err
	}
	if !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate) {
		return ValidationError{Field: "end_date", Message: "must not be before start_date"}
	}
	return nil
}

// checkEvent enforces the invariants a patch could break.
func checkEvent(e model.Event) error {
	if e.MaxCapacity < e.CurrentAttendees {
		return ValidationError{Field: "max_capacity", Message: "must not be below current attendees"}
	}
	if !e.EndDate.IsZero() && e.EndDate.Before(e.StartDate) {
		return ValidationError{Field: "end_date", Message: "must not be before start_date"}
	}
	return nil
}

func (r *EventRegistry) record(op string, err error) {
	outcome := "ok"
	switch err {
	case nil:
	case ErrUnauthenticated:
		outcome = "unauthenticated"
	case ErrNotFound:
		outcome = "not_found"
	case ErrEventFull:
		outcome = "full"
	case ErrForbidden:
		outcome = "forbidden"
	default:
		outcome = "invalid"
	}
	metrics.RegistryOperations.WithLabelValues(op, outcome).Inc()
}

func (r *EventRegistry) publish(ctx context.Context, typ string, u model.User, eventID string) {
	r.opts.publisher.Publish(ctx, activity.Activity{
		Type:    typ,
		Version: activity.Version,
		UserID:  u.ID,
		Email:   u.Email,
		EventID: eventID,
		TS:      r.opts.now().UTC(),
	})
}

func sanitizeInput(in model.EventInput) model.EventInput {
	in.Title = sanitize.Text(in.Title)
	in.Description = sanitize.HTML(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Location = sanitize.Text(in.Location)
	in.Tags = sanitize.TextSlice(in.Tags)
	in.HostURL = strings.TrimSpace(in.HostURL)
	in.Image = strings.TrimSpace(in.Image)
	return in
}

func sanitizePatch(p model.EventPatch) model.EventPatch {
	text := func(v *string, clean func(string) string) *string {
		if v == nil {
			return nil
		}
		s := clean(*v)
		return &s
	}
	p.Title = text(p.Title, sanitize.Text)
	p.Description = text(p.Description, sanitize.HTML)
	p.Category = text(p.Category, strings.TrimSpace)
	p.Location = text(p.Location, sanitize.Text)
	p.HostURL = text(p.HostURL, strings.TrimSpace)
	p.Image = text(p.Image, strings.TrimSpace)
	if p.Tags != nil {
		tags := sanitize.TextSlice(*p.Tags)
		if tags == nil {
			tags = []string{}
		}
		p.Tags = &tags
	}
	return p
}

func without(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

// rescheduledEnd keeps the event's length when a patch moves the start
// without naming an end. A known duration wins over the stored end.
func rescheduledEnd(before, after model.Event, patch model.EventPatch) time.Time {
	if patch.StartDate == nil && patch.Duration == nil {
		return after.EndDate
	}
	if after.Duration != nil && *after.Duration > 0 {
		return after.StartDate.Add(time.Duration(*after.Duration) * time.Minute)
	}
	if before.EndDate.IsZero() {
		return after.EndDate
	}
	return before.EndDate.Add(after.StartDate.Sub(before.StartDate))
}
