package service

import (
	"context"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/virtual-events/internal/activity"
	"github.com/Shivanand-hulikatti/virtual-events/internal/model"
	"github.com/Shivanand-hulikatti/virtual-events/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type harness struct {
	backend  *store.MemoryBackend
	store    *store.Store
	dir      *UserDirectory
	session  *SessionManager
	registry *EventRegistry
	events   *activity.Recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessOn(t, store.NewMemoryBackend())
}

// newHarnessOn builds a fresh application state over an existing backend, the
// way a restarted process would.
func newHarnessOn(t *testing.T, backend *store.MemoryBackend) *harness {
	t.Helper()
	ctx := context.Background()
	rec := &activity.Recorder{}
	st := store.New(backend, "", zerolog.Nop())
	app := New(ctx, st, WithPublisher(rec))
	return &harness{
		backend:  backend,
		store:    st,
		dir:      app.Directory,
		session:  app.Sessions,
		registry: app.Registry,
		events:   rec,
	}
}

func (h *harness) login(t *testing.T, email string) model.User {
	t.Helper()
	u, err := h.session.Login(context.Background(), email, "irrelevant")
	require.NoError(t, err)
	return *u
}

func attendees(t *testing.T, r *EventRegistry, id string) int {
	t.Helper()
	e, ok := r.GetEventByID(id)
	require.True(t, ok)
	return e.CurrentAttendees
}

func TestDelayHonoursContext(t *testing.T) {
	require.NoError(t, delay(context.Background(), 0))
	require.NoError(t, delay(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, delay(ctx, time.Hour), context.Canceled)
	require.ErrorIs(t, delay(ctx, 0), context.Canceled)
}

func TestLoginIsCaseInsensitive(t *testing.T) {
	h := newHarness(t)

	u, err := h.session.Login(context.Background(), "  ORGANIZER@Example.com ", "")
	require.NoError(t, err)
	require.Equal(t, "2", u.ID)

	cur, ok := h.session.Current()
	require.True(t, ok)
	require.Equal(t, "Event Organizer", cur.Name)
	require.Equal(t, []string{activity.TypeUserLoggedIn}, h.events.Types())
}

func TestLoginUnknownEmail(t *testing.T) {
	h := newHarness(t)

	_, err := h.session.Login(context.Background(), "nobody@example.com", "secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, ok := h.session.Current()
	require.False(t, ok)
}

func TestLoginCancelled(t *testing.T) {
	h := newHarness(t)
	h.session.opts.latency = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.session.Login(ctx, "admin@example.com", "")
	require.ErrorIs(t, err, context.Canceled)
}

func TestSignupCreatesSession(t *testing.T) {
	h := newHarness(t)

	u, err := h.session.Signup(context.Background(), model.SignupRequest{
		Name:     "<b>New</b> Person",
		Email:    "new@example.com",
		Password: "pw",
		Role:     model.RoleAttendee,
	})
	require.NoError(t, err)
	require.Regexp(t, `^user_[0-9A-Z]{26}$`, u.ID)
	require.Equal(t, "New Person", u.Name)
	require.Empty(t, u.JoinedEvents)
	require.NotNil(t, u.JoinedEvents)

	cur, ok := h.session.Current()
	require.True(t, ok)
	require.Equal(t, u.ID, cur.ID)

	found, ok := h.dir.FindByEmail("NEW@example.com")
	require.True(t, ok)
	require.Equal(t, u.ID, found.ID)
	require.Equal(t, []string{activity.TypeUserSignedUp}, h.events.Types())
}

func TestSignupDuplicateEmailLeavesDirectoryUnchanged(t *testing.T) {
	h := newHarness(t)
	before := h.dir.Users()

	_, err := h.session.Signup(context.Background(), model.SignupRequest{
		Name:  "Impostor",
		Email: "Attendee@EXAMPLE.com",
		Role:  model.RoleAttendee,
	})

	require.ErrorIs(t, err, ErrEmailTaken)
	require.Equal(t, before, h.dir.Users())
	_, ok := h.session.Current()
	require.False(t, ok)
}

func TestSignupValidation(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name  string
		req   model.SignupRequest
		field string
	}{
		{"missing name", model.SignupRequest{Email: "a@example.com", Role: model.RoleAttendee}, "name"},
		{"bad email", model.SignupRequest{Name: "A", Email: "not-an-email", Role: model.RoleAttendee}, "email"},
		{"bad role", model.SignupRequest{Name: "A", Email: "a@example.com", Role: "superuser"}, "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.session.Signup(context.Background(), tt.req)
			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestSignupSurvivesRestart(t *testing.T) {
	h := newHarness(t)
	_, err := h.session.Signup(context.Background(), model.SignupRequest{
		Name: "Returning", Email: "back@example.com", Role: model.RoleOrganizer,
	})
	require.NoError(t, err)
	h.session.Logout(context.Background())

	restarted := newHarnessOn(t, h.backend)
	u, err := restarted.session.Login(context.Background(), "back@example.com", "")
	require.NoError(t, err)
	require.Equal(t, model.RoleOrganizer, u.Role)
}

func TestLogoutAndRestore(t *testing.T) {
	h := newHarness(t)
	h.login(t, "attendee@example.com")

	restarted := newHarnessOn(t, h.backend)
	cur, ok := restarted.session.Current()
	require.True(t, ok)
	require.Equal(t, "3", cur.ID)

	restarted.session.Logout(context.Background())
	_, ok = restarted.session.Current()
	require.False(t, ok)
	require.NotContains(t, h.backend.Keys(), store.KeySession)

	again := newHarnessOn(t, h.backend)
	_, ok = again.session.Current()
	require.False(t, ok)
}

func TestUpdateProfile(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.session.UpdateProfile(ctx, model.ProfilePatch{})
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = h.session.Signup(ctx, model.SignupRequest{Name: "Pat", Email: "pat@example.com", Role: model.RoleAttendee})
	require.NoError(t, err)

	taken := "admin@example.com"
	_, err = h.session.UpdateProfile(ctx, model.ProfilePatch{Email: &taken})
	require.ErrorIs(t, err, ErrEmailTaken)

	name, bio := "Patricia", "Likes <i>yoga</i><script>x()</script>"
	u, err := h.session.UpdateProfile(ctx, model.ProfilePatch{Name: &name, Bio: &bio})
	require.NoError(t, err)
	require.Equal(t, "Patricia", u.Name)
	require.Equal(t, "Likes <i>yoga</i>", u.Bio)

	stored, ok := h.dir.FindByEmail("pat@example.com")
	require.True(t, ok)
	require.Equal(t, "Patricia", stored.Name)

	restarted := newHarnessOn(t, h.backend)
	cur, ok := restarted.session.Current()
	require.True(t, ok)
	require.Equal(t, "Patricia", cur.Name)
}

func TestUpdateProfileOnSeededAccount(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "attendee@example.com")

	email := "  regular@example.com "
	u, err := h.session.UpdateProfile(ctx, model.ProfilePatch{Email: &email})
	require.NoError(t, err)
	require.Equal(t, "regular@example.com", u.Email)

	_, err = h.session.Login(ctx, "attendee@example.com", "irrelevant")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	back, err := h.session.Login(ctx, "REGULAR@example.com", "irrelevant")
	require.NoError(t, err)
	require.Equal(t, "3", back.ID)

	_, err = h.session.Signup(ctx, model.SignupRequest{Name: "Copy", Email: "regular@example.com", Role: model.RoleAttendee})
	require.ErrorIs(t, err, ErrEmailTaken)
	require.Len(t, h.dir.Users(), 3)

	restarted := newHarnessOn(t, h.backend)
	found, ok := restarted.dir.FindByEmail("regular@example.com")
	require.True(t, ok)
	require.Equal(t, "3", found.ID)
	_, ok = restarted.dir.FindByEmail("attendee@example.com")
	require.False(t, ok)
}

func TestLoadSeedsCatalogOnce(t *testing.T) {
	h := newHarness(t)
	require.Len(t, h.registry.Events(), 10)
	require.Contains(t, h.backend.Keys(), store.KeyEvents)

	h.login(t, "organizer@example.com")
	require.NoError(t, h.registry.DeleteEvent(context.Background(), "1"))

	restarted := newHarnessOn(t, h.backend)
	require.Len(t, restarted.registry.Events(), 9)
	_, ok := restarted.registry.GetEventByID("1")
	require.False(t, ok)
}

func TestRegisterScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u := h.login(t, "admin@example.com")

	require.Equal(t, 12, attendees(t, h.registry, "5"))

	require.NoError(t, h.registry.RegisterForEvent(ctx, "5"))
	require.Equal(t, 13, attendees(t, h.registry, "5"))
	require.Equal(t, []string{"5"}, h.registry.RegistrationIDs(ctx))

	// not deduplicated
	require.NoError(t, h.registry.RegisterForEvent(ctx, "5"))
	require.Equal(t, 14, attendees(t, h.registry, "5"))
	require.Equal(t, []string{"5", "5"}, h.registry.RegistrationIDs(ctx))
	require.Len(t, h.registry.RegisteredEvents(ctx), 1)

	var persisted []string
	require.True(t, h.store.Get(ctx, store.RegistrationsKey(u.ID), &persisted))
	require.Equal(t, []string{"5", "5"}, persisted)
}

func TestRegisterThenCancelRestoresCount(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "attendee@example.com")

	before := attendees(t, h.registry, "2")
	require.NoError(t, h.registry.RegisterForEvent(ctx, "2"))
	require.NoError(t, h.registry.CancelRegistration(ctx, "2"))

	require.Equal(t, before, attendees(t, h.registry, "2"))
	require.Empty(t, h.registry.RegistrationIDs(ctx))
	require.Equal(t, []string{
		activity.TypeUserLoggedIn,
		activity.TypeEventRegistered,
		activity.TypeRegistrationCancelled,
	}, h.events.Types())
}

func TestRegisterAtCapacity(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "attendee@example.com")

	_, err := h.registry.UpdateEvent(ctx, "8", model.EventPatch{MaxCapacity: intPtr(28)})
	require.NoError(t, err)

	err = h.registry.RegisterForEvent(ctx, "8")
	require.ErrorIs(t, err, ErrEventFull)
	require.Equal(t, 28, attendees(t, h.registry, "8"))
	require.Empty(t, h.registry.RegistrationIDs(ctx))
}

func TestRegisterPreconditions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.ErrorIs(t, h.registry.RegisterForEvent(ctx, "5"), ErrUnauthenticated)
	require.ErrorIs(t, h.registry.CancelRegistration(ctx, "5"), ErrUnauthenticated)
	require.Equal(t, 12, attendees(t, h.registry, "5"))

	h.login(t, "attendee@example.com")
	require.ErrorIs(t, h.registry.RegisterForEvent(ctx, "missing"), ErrNotFound)
}

func TestCancelFloorsAtZero(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "organizer@example.com")

	e, err := h.registry.CreateEvent(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, h.registry.RegisterForEvent(ctx, e.ID))
	for i := 0; i < 3; i++ {
		require.NoError(t, h.registry.CancelRegistration(ctx, e.ID))
	}
	require.Equal(t, 0, attendees(t, h.registry, e.ID))
}

func TestCancelMissingEventSucceeds(t *testing.T) {
	h := newHarness(t)
	h.login(t, "attendee@example.com")

	require.NoError(t, h.registry.CancelRegistration(context.Background(), "missing"))
}

func TestBookmarkToggle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.registry.BookmarkEvent(ctx, "4")
	require.Empty(t, h.registry.BookmarkedIDs(ctx))

	u := h.login(t, "attendee@example.com")
	require.Empty(t, h.registry.BookmarkedIDs(ctx))

	h.registry.BookmarkEvent(ctx, "4")
	h.registry.BookmarkEvent(ctx, "4")
	require.Equal(t, []string{"4"}, h.registry.BookmarkedIDs(ctx))
	require.Equal(t, "4", h.registry.BookmarkedEvents(ctx)[0].ID)

	h.registry.RemoveBookmark(ctx, "4")
	require.Empty(t, h.registry.BookmarkedIDs(ctx))

	var persisted []string
	require.True(t, h.store.Get(ctx, store.BookmarksKey(u.ID), &persisted))
	require.Empty(t, persisted)
}

func TestUserListsFollowSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.login(t, "attendee@example.com")
	h.registry.BookmarkEvent(ctx, "7")
	require.NoError(t, h.registry.RegisterForEvent(ctx, "7"))

	h.login(t, "admin@example.com")
	require.Empty(t, h.registry.BookmarkedIDs(ctx))
	require.Empty(t, h.registry.RegistrationIDs(ctx))

	h.session.Logout(ctx)
	require.Empty(t, h.registry.BookmarkedIDs(ctx))

	h.login(t, "attendee@example.com")
	require.Equal(t, []string{"7"}, h.registry.BookmarkedIDs(ctx))
	require.Equal(t, []string{"7"}, h.registry.RegistrationIDs(ctx))
}

func TestCreateEvent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.registry.CreateEvent(ctx, validInput())
	require.ErrorIs(t, err, ErrUnauthenticated)

	u := h.login(t, "organizer@example.com")
	in := validInput()
	in.Title = "  <em>Go</em> Meetup "
	in.Tags = []string{"networking", "<b></b>"}
	e, err := h.registry.CreateEvent(ctx, in)
	require.NoError(t, err)

	require.Regexp(t, `^event_[0-9A-Z]{26}$`, e.ID)
	require.Equal(t, "Go Meetup", e.Title)
	require.Equal(t, []string{"networking"}, e.Tags)
	require.Equal(t, 0, e.CurrentAttendees)
	require.Equal(t, model.Organizer{ID: u.ID, Name: u.Name}, e.Organizer)
	require.Equal(t, in.StartDate.Add(90*time.Minute), e.EndDate)

	require.Len(t, h.registry.Events(), 11)
	require.Equal(t, e.ID, h.registry.Events()[10].ID)
	require.Len(t, h.registry.OrganizedEvents(), 6)
}

func TestCreateEventValidation(t *testing.T) {
	h := newHarness(t)
	h.login(t, "organizer@example.com")

	tests := []struct {
		name   string
		mutate func(*model.EventInput)
		field  string
	}{
		{"title", func(in *model.EventInput) { in.Title = "<script></script>" }, "title"},
		{"category", func(in *model.EventInput) { in.Category = "Cooking" }, "category"},
		{"capacity", func(in *model.EventInput) { in.MaxCapacity = 0 }, "max_capacity"},
		{"price", func(in *model.EventInput) { in.Price = floatPtr(-1) }, "price"},
		{"dates", func(in *model.EventInput) { in.EndDate = in.StartDate.Add(-time.Hour) }, "end_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := h.registry.CreateEvent(context.Background(), in)
			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tt.field, ve.Field)
		})
	}
	require.Len(t, h.registry.Events(), 10)
}

func TestUpdateEvent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.registry.UpdateEvent(ctx, "missing", model.EventPatch{})
	require.ErrorIs(t, err, ErrNotFound)

	title := "Renamed"
	e, err := h.registry.UpdateEvent(ctx, "3", model.EventPatch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Renamed", e.Title)
	require.Equal(t, 34, e.CurrentAttendees)

	_, err = h.registry.UpdateEvent(ctx, "3", model.EventPatch{MaxCapacity: intPtr(10)})
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "max_capacity", ve.Field)

	stored, _ := h.registry.GetEventByID("3")
	require.Equal(t, "Renamed", stored.Title)
	require.Equal(t, 75, stored.MaxCapacity)
}

func TestUpdateEventReschedulesKeepingLength(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	before, ok := h.registry.GetEventByID("1")
	require.True(t, ok)
	start := before.StartDate.Add(7 * 24 * time.Hour)

	e, err := h.registry.UpdateEvent(ctx, "1", model.EventPatch{StartDate: &start})
	require.NoError(t, err)
	require.True(t, start.Equal(e.StartDate))
	require.Equal(t, time.Date(2025, 5, 22, 14, 0, 0, 0, time.UTC), e.EndDate.UTC())

	e, err = h.registry.UpdateEvent(ctx, "1", model.EventPatch{Duration: intPtr(90)})
	require.NoError(t, err)
	require.Equal(t, 90*time.Minute, e.EndDate.Sub(e.StartDate))

	end := start.Add(-time.Hour)
	_, err = h.registry.UpdateEvent(ctx, "1", model.EventPatch{EndDate: &end})
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "end_date", ve.Field)
}

func TestDeleteEventAlwaysSucceeds(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.registry.DeleteEvent(ctx, "missing"))
	require.Len(t, h.registry.Events(), 10)

	require.NoError(t, h.registry.DeleteEvent(ctx, "10"))
	require.Len(t, h.registry.Events(), 9)
}

func TestStartHosting(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.registry.StartHosting(ctx, "1")
	require.ErrorIs(t, err, ErrUnauthenticated)

	h.login(t, "attendee@example.com")
	_, err = h.registry.StartHosting(ctx, "1")
	require.ErrorIs(t, err, ErrForbidden)

	h.login(t, "organizer@example.com")
	_, err = h.registry.StartHosting(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	e, err := h.registry.StartHosting(ctx, "1")
	require.NoError(t, err)
	require.True(t, e.IsLive)
}

func TestCapacityInvariantHolds(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "attendee@example.com")

	for i := 0; i < 25; i++ {
		_ = h.registry.RegisterForEvent(ctx, "5")
	}
	for _, e := range h.registry.Events() {
		require.GreaterOrEqual(t, e.CurrentAttendees, 0)
		require.LessOrEqual(t, e.CurrentAttendees, e.MaxCapacity)
	}
	require.Equal(t, 30, attendees(t, h.registry, "5"))
}

func TestFeaturedAndTags(t *testing.T) {
	h := newHarness(t)

	for _, e := range h.registry.Featured() {
		require.True(t, e.IsFeatured)
	}
	require.NotEmpty(t, h.registry.Featured())
	require.Contains(t, h.registry.Tags(), "Q&A")
	require.Contains(t, h.registry.Categories(), "Technology")
	require.Empty(t, h.registry.OrganizedEvents())
}

func validInput() model.EventInput {
	return model.EventInput{
		Title:       "Go Meetup",
		Description: "Monthly gathering",
		Category:    "Technology",
		StartDate:   time.Date(2025, 9, 1, 18, 0, 0, 0, time.UTC),
		MaxCapacity: 40,
		IsPublic:    true,
		Duration:    intPtr(90),
	}
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
