package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Shivanand-hulikatti/virtual-events/internal/conference"
	"github.com/Shivanand-hulikatti/virtual-events/internal/config"
	"github.com/Shivanand-hulikatti/virtual-events/internal/model"
	"github.com/Shivanand-hulikatti/virtual-events/internal/service"
	"github.com/Shivanand-hulikatti/virtual-events/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zerolog.Nop()
	st := store.New(store.NewMemoryBackend(), "", logger)
	app := service.New(context.Background(), st, service.WithLogger(logger))
	conf := conference.NewManager(app.Sessions, app.Registry, 0, logger)
	h := New(app, conf, "https://events.example.com", logger)

	srv := httptest.NewServer(NewRouter(h, config.CORSConfig{AllowedOrigins: []string{"https://app.example.com"}}, logger))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func login(t *testing.T, srv *httptest.Server, email string) {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/session/login", model.LoginRequest{Email: email, Password: "x"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	require.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, resp))
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/events", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example.com")
	resp2, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Empty(t, resp2.Header.Get("Access-Control-Allow-Origin"))
}

func TestListEventsFilters(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/events?price=free", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	events := decode[[]model.Event](t, resp)
	require.Len(t, events, 2)
	require.Equal(t, "1", events[0].ID)
	require.Equal(t, "7", events[1].ID)

	resp = do(t, srv, http.MethodGet, "/events?sortBy=popularity&category=Technology", nil)
	events = decode[[]model.Event](t, resp)
	require.Equal(t, "4", events[0].ID)

	resp = do(t, srv, http.MethodGet, "/events?price=cheap", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, decode[model.ErrorResponse](t, resp).Error, "price")
}

func TestGetEvent(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/events/5", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 12, decode[model.Event](t, resp).CurrentAttendees)

	resp = do(t, srv, http.MethodGet, "/events/missing", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/session", nil)
	require.False(t, decode[sessionResponse](t, resp).Authenticated)

	resp = do(t, srv, http.MethodPost, "/session/login", model.LoginRequest{Email: "nobody@example.com"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	login(t, srv, "Attendee@Example.com")
	resp = do(t, srv, http.MethodGet, "/session", nil)
	s := decode[sessionResponse](t, resp)
	require.True(t, s.Authenticated)
	require.Equal(t, "3", s.User.ID)

	name := "Renamed Attendee"
	resp = do(t, srv, http.MethodPatch, "/session/profile", model.ProfilePatch{Name: &name})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, name, decode[model.User](t, resp).Name)

	resp = do(t, srv, http.MethodPost, "/session/logout", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, srv, http.MethodGet, "/session", nil)
	require.False(t, decode[sessionResponse](t, resp).Authenticated)
}

func TestSignup(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/session/signup", model.SignupRequest{
		Name: "New", Email: "new@example.com", Password: "pw", Role: model.RoleOrganizer,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, model.RoleOrganizer, decode[model.User](t, resp).Role)

	resp = do(t, srv, http.MethodPost, "/session/signup", model.SignupRequest{
		Name: "Again", Email: "NEW@example.com", Role: model.RoleAttendee,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/session/signup", model.SignupRequest{
		Name: "Bad", Email: "bad", Role: model.RoleAttendee,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/session/signup", map[string]string{"nickname": "x"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegistrationFlow(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/events/5/register", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	login(t, srv, "attendee@example.com")

	resp = do(t, srv, http.MethodPost, "/events/5/register", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, 13, decode[model.Event](t, resp).CurrentAttendees)

	resp = do(t, srv, http.MethodGet, "/events/registered", nil)
	registered := decode[[]model.Event](t, resp)
	require.Len(t, registered, 1)
	require.Equal(t, "5", registered[0].ID)

	resp = do(t, srv, http.MethodDelete, "/events/5/register", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/events/5", nil)
	require.Equal(t, 12, decode[model.Event](t, resp).CurrentAttendees)

	resp = do(t, srv, http.MethodPost, "/events/missing/register", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterFullEvent(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv, "organizer@example.com")

	capacity := 42
	resp := do(t, srv, http.MethodPatch, "/events/6", model.EventPatch{MaxCapacity: &capacity})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/events/6/register", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestBookmarks(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/events/4/bookmark", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, decode[idsResponse](t, resp).IDs)

	login(t, srv, "attendee@example.com")
	resp = do(t, srv, http.MethodPost, "/events/4/bookmark", nil)
	require.Equal(t, []string{"4"}, decode[idsResponse](t, resp).IDs)

	resp = do(t, srv, http.MethodGet, "/events/bookmarked", nil)
	require.Len(t, decode[[]model.Event](t, resp), 1)

	resp = do(t, srv, http.MethodDelete, "/events/4/bookmark", nil)
	require.Empty(t, decode[idsResponse](t, resp).IDs)
}

func TestOrganizerFlow(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/events/mine", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	login(t, srv, "organizer@example.com")

	resp = do(t, srv, http.MethodPost, "/events", map[string]any{
		"title":        "Go Meetup",
		"description":  "Monthly gathering",
		"category":     "Technology",
		"start_date":   "2025-09-01T18:00:00Z",
		"max_capacity": 40,
		"duration":     90,
		"tags":         []string{"networking"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[model.Event](t, resp)
	require.Equal(t, "2", created.Organizer.ID)

	resp = do(t, srv, http.MethodGet, "/events/mine", nil)
	require.Len(t, decode[[]model.Event](t, resp), 6)

	resp = do(t, srv, http.MethodPost, "/events/"+created.ID+"/host", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, decode[model.Event](t, resp).IsLive)

	resp = do(t, srv, http.MethodGet, "/events/"+created.ID+"/calendar.ics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/calendar"))
	var body bytes.Buffer
	_, err := body.ReadFrom(resp.Body)
	require.NoError(t, err)
	require.Contains(t, body.String(), created.ID+"@virtual-events")

	resp = do(t, srv, http.MethodDelete, "/events/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, srv, http.MethodDelete, "/events/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCreateEventValidation(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv, "organizer@example.com")

	resp := do(t, srv, http.MethodPost, "/events", map[string]any{
		"title":        "No category",
		"category":     "Cooking",
		"start_date":   "2025-09-01T18:00:00Z",
		"max_capacity": 10,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, decode[model.ErrorResponse](t, resp).Error, "category")
}

func TestHostForbidden(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv, "attendee@example.com")

	resp := do(t, srv, http.MethodPost, "/events/1/host", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCommentsAndCatalog(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/events/1/comments", nil)
	require.Len(t, decode[[]model.Comment](t, resp), 2)

	resp = do(t, srv, http.MethodGet, "/events/3/comments", nil)
	require.Empty(t, decode[[]model.Comment](t, resp))

	resp = do(t, srv, http.MethodGet, "/events/missing/comments", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/catalog/categories", nil)
	require.Contains(t, decode[[]string](t, resp), "Webinar")

	resp = do(t, srv, http.MethodGet, "/catalog/tags", nil)
	require.Contains(t, decode[[]string](t, resp), "Q&A")
}

func TestConference(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/conference/1/join", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	login(t, srv, "attendee@example.com")

	resp = do(t, srv, http.MethodPost, "/conference/missing/join", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/conference/1/join", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, decode[conference.Room](t, resp).Participants, 3)

	resp = do(t, srv, http.MethodPost, "/conference/1/messages", messageRequest{Content: "hello"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = do(t, srv, http.MethodPost, "/conference/1/messages", messageRequest{Content: " "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/conference/1/audio", nil)
	require.False(t, decode[toggleResponse](t, resp).Enabled)

	resp = do(t, srv, http.MethodGet, "/conference/1", nil)
	room := decode[conference.Room](t, resp)
	require.Len(t, room.Messages, 1)

	resp = do(t, srv, http.MethodPost, "/conference/1/leave", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, srv, http.MethodGet, "/conference/1", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodGet, "/events", nil)

	resp := do(t, srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body bytes.Buffer
	_, err := body.ReadFrom(resp.Body)
	require.NoError(t, err)
	require.Contains(t, body.String(), "http_requests_total")
}
