// Package conference simulates the live room attendees join for a virtual
// event: who is present, their audio and video state, and the chat log.
// There is no media transport.
package conference

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/virtual-events/internal/metrics"
	"github.com/Shivanand-hulikatti/virtual-events/internal/model"
	"github.com/Shivanand-hulikatti/virtual-events/internal/sanitize"
	"github.com/rs/zerolog"
)

var (
	ErrUnauthenticated = errors.New("you must be logged in to join a conference")
	ErrEventNotFound   = errors.New("event not found")
	ErrNotJoined       = errors.New("you have not joined this conference")
	ErrEmptyMessage    = errors.New("message is empty")
)

// Sessions exposes the signed-in user.
type Sessions interface {
	Current() (model.User, bool)
}

// Events looks events up by id.
type Events interface {
	GetEventByID(id string) (model.Event, bool)
}

type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Video bool   `json:"video"`
	Audio bool   `json:"audio"`
}

type Message struct {
	SenderID  string    `json:"sender_id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Room is a point-in-time copy of a conference.
type Room struct {
	EventID      string        `json:"event_id"`
	Title        string        `json:"title"`
	Organizer    string        `json:"organizer"`
	Participants []Participant `json:"participants"`
	Messages     []Message     `json:"messages"`
}

// synthetic participants that join shortly after the first real one
var guests = []Participant{
	{ID: "mock1", Name: "Jane Smith", Video: true, Audio: true},
	{ID: "mock2", Name: "John Doe", Video: true, Audio: true},
}

type room struct {
	event        model.Event
	participants []Participant
	messages     []Message
	guestTimer   *time.Timer
}

// Manager keeps one room per event id.
type Manager struct {
	mu    sync.Mutex
	rooms map[string]*room

	sessions  Sessions
	events    Events
	joinDelay time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

// NewManager returns a Manager whose synthetic guests arrive joinDelay after a
// room opens.
func NewManager(sessions Sessions, events Events, joinDelay time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{
		rooms:     make(map[string]*room),
		sessions:  sessions,
		events:    events,
		joinDelay: joinDelay,
		now:       time.Now,
		logger:    logger.With().Str("component", "conference").Logger(),
	}
}

// Join adds the signed-in user to the event's room. Joining twice is a no-op.
func (m *Manager) Join(ctx context.Context, eventID string) (Room, error) {
	if err := ctx.Err(); err != nil {
		return Room{}, err
	}
	u, ok := m.sessions.Current()
	if !ok {
		return Room{}, ErrUnauthenticated
	}
	event, ok := m.events.GetEventByID(eventID)
	if !ok {
		return Room{}, ErrEventNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.rooms[eventID]
	if !exists {
		r = &room{event: event}
		m.rooms[eventID] = r
	}
	if indexOf(r.participants, u.ID) < 0 {
		r.participants = append(r.participants, Participant{ID: u.ID, Name: u.Name, Video: true, Audio: true})
		m.logger.Info().Str("event_id", eventID).Str("user_id", u.ID).Msg("joined conference")
	}
	if !exists {
		m.scheduleGuestsLocked(eventID, r)
	}
	m.observeLocked(eventID, r)
	return snapshot(eventID, r), nil
}

// Leave removes the signed-in user. A room left without real participants is
// closed.
func (m *Manager) Leave(eventID string) error {
	u, ok := m.sessions.Current()
	if !ok {
		return ErrUnauthenticated
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.rooms[eventID]
	if !exists {
		return nil
	}
	if i := indexOf(r.participants, u.ID); i >= 0 {
		r.participants = append(r.participants[:i], r.participants[i+1:]...)
		m.logger.Info().Str("event_id", eventID).Str("user_id", u.ID).Msg("left conference")
	}
	if !hasRealParticipant(r.participants) {
		if r.guestTimer != nil {
			r.guestTimer.Stop()
		}
		delete(m.rooms, eventID)
		metrics.ConferenceParticipants.DeleteLabelValues(eventID)
		m.logger.Info().Str("event_id", eventID).Msg("conference closed")
		return nil
	}
	m.observeLocked(eventID, r)
	return nil
}

// SendMessage appends a chat message from the signed-in user.
func (m *Manager) SendMessage(ctx context.Context, eventID, content string) (Message, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, err
	}
	u, ok := m.sessions.Current()
	if !ok {
		return Message{}, ErrUnauthenticated
	}
	content = sanitize.Text(content)
	if strings.TrimSpace(content) == "" {
		return Message{}, ErrEmptyMessage
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.joinedRoomLocked(eventID, u.ID)
	if err != nil {
		return Message{}, err
	}
	msg := Message{SenderID: u.ID, Sender: u.Name, Content: content, Timestamp: m.now().UTC()}
	r.messages = append(r.messages, msg)
	return msg, nil
}

// ToggleVideo flips the signed-in user's camera and returns the new state.
func (m *Manager) ToggleVideo(eventID string) (bool, error) {
	return m.toggle(eventID, func(p *Participant) bool {
		p.Video = !p.Video
		return p.Video
	})
}

// ToggleAudio flips the signed-in user's microphone and returns the new state.
func (m *Manager) ToggleAudio(eventID string) (bool, error) {
	return m.toggle(eventID, func(p *Participant) bool {
		p.Audio = !p.Audio
		return p.Audio
	})
}

// Snapshot returns the room for eventID.
func (m *Manager) Snapshot(eventID string) (Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[eventID]
	if !ok {
		return Room{}, false
	}
	return snapshot(eventID, r), true
}

func (m *Manager) toggle(eventID string, flip func(*Participant) bool) (bool, error) {
	u, ok := m.sessions.Current()
	if !ok {
		return false, ErrUnauthenticated
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.joinedRoomLocked(eventID, u.ID)
	if err != nil {
		return false, err
	}
	return flip(&r.participants[indexOf(r.participants, u.ID)]), nil
}

func (m *Manager) joinedRoomLocked(eventID, userID string) (*room, error) {
	r, ok := m.rooms[eventID]
	if !ok || indexOf(r.participants, userID) < 0 {
		return nil, ErrNotJoined
	}
	return r, nil
}

func (m *Manager) scheduleGuestsLocked(eventID string, r *room) {
	arrive := func() {
		r.participants = append(r.participants, guests...)
		m.observeLocked(eventID, r)
		m.logger.Debug().Str("event_id", eventID).Msg("guests joined")
	}
	if m.joinDelay <= 0 {
		arrive()
		return
	}
	r.guestTimer = time.AfterFunc(m.joinDelay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.rooms[eventID] != r {
			return
		}
		arrive()
	})
}

func (m *Manager) observeLocked(eventID string, r *room) {
	metrics.ConferenceParticipants.WithLabelValues(eventID).Set(float64(len(r.participants)))
}

func snapshot(eventID string, r *room) Room {
	return Room{
		EventID:      eventID,
		Title:        r.event.Title,
		Organizer:    r.event.Organizer.Name,
		Participants: append([]Participant{}, r.participants...),
		Messages:     append([]Message{}, r.messages...),
	}
}

func indexOf(ps []Participant, id string) int {
	for i, p := range ps {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func hasRealParticipant(ps []Participant) bool {
	for _, p := range ps {
		isGuest := false
		for _, g := range guests {
			if p.ID == g.ID {
				isGuest = true
				break
			}
		}
		if !isGuest {
			return true
		}
	}
	return false
}
