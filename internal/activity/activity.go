// Package activity publishes a best-effort stream of user and registration
// activity. Delivery failures never affect the operation that produced them.
package activity

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/virtual-events/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Activity types.
const (
	TypeUserSignedUp          = "user_signed_up"
	TypeUserLoggedIn          = "user_logged_in"
	TypeUserLoggedOut         = "user_logged_out"
	TypeEventCreated          = "event_created"
	TypeEventDeleted          = "event_deleted"
	TypeEventRegistered       = "event_registered"
	TypeRegistrationCancelled = "registration_cancelled"
)

// Version is the schema version stamped on every activity.
const Version = 1

// Activity is one entry in the stream.
type Activity struct {
	Type    string    `json:"event"`
	Version int       `json:"version"`
	UserID  string    `json:"user_id"`
	Email   string    `json:"email,omitempty"`
	EventID string    `json:"event_id,omitempty"`
	TS      time.Time `json:"ts"`
}

// Publisher delivers activities. Publish must not block for long and must not
// return errors; implementations log their own failures.
type Publisher interface {
	Publish(ctx context.Context, a Activity)
}

// NopPublisher drops every activity.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Activity) {}

// Recorder keeps published activities in memory. Useful in tests.
type Recorder struct {
	mu         sync.Mutex
	activities []Activity
}

func (r *Recorder) Publish(_ context.Context, a Activity) {
	r.mu.Lock()
	r.activities = append(r.activities, a)
	r.mu.Unlock()
}

// Activities returns a copy of everything recorded so far.
func (r *Recorder) Activities() []Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Activity(nil), r.activities...)
}

// Types returns the recorded activity types in order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.activities))
	for i, a := range r.activities {
		out[i] = a.Type
	}
	return out
}

// messageWriter is the subset of *kafka.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes activities as JSON messages keyed by user id.
type KafkaPublisher struct {
	w       messageWriter
	timeout time.Duration
	logger  zerolog.Logger
}

// NewKafkaPublisher constructs an asynchronous writer that waits for all
// in-sync replicas. Publish only enqueues; delivery results arrive through the
// writer's completion callback.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	p := &KafkaPublisher{
		timeout: 5 * time.Second,
		logger:  logger.With().Str("component", "activity").Str("topic", topic).Logger(),
	}
	p.w = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		BatchTimeout: 20 * time.Millisecond,
		WriteTimeout: p.timeout,
		Compression:  kafka.Snappy,
		Completion:   p.completed,
	}
	return p
}

func (p *KafkaPublisher) Publish(ctx context.Context, a Activity) {
	msg, err := Message(a)
	if err != nil {
		metrics.ActivityPublishFailures.Inc()
		p.logger.Error().Err(err).Str("type", a.Type).Msg("encode activity")
		return
	}

	// Detach from the caller's cancellation so a finished HTTP request does
	// not abort delivery.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.w.WriteMessages(ctx, msg); err != nil {
		p.completed([]kafka.Message{msg}, err)
	}
}

// completed reports the outcome of a delivered batch.
func (p *KafkaPublisher) completed(msgs []kafka.Message, err error) {
	for _, m := range msgs {
		typ := headerValue(m, "type")
		if err != nil {
			metrics.ActivityPublishFailures.Inc()
			p.logger.Warn().Err(err).Str("type", typ).Str("user_id", string(m.Key)).Msg("publish activity")
			continue
		}
		p.logger.Debug().Str("type", typ).Str("user_id", string(m.Key)).Msg("activity published")
	}
}

func headerValue(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// Message encodes a as a Kafka message with type and version headers.
func Message(a Activity) (kafka.Message, error) {
	if a.Version == 0 {
		a.Version = Version
	}
	if a.TS.IsZero() {
		a.TS = time.Now().UTC()
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(a.UserID),
		Value: payload,
		Time:  a.TS,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(a.Type)},
			{Key: "version", Value: []byte(strconv.Itoa(a.Version))},
		},
	}, nil
}
