// Package notify is the local notification subsystem: a channel
// registry plus one-shot timed triggers delivered in-process to a
// pluggable sink.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Importance int

const (
	ImportanceDefault Importance = iota
	ImportanceHigh
)

var ErrUnknownChannel = errors.New("notification channel not registered")

type Content struct {
	Title string
	Body  string
}

// Sink receives notifications when their trigger fires.
type Sink interface {
	Deliver(channelID string, c Content)
}

// SlogSink writes fired notifications to the log. It is the default
// delivery target when no platform-specific sink is wired in.
type SlogSink struct {
	Log *slog.Logger
}

func (s SlogSink) Deliver(channelID string, c Content) {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("notification fired",
		slog.String("channel_id", channelID),
		slog.String("title", c.Title),
		slog.String("body", c.Body),
	)
}

type channel struct {
	name       string
	importance Importance
}

type trigger struct {
	timer *time.Timer
}

// Scheduler registers channels and one-shot timestamp triggers.
// Channel creation is idempotent; cancellation by id is a no-op for
// unknown ids.
type Scheduler struct {
	mu       sync.Mutex
	channels map[string]channel
	triggers map[string]trigger
	sink     Sink
	log      *slog.Logger
}

func NewScheduler(sink Sink, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	if sink == nil {
		sink = SlogSink{Log: log}
	}
	return &Scheduler{
		channels: make(map[string]channel),
		triggers: make(map[string]trigger),
		sink:     sink,
		log:      log.With(slog.String("component", "notify.scheduler")),
	}
}

// EnsureChannel registers the channel if it is not known yet. Safe to
// call repeatedly.
func (s *Scheduler) EnsureChannel(id, name string, importance Importance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.channels[id]; ok {
		return
	}
	s.channels[id] = channel{name: name, importance: importance}
}

// ScheduleAt registers a one-shot trigger that delivers c on the
// channel at fireAt and returns the trigger's opaque id. A fire time
// in the past delivers immediately.
func (s *Scheduler) ScheduleAt(ctx context.Context, channelID string, c Content, fireAt time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.channels[channelID]; !ok {
		return "", ErrUnknownChannel
	}

	nid, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	id := nid.String()

	delay := time.Until(fireAt)
	if delay < 0 {
		delay = 0
	}

	s.triggers[id] = trigger{
		timer: time.AfterFunc(delay, func() {
			s.mu.Lock()
			delete(s.triggers, id)
			s.mu.Unlock()
			s.sink.Deliver(channelID, c)
		}),
	}

	s.log.Debug("trigger scheduled",
		slog.String("notification_id", id),
		slog.String("channel_id", channelID),
		slog.Time("fire_at", fireAt),
	)
	return id, nil
}

// Cancel stops a pending trigger. Unknown or empty ids are ignored.
func (s *Scheduler) Cancel(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.triggers[id]
	if !ok {
		return
	}
	t.timer.Stop()
	delete(s.triggers, id)
}

// Pending reports how many triggers have not fired yet.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.triggers)
}
