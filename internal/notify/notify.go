package notify

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const DefaultTTL = 3 * time.Second

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type Notification struct {
	Message   string
	Kind      Kind
	ShownAt   time.Time
	ExpiresAt time.Time
}

func (n Notification) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}

// Sink receives transient user-facing messages.
type Sink interface {
	Show(message string, kind Kind)
}

// Board keeps the latest notification until it expires.
type Board struct {
	mu       sync.Mutex
	current  *Notification
	ttl      time.Duration
	now      func() time.Time
	listener func(Notification)
}

func NewBoard(ttl time.Duration) *Board {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Board{
		ttl: ttl,
		now: time.Now,
	}
}

// WithClock replaces the time source, used in tests.
func (b *Board) WithClock(now func() time.Time) *Board {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
	return b
}

// OnChange registers a listener called with every new notification.
func (b *Board) OnChange(listener func(Notification)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listener = listener
}

func (b *Board) Show(message string, kind Kind) {
	b.mu.Lock()
	now := b.now()
	n := Notification{
		Message:   message,
		Kind:      kind,
		ShownAt:   now,
		ExpiresAt: now.Add(b.ttl),
	}
	b.current = &n
	listener := b.listener
	b.mu.Unlock()

	if kind == KindError {
		log.Warnf("notification [%s]: %s", kind, message)
	} else {
		log.Debugf("notification [%s]: %s", kind, message)
	}

	if listener != nil {
		listener(n)
	}
}

// Current returns the visible notification, if any.
func (b *Board) Current() (Notification, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return Notification{}, false
	}
	if b.current.Expired(b.now()) {
		b.current = nil
		return Notification{}, false
	}
	return *b.current, true
}

func (b *Board) TTL() time.Duration {
	return b.ttl
}
