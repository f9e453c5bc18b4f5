package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/form"
)

// ErrEmptyID is returned when a store is scoped to an empty session id.
var ErrEmptyID = errors.New("session: empty session id")

// MemoryStore keeps form records per session in process memory. Records
// older than the configured TTL are dropped on access.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

type entry struct {
	touched time.Time
	records map[string]form.SessionRecord
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithTTL expires sessions that were not touched for ttl. Zero disables
// expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *MemoryStore) {
		s.ttl = ttl
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*entry),
		ttl:      30 * time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an id produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Scope returns the form.SessionStore view of one session.
func (s *MemoryStore) Scope(id string) (form.SessionStore, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyID
	}
	return scoped{store: s, id: id}, nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
	return len(s.sessions)
}

// Clear drops every record of session id.
func (s *MemoryStore) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *MemoryStore) get(id, name string) (form.SessionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
	e, ok := s.sessions[id]
	if !ok {
		return form.SessionRecord{}, false
	}
	e.touched = s.now()
	record, ok := e.records[name]
	if !ok {
		return form.SessionRecord{}, false
	}
	return cloneRecord(record), true
}

func (s *MemoryStore) set(id, name string, record form.SessionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{records: make(map[string]form.SessionRecord)}
		s.sessions[id] = e
	}
	e.touched = s.now()
	e.records[name] = cloneRecord(record)
}

func (s *MemoryStore) delete(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return
	}
	delete(e.records, name)
	if len(e.records) == 0 {
		delete(s.sessions, id)
	}
}

func (s *MemoryStore) expireLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, e := range s.sessions {
		if e.touched.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

// cloneRecord copies the values map so callers cannot mutate stored state.
func cloneRecord(record form.SessionRecord) form.SessionRecord {
	if record.Values != nil {
		values := make(field.Values, len(record.Values))
		for k, v := range record.Values {
			values[k] = v
		}
		record.Values = values
	}
	return record
}

type scoped struct {
	store *MemoryStore
	id    string
}

func (s scoped) Get(ctx context.Context, name string) (form.SessionRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return form.SessionRecord{}, false, err
	}
	record, ok := s.store.get(s.id, name)
	return record, ok, nil
}

func (s scoped) Set(ctx context.Context, name string, record form.SessionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.store.set(s.id, name, record)
	return nil
}

func (s scoped) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.store.delete(s.id, name)
	return nil
}
