package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/freightdocs/invoice-extractor/internal/entity"
)

// Store keeps per-session state in memory: accumulated export rows, the
// prompt-template override, and the API key. Nothing here ever reaches
// durable storage; an idle session is swept after its TTL. Sessions are
// fully isolated from each other.
type Store struct {
	mu         sync.Mutex
	sessions   map[string]*state
	ttl        time.Duration
	accumulate bool
	logger     *slog.Logger
}

type state struct {
	rows           []entity.ExportRow
	promptTemplate string
	apiKey         string
	touched        time.Time
}

// NewStore builds a store. accumulate controls what a new upload does to the
// session's existing rows: true appends, false replaces.
func NewStore(ttl time.Duration, accumulate bool, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions:   make(map[string]*state),
		ttl:        ttl,
		accumulate: accumulate,
		logger:     logger,
	}
}

// NewID mints a fresh session identifier.
func (s *Store) NewID() string {
	return uuid.NewString()
}

// AddRows records rows for the session and returns the session's new total.
func (s *Store) AddRows(id string, rows []entity.ExportRow) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.touch(id)
	if s.accumulate {
		st.rows = append(st.rows, rows...)
	} else {
		st.rows = append([]entity.ExportRow(nil), rows...)
	}
	return len(st.rows)
}

// Rows returns a copy of the session's accumulated rows.
func (s *Store) Rows(id string) []entity.ExportRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.touch(id)
	out := make([]entity.ExportRow, len(st.rows))
	copy(out, st.rows)
	return out
}

// ClearRows drops the session's accumulated rows.
func (s *Store) ClearRows(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(id).rows = nil
}

// SetPromptTemplate stores a session-scoped template override.
// An empty template reverts the session to the default.
func (s *Store) SetPromptTemplate(id, template string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(id).promptTemplate = template
}

// PromptTemplate returns the session's template override ("" means default).
func (s *Store) PromptTemplate(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touch(id).promptTemplate
}

// SetAPIKey stores the session's API key in memory only.
func (s *Store) SetAPIKey(id, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(id).apiKey = key
}

// APIKey returns the session's API key, or "".
func (s *Store) APIKey(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touch(id).apiKey
}

// HasAPIKey reports whether the session holds a key, without exposing it.
func (s *Store) HasAPIKey(id string) bool {
	return s.APIKey(id) != ""
}

// touch returns the session state, creating it if needed, stamping it, and
// sweeping expired neighbors. Callers must hold s.mu.
func (s *Store) touch(id string) *state {
	now := time.Now()
	for k, st := range s.sessions {
		if k != id && now.Sub(st.touched) > s.ttl {
			delete(s.sessions, k)
			s.logger.Debug("session.swept", "session_id", k)
		}
	}
	st, ok := s.sessions[id]
	if !ok {
		st = &state{}
		s.sessions[id] = st
	}
	st.touched = now
	return st
}
