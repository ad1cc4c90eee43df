package browse

import (
	"sync"
	"time"

	"github.com/google/uuid"

	mfs "github.com/CageChen/dirscope/internal/fs"
)

// Store keeps one Session per client id and drops sessions idle for longer
// than the idle timeout. A session with a running census is never idle.
type Store struct {
	lister mfs.Lister
	start  string
	opts   Options
	idle   time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates a store whose sessions browse lister starting at start.
// A zero idle timeout keeps sessions forever.
func NewStore(lister mfs.Lister, start string, opts Options, idle time.Duration) *Store {
	return &Store{
		lister:   lister,
		start:    start,
		opts:     opts,
		idle:     idle,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session with the given id, if it exists.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.pruneLocked()
	s, ok := st.sessions[id]
	return s, ok
}

// GetOrCreate returns the session with the given id, creating a session
// with a fresh id when it is unknown.
func (st *Store) GetOrCreate(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.pruneLocked()
	if s, ok := st.sessions[id]; ok && id != "" {
		return s
	}
	s := NewSession(uuid.NewString(), st.lister, st.start, st.opts)
	st.sessions[s.ID()] = s
	return s
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Close cancels every running census and forgets all sessions.
func (st *Store) Close() {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, s := range st.sessions {
		s.Close()
		delete(st.sessions, id)
	}
}

func (st *Store) pruneLocked() {
	if st.idle <= 0 {
		return
	}
	cutoff := time.Now().Add(-st.idle)
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) && !s.busy() {
			s.Close()
			delete(st.sessions, id)
		}
	}
}
