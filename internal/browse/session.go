package browse

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/CageChen/dirscope/internal/census"
	mfs "github.com/CageChen/dirscope/internal/fs"
)

// EventType identifies a session event.
type EventType string

// Session event types.
const (
	EventNavigated       EventType = "navigated"
	EventCensusStarted   EventType = "censusStarted"
	EventCensusProgress  EventType = "censusProgress"
	EventCensusDone      EventType = "censusDone"
	EventCensusCancelled EventType = "censusCancelled"
)

// Event is published to the session's notifier.
type Event struct {
	SessionID string
	Type      EventType
	Payload   any
}

// Notifier receives session events. It must not call back into the session.
type Notifier func(Event)

// Options configures a Session.
type Options struct {
	ProgressInterval time.Duration
	Notify           Notifier
}

// Session is one client's browsing state. Navigation and census may be
// called from different goroutines: navigation cancels a running census,
// and a census result is only kept if no navigation happened while it ran.
type Session struct {
	id     string
	lister mfs.Lister
	start  string
	opts   Options

	lastSeen atomic.Int64

	mu     sync.Mutex
	cursor Cursor
	result *census.Accumulator
	cancel context.CancelFunc
	gen    uint64
}

// NewSession creates a session positioned on start.
func NewSession(id string, lister mfs.Lister, start string, opts Options) *Session {
	s := &Session{
		id:     id,
		lister: lister,
		start:  start,
		opts:   opts,
		cursor: AtDirectory(start),
	}
	s.touch()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Cursor returns the current cursor.
func (s *Session) Cursor() Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Result returns the census of the current directory, or nil if none has
// completed since the last navigation.
func (s *Session) Result() *census.Accumulator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *Session) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) emit(t EventType, payload any) {
	if s.opts.Notify != nil {
		s.opts.Notify(Event{SessionID: s.id, Type: t, Payload: payload})
	}
}

// busy reports whether a census is running.
func (s *Session) busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// cancelLocked stops a running census. s.mu must be held.
func (s *Session) cancelLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Close cancels any running census.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Navigate cancels any running census and moves the cursor. On error the
// cursor and the stored census are left unchanged.
func (s *Session) Navigate(target Target) error {
	s.touch()

	s.mu.Lock()
	s.cancelLocked()

	next, err := s.resolve(target)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.cursor = next
	s.result = nil
	s.gen++
	s.mu.Unlock()

	s.emit(EventNavigated, s.lister.DisplayName(next.Path()))
	return nil
}

// resolve computes the cursor target selects. s.mu must be held.
func (s *Session) resolve(target Target) (Cursor, error) {
	cur := s.cursor

	switch target.Kind {
	case TargetReset:
		return AtDirectory(s.start), nil

	case TargetParent:
		// Already above every root: nothing to go up to.
		if cur.IsAboveRoot() {
			return cur, nil
		}
		parent, ok := s.lister.Parent(cur.Path())
		if !ok {
			return AboveRoot(), nil
		}
		return AtDirectory(parent), nil

	case TargetChild:
		if target.Index < 0 {
			return cur, fmt.Errorf("%w: %d", ErrIndexOutOfRange, target.Index)
		}
		if cur.IsAboveRoot() {
			volumes, err := s.lister.Volumes()
			if err != nil {
				return cur, fmt.Errorf("listing volumes: %w", err)
			}
			if target.Index >= len(volumes) {
				return cur, fmt.Errorf("%w: %d of %d volumes", ErrIndexOutOfRange, target.Index, len(volumes))
			}
			vol := volumes[target.Index]
			if !vol.Ready {
				return cur, fmt.Errorf("%w: %s", ErrVolumeNotReady, vol.Name)
			}
			return AtDirectory(vol.Root), nil
		}

		entries, err := s.lister.ReadDir(cur.Path())
		if err != nil {
			return cur, fmt.Errorf("listing %s: %w", s.lister.DisplayName(cur.Path()), err)
		}
		dirs, _ := mfs.Split(entries)
		if target.Index >= len(dirs) {
			return cur, fmt.Errorf("%w: %d of %d subdirectories", ErrIndexOutOfRange, target.Index, len(dirs))
		}
		return AtDirectory(s.lister.Join(cur.Path(), dirs[target.Index].Name)), nil
	}

	return cur, fmt.Errorf("unknown navigation target %v", target)
}

// Census counts the current directory and stores the result. It returns
// nil without error above root. It returns census.ErrCancelled when a
// navigation or a newer census interrupted it.
func (s *Session) Census(ctx context.Context) (*census.Accumulator, error) {
	s.touch()

	s.mu.Lock()
	s.cancelLocked()
	s.result = nil
	cur := s.cursor
	if cur.IsAboveRoot() {
		s.mu.Unlock()
		return nil, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	defer cancel()

	dir := s.lister.DisplayName(cur.Path())
	s.emit(EventCensusStarted, dir)

	engine := census.NewEngine(s.lister, census.Options{
		ProgressInterval: s.opts.ProgressInterval,
		Progress: func(p census.Progress) {
			s.emit(EventCensusProgress, p)
		},
	})
	acc, err := engine.Census(ctx, cur.Path())

	s.mu.Lock()
	current := s.gen == gen
	if current {
		s.cancel = nil
		if err == nil {
			s.result = acc
		}
	}
	s.mu.Unlock()

	if err == nil && !current {
		err = census.ErrCancelled
	}
	if err != nil {
		if !errors.Is(err, census.ErrCancelled) {
			log.Printf("Warning: census of %s failed: %v", dir, err)
		}
		s.emit(EventCensusCancelled, dir)
		return nil, err
	}

	s.emit(EventCensusDone, NewCensusView(acc))
	return acc, nil
}

// CensusView runs a census of the current directory, unless above root, and
// returns the resulting view. An interrupted census yields a view without
// census data.
func (s *Session) CensusView(ctx context.Context) (*View, error) {
	if _, err := s.Census(ctx); err != nil && !errors.Is(err, census.ErrCancelled) {
		return nil, err
	}
	return s.View(), nil
}
