package wizard

import (
	"context"
	"sync"
	"time"
)

type session struct {
	mu        sync.Mutex
	state     State
	expiresAt time.Time
	// pins counts updates in flight. Guarded by Store.mu; expiry never drops a pinned session.
	pins int
}

// Store keeps wizard sessions in memory. Each session has its own lock so one session
// runs its transitions one after another while other sessions proceed.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*session
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{ttl: ttl, now: time.Now, sessions: make(map[string]*session)}
}

func (s *Store) Put(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[st.SessionID] = &session{state: st, expiresAt: s.now().Add(s.ttl)}
}

// live returns the session if it exists and has not expired. s.mu must be held.
func (s *Store) live(id string) (*session, bool) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if sess.pins == 0 && s.now().After(sess.expiresAt) {
		delete(s.sessions, id)
		return nil, false
	}
	return sess, true
}

func (s *Store) lookup(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live(id)
}

func (s *Store) pin(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.live(id)
	if ok {
		sess.pins++
	}
	return sess, ok
}

func (s *Store) unpin(sess *session) {
	s.mu.Lock()
	sess.pins--
	s.mu.Unlock()
}

func (s *Store) holds(id string, sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id] == sess
}

func (s *Store) Get(id string) (State, bool) {
	sess, ok := s.lookup(id)
	if !ok {
		return State{}, false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state, true
}

// Update runs fn with the session locked and stores the state it returns. Every update
// extends the session's lifetime. A session deleted while Update waited for the lock or
// while fn ran is reported as not found and its new state is dropped.
func (s *Store) Update(id string, fn func(State) (State, error)) (State, error) {
	sess, ok := s.pin(id)
	if !ok {
		return State{}, ErrSessionNotFound
	}
	defer s.unpin(sess)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !s.holds(id, sess) {
		return State{}, ErrSessionNotFound
	}

	next, err := fn(sess.state)
	if err != nil {
		return sess.state, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[id] != sess {
		return State{}, ErrSessionNotFound
	}
	sess.state = next
	sess.expiresAt = s.now().Add(s.ttl)
	return next, nil
}

func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Sweep drops expired sessions that no update holds and reports how many went.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, sess := range s.sessions {
		if sess.pins == 0 && now.After(sess.expiresAt) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RunSweeper sweeps every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
