package sessions

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	// DefaultTTL is how long an idle session survives.
	DefaultTTL = 30 * time.Minute
	// DefaultSweepInterval is how often expired sessions are collected.
	DefaultSweepInterval = time.Minute
)

// Store holds sessions keyed by chat id.
// Lock serializes all work on one chat until the returned Tx is released.
type Store interface {
	Lock(chatID int64) *Tx
	Exists(chatID int64) bool
}

type chatState struct {
	mu      sync.Mutex
	session *Session
	dead    bool
}

// Tx is exclusive access to one chat's session.
type Tx struct {
	state *chatState
	now   func() time.Time
	done  bool
}

// Session returns the current session, or nil when the chat has none.
func (t *Tx) Session() *Session {
	return t.state.session
}

// Put stores s and refreshes its idle timer.
func (t *Tx) Put(s *Session) {
	s.UpdatedAt = t.now()
	t.state.session = s
}

// Delete drops the session.
func (t *Tx) Delete() {
	t.state.session = nil
}

// Unlock releases the chat. Calling it twice is a no-op.
func (t *Tx) Unlock() {
	if t.done {
		return
	}
	t.done = true
	t.state.mu.Unlock()
}

// Manager is the in-memory Store.
type Manager struct {
	chats sync.Map // map[int64]*chatState
	ttl   time.Duration
	now   func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// NewManager creates an in-memory store. A zero ttl means DefaultTTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{ttl: ttl, now: time.Now, stop: make(chan struct{})}
}

// Lock blocks until the chat is free and returns exclusive access to it.
func (m *Manager) Lock(chatID int64) *Tx {
	for {
		val, _ := m.chats.LoadOrStore(chatID, &chatState{})
		state := val.(*chatState)
		state.mu.Lock()
		if state.dead {
			// Collected by the sweeper between load and lock.
			state.mu.Unlock()
			continue
		}
		if state.session != nil && m.expired(state.session) {
			log.Printf("[Sessions Chat:%d] Session expired at step %s", chatID, state.session.Step)
			state.session = nil
		}
		return &Tx{state: state, now: m.now}
	}
}

// Exists reports whether chatID has a live session. It does not wait for the chat lock.
func (m *Manager) Exists(chatID int64) bool {
	val, ok := m.chats.Load(chatID)
	if !ok {
		return false
	}
	state := val.(*chatState)
	state.mu.Lock()
	defer state.mu.Unlock()
	return !state.dead && state.session != nil && !m.expired(state.session)
}

func (m *Manager) expired(s *Session) bool {
	return m.now().Sub(s.UpdatedAt) > m.ttl
}

// Sweep removes expired and empty chats that are not currently locked.
func (m *Manager) Sweep() int {
	removed := 0
	m.chats.Range(func(key, value any) bool {
		state := value.(*chatState)
		if !state.mu.TryLock() {
			return true
		}
		if state.session == nil || m.expired(state.session) {
			if state.session != nil {
				removed++
				log.Printf("[Sessions Chat:%d] Sweeping idle session at step %s", key.(int64), state.session.Step)
			}
			state.dead = true
			state.session = nil
			m.chats.Delete(key)
		}
		state.mu.Unlock()
		return true
	})
	return removed
}

// Run sweeps every interval until ctx is done or Shutdown is called.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stop:
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				log.Printf("[Sessions] Swept %d idle session(s)", n)
			}
		}
	}
}

// Shutdown stops Run and drops every session.
func (m *Manager) Shutdown() {
	log.Println("[Sessions] Shutting down, dropping active sessions...")
	m.stopOnce.Do(func() { close(m.stop) })
	dropped := 0
	m.chats.Range(func(key, value any) bool {
		state := value.(*chatState)
		state.mu.Lock()
		if state.session != nil {
			dropped++
		}
		state.dead = true
		state.session = nil
		state.mu.Unlock()
		m.chats.Delete(key)
		return true
	})
	log.Printf("[Sessions] Shutdown complete. Dropped %d session(s).", dropped)
}
