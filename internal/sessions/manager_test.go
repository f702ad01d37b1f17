package sessions

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestManager(ttl time.Duration) (*Manager, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager(ttl)
	m.now = clock.Now
	return m, clock
}

func TestPutAndGet(t *testing.T) {
	m, _ := newTestManager(time.Minute)

	tx := m.Lock(1)
	assert.Nil(t, tx.Session())
	tx.Put(New(1, "u1", "mario"))
	tx.Unlock()

	assert.True(t, m.Exists(1))
	assert.False(t, m.Exists(2))

	tx = m.Lock(1)
	require.NotNil(t, tx.Session())
	assert.Equal(t, StepWaitingLocation, tx.Session().Step)
	tx.Delete()
	tx.Unlock()

	assert.False(t, m.Exists(1))
}

func TestExpiry(t *testing.T) {
	m, clock := newTestManager(30 * time.Minute)

	tx := m.Lock(7)
	tx.Put(New(7, "u1", "mario"))
	tx.Unlock()

	clock.Advance(29 * time.Minute)
	assert.True(t, m.Exists(7))
	assert.Zero(t, m.Sweep())

	clock.Advance(2 * time.Minute)
	assert.False(t, m.Exists(7))
	assert.Equal(t, 1, m.Sweep())

	tx = m.Lock(7)
	assert.Nil(t, tx.Session())
	tx.Unlock()
}

func TestPutRefreshesIdleTimer(t *testing.T) {
	m, clock := newTestManager(10 * time.Minute)

	tx := m.Lock(3)
	tx.Put(New(3, "u1", "mario"))
	tx.Unlock()

	clock.Advance(8 * time.Minute)
	tx = m.Lock(3)
	s := tx.Session()
	s.Step = StepWaitingTitle
	tx.Put(s)
	tx.Unlock()

	clock.Advance(8 * time.Minute)
	assert.True(t, m.Exists(3))
}

func TestSweepSkipsLockedChats(t *testing.T) {
	m, clock := newTestManager(time.Minute)

	tx := m.Lock(5)
	tx.Put(New(5, "u1", "mario"))
	clock.Advance(time.Hour)

	assert.Zero(t, m.Sweep())
	tx.Unlock()
	assert.Equal(t, 1, m.Sweep())
}

func TestLockSerializesChat(t *testing.T) {
	m, _ := newTestManager(time.Minute)

	tx := m.Lock(9)
	tx.Put(New(9, "u1", "mario"))
	tx.Unlock()

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx := m.Lock(9)
			defer tx.Unlock()
			s := tx.Session()
			s.Draft.Photos = append(s.Draft.Photos, []byte{1})
			tx.Put(s)
		}()
	}
	wg.Wait()

	tx = m.Lock(9)
	defer tx.Unlock()
	assert.Len(t, tx.Session().Draft.Photos, workers)
}

func TestShutdown(t *testing.T) {
	m, _ := newTestManager(time.Minute)
	tx := m.Lock(1)
	tx.Put(New(1, "u1", "mario"))
	tx.Unlock()

	m.Shutdown()
	m.Shutdown()

	assert.False(t, m.Exists(1))
}

func TestRestart(t *testing.T) {
	s := New(1, "u1", "mario")
	s.Step = StepWaitingConfirmation
	s.Draft.Title = "Lamp"
	s.Draft.Photos = [][]byte{{1}}

	s.Restart()

	assert.Equal(t, StepWaitingLocation, s.Step)
	assert.Empty(t, s.Draft.Title)
	assert.Empty(t, s.Draft.Photos)
	assert.Equal(t, "u1", s.UserID)
}
