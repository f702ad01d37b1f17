// Package albums buffers the messages of a Telegram album so they can be handled in order.
package albums

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/mymmrac/telego"
)

const (
	// DefaultQuietPeriod is how long an album must receive nothing before it is flushed.
	DefaultQuietPeriod = time.Second
	// DefaultMaxSize caps the messages kept per album. Telegram albums hold at most 10.
	DefaultMaxSize = 10
	// flushTimeout bounds a single flush.
	flushTimeout = time.Minute
)

// FlushFunc receives a complete album, sorted by message id.
type FlushFunc func(ctx context.Context, groupID string, messages []telego.Message)

type album struct {
	mu       sync.Mutex
	messages []telego.Message
	timer    *time.Timer
	flushed  bool
}

// Collector groups album messages by MediaGroupID.
type Collector struct {
	groups  sync.Map // map[string]*album
	quiet   time.Duration
	maxSize int
	flush   FlushFunc

	running sync.WaitGroup
}

// NewCollector creates a collector calling flush for every finished album.
// Non-positive values select the defaults.
func NewCollector(quiet time.Duration, maxSize int, flush FlushFunc) *Collector {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Collector{quiet: quiet, maxSize: maxSize, flush: flush}
}

// Add stores message and restarts its album's quiet timer.
// It returns false for messages that are not part of an album.
func (c *Collector) Add(message telego.Message) bool {
	groupID := message.MediaGroupID
	if groupID == "" {
		return false
	}

	for {
		val, _ := c.groups.LoadOrStore(groupID, &album{})
		a := val.(*album)
		a.mu.Lock()
		if a.flushed {
			// Flushed between load and lock; a late message starts a new album.
			a.mu.Unlock()
			c.groups.CompareAndDelete(groupID, a)
			continue
		}
		c.addLocked(a, groupID, message)
		a.mu.Unlock()
		return true
	}
}

func (c *Collector) addLocked(a *album, groupID string, message telego.Message) {
	for _, m := range a.messages {
		if m.MessageID == message.MessageID {
			return
		}
	}
	if len(a.messages) >= c.maxSize {
		log.Printf("[Albums Group:%s] Limit (%d) reached, message %d dropped", groupID, c.maxSize, message.MessageID)
		return
	}
	a.messages = append(a.messages, message)

	if a.timer == nil {
		c.running.Add(1)
		a.timer = time.AfterFunc(c.quiet, func() { c.fire(groupID, a) })
		return
	}
	if a.timer.Stop() {
		a.timer.Reset(c.quiet)
	}
	// Otherwise fire is already waiting for the lock and will pick the message up.
}

func (c *Collector) fire(groupID string, a *album) {
	defer c.running.Done()

	a.mu.Lock()
	a.flushed = true
	messages := a.messages
	a.messages = nil
	a.mu.Unlock()
	c.groups.CompareAndDelete(groupID, a)

	if len(messages) == 0 {
		return
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].MessageID < messages[j].MessageID
	})

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	c.flush(ctx, groupID, messages)
}

// Shutdown drops pending albums and waits for running flushes.
func (c *Collector) Shutdown() {
	dropped := 0
	c.groups.Range(func(key, value any) bool {
		a := value.(*album)
		a.mu.Lock()
		if a.timer != nil && a.timer.Stop() {
			dropped++
			a.flushed = true
			c.running.Done()
		}
		a.mu.Unlock()
		c.groups.Delete(key)
		return true
	})
	c.running.Wait()
	if dropped > 0 {
		log.Printf("[Albums] Shutdown dropped %d pending album(s)", dropped)
	}
}
