package utils

import (
	"sync"
	"time"
)

type Event struct {
	Event     string      `json:"event"`
	BoardSlug string      `json:"board"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
	// OwnerOnly events concern unapproved feedback and are delivered to the
	// board owner only.
	OwnerOnly bool `json:"-"`
}

type EventBus struct {
	subscribers map[uint64]chan Event
	nextID      uint64
	buffer      int
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[uint64]chan Event),
		buffer:      100,
	}
}

// Publish fans the event out to every subscriber without blocking; a
// subscriber whose buffer is full misses the event.
func (eb *EventBus) Publish(e Event) {
	if eb == nil {
		return
	}
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().UTC().Unix()
	}
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe returns a channel of future events and a cancel func that
// detaches and closes it.
func (eb *EventBus) Subscribe() (<-chan Event, func()) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	id := eb.nextID
	eb.nextID++
	ch := make(chan Event, eb.buffer)
	eb.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			eb.mu.Lock()
			delete(eb.subscribers, id)
			eb.mu.Unlock()
			close(ch)
		})
	}
}
