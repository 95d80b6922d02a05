package bridge

import (
	"fmt"
	"sync"
	"time"

	"localmind-desktop/internal/logger"
)

// Event is a backend-originated notification for the frontend.
type Event struct {
	Name      string    `json:"event"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type listener struct {
	id int
	fn func(Event)
}

type eventBus struct {
	mu        sync.RWMutex
	listeners map[string][]listener
	nextID    int

	buffer chan Event
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
	logger logger.Logger
}

func newEventBus(bufferSize int, log logger.Logger) *eventBus {
	bus := &eventBus{
		listeners: make(map[string][]listener),
		buffer:    make(chan Event, bufferSize),
		done:      make(chan struct{}),
		logger:    log,
	}
	bus.startWorker()
	return bus
}

func (b *eventBus) publish(event Event) {
	event.Timestamp = time.Now()

	select {
	case <-b.done:
		return
	default:
	}

	select {
	case b.buffer <- event:
	default:
		b.logger.Warning("Bridge", "event dropped, buffer full", map[string]interface{}{
			"event": event.Name,
		})
	}
}

func (b *eventBus) subscribe(name string, fn func(Event)) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.listeners[name] = append(b.listeners[name], listener{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		ls := b.listeners[name]
		for i, l := range ls {
			if l.id == id {
				b.listeners[name] = append(ls[:i:i], ls[i+1:]...)
				break
			}
		}
	}
}

func (b *eventBus) shutdown() {
	b.once.Do(func() {
		close(b.done)
		b.wg.Wait()
	})
}

func (b *eventBus) startWorker() {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		for {
			select {
			case event := <-b.buffer:
				b.dispatch(event)
			case <-b.done:
				return
			}
		}
	}()
}

func (b *eventBus) dispatch(event Event) {
	b.mu.RLock()
	ls := make([]listener, len(b.listeners[event.Name]))
	copy(ls, b.listeners[event.Name])
	b.mu.RUnlock()

	for _, l := range ls {
		b.deliver(l, event)
	}
}

func (b *eventBus) deliver(l listener, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Bridge", fmt.Errorf("listener for %s panicked: %v", event.Name, r), nil)
		}
	}()
	l.fn(event)
}
