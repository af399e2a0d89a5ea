package loop

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/asteroids-audio/internal/loop/config"
)

// EventType identifies an event sent from the hub to a console.
type EventType int

const (
	EventShutdown EventType = iota
)

// Event is a message from the hub to one console.
type Event struct {
	Type EventType
}

// Handle is a console's registration with the hub.
type Handle struct {
	ID       int
	Username string
	EventsCh chan Event // Closed when the console is unregistered
}

// Hub tracks the live consoles of a host so it can notify them and wait for
// them to leave on shutdown. Consoles never share sound state through it.
type Hub struct {
	mu       sync.RWMutex
	consoles map[int]*Handle
	nextID   int
	logger   *log.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		consoles: make(map[int]*Handle),
		nextID:   1,
		logger:   logger,
	}
}

// Register adds a console and returns its handle.
func (h *Hub) Register(username string) *Handle {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle := &Handle{
		ID:       h.nextID,
		Username: username,
		EventsCh: make(chan Event, 4),
	}
	h.nextID++
	h.consoles[handle.ID] = handle
	h.logger.Debug("console registered", "id", handle.ID, "user", username, "live", len(h.consoles))
	return handle
}

// Unregister removes a console and closes its event channel. Unknown IDs
// are ignored.
func (h *Hub) Unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle, ok := h.consoles[id]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(h.consoles, id)
	h.logger.Debug("console unregistered", "id", id, "live", len(h.consoles))
}

// Len returns the number of live consoles.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.consoles)
}

// Shutdown notifies every console and waits for them to unregister, or for
// timeout. It reports whether all consoles left in time.
func (h *Hub) Shutdown(timeout time.Duration) bool {
	h.mu.RLock()
	for _, handle := range h.consoles {
		select {
		case handle.EventsCh <- Event{Type: EventShutdown}:
		default:
		}
	}
	h.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(config.HubPollInterval)
	defer ticker.Stop()

	for {
		if h.Len() == 0 {
			return true
		}
		select {
		case <-deadline:
			h.logger.Warn("consoles still connected after shutdown timeout", "live", h.Len())
			return false
		case <-ticker.C:
		}
	}
}
