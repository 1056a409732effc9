// Package progress implements the session-keyed progress registry that
// decouples pipeline producers from possibly-disconnected observers.
package progress

import (
	"context"
	"sync"
	"time"

	"github.com/kyhsueh/codegrade/schema"
)

// session holds one analysis run's buffered events and liveness state.
// Producers append under the registry lock; each subscriber replays the
// buffer by index and then waits on the signal channel, which is closed and
// replaced on every append. The buffer is unbounded so publishing never
// blocks the pipeline, whether or not anyone is reading.
type session struct {
	events   []schema.ProgressEvent
	signal   chan struct{}
	maxPct   int
	terminal bool
}

// Registry is the process-wide mapping from session id to progress queue.
// It is constructed once at process start and passed by handle to the
// orchestrator and the stream endpoints; sessions are fully isolated from
// one another.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*session)}
}

// Open creates the entry for a session id. Opening an already-open session
// is a no-op, preserving any events buffered so far.
func (r *Registry) Open(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; ok {
		return
	}
	r.sessions[sessionID] = &session{signal: make(chan struct{})}
}

// Publish appends an event to a live session's queue. Publishing to a
// closed or unknown session, or after a terminal stage, is a silent no-op:
// a disconnected consumer must never block or fail the pipeline. Percentages
// are clamped monotonically non-decreasing within the session.
func (r *Registry) Publish(sessionID string, stage schema.Stage, percentage int, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok || s.terminal {
		return
	}

	if percentage < s.maxPct {
		percentage = s.maxPct
	}
	if percentage > 100 {
		percentage = 100
	}
	s.maxPct = percentage

	s.events = append(s.events, schema.ProgressEvent{
		SessionID:  sessionID,
		Stage:      stage,
		Percentage: percentage,
		Message:    message,
		Timestamp:  time.Now(),
	})
	if stage.Terminal() {
		s.terminal = true
	}

	close(s.signal)
	s.signal = make(chan struct{})
}

// Subscribe returns a channel that yields the session's buffered events and
// then follows live publishes in order. The channel closes after a terminal
// stage is delivered, when the session is closed, or when ctx is canceled.
// Subscribing to an unknown session yields an already-closed channel.
func (r *Registry) Subscribe(ctx context.Context, sessionID string) <-chan schema.ProgressEvent {
	ch := make(chan schema.ProgressEvent)

	go func() {
		defer close(ch)
		idx := 0
		for {
			r.mu.Lock()
			s, ok := r.sessions[sessionID]
			if !ok {
				r.mu.Unlock()
				return
			}
			pending := s.events[idx:]
			signal := s.signal
			r.mu.Unlock()

			for _, ev := range pending {
				select {
				case ch <- ev:
				case <-ctx.Done():
					return
				}
				idx++
				if ev.Stage.Terminal() {
					return
				}
			}

			select {
			case <-signal:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}

// Close removes the session and releases its queue, waking any subscribers.
// Closing an unknown session is a no-op; the orchestrator calls Close
// unconditionally in its cleanup step so unobserved sessions never leak.
func (r *Registry) Close(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	close(s.signal)
	delete(r.sessions, sessionID)
}

// Len reports the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
