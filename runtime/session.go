package runtime

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// SessionState is the one-directional lifecycle of a connection.
// No transition ever re-enters Active.
type SessionState int32

const (
	StateConnecting SessionState = iota
	StateActive
	StateClosing
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Frame is one outbound delivery unit, either a history replay entry or a
// live broadcast. The queue preserves the order in which frames were handed
// to the session.
type Frame struct {
	Sender  string    `json:"sender"`
	Content string    `json:"body"`
	Seq     uint64    `json:"seq"`
	At      time.Time `json:"timestamp"`
}

// Session represents one live authenticated attachment to a room.
// It is owned by the Broadcaster for its whole lifetime and never persisted.
type Session struct {
	ID       uuid.UUID
	Identity domain.Identity
	Room     domain.RoomID

	state     atomic.Int32
	queue     chan Frame
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(identity domain.Identity, room domain.RoomID, queueSize int) *Session {
	return &Session{
		ID:       uuid.New(),
		Identity: identity,
		Room:     room,
		queue:    make(chan Frame, queueSize),
		done:     make(chan struct{}),
	}
}

func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

// Frames is the outbound queue consumed by the transport writer.
func (s *Session) Frames() <-chan Frame {
	return s.queue
}

// Done is closed when the session leaves the active phase. Transports use it
// to stop their write loop; remaining queued frames are drained best-effort.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// activate moves connecting -> active. Called exactly once by the engine
// after history replay has been queued.
func (s *Session) activate() {
	s.state.CompareAndSwap(int32(StateConnecting), int32(StateActive))
}

// enqueue hands a frame to the session without ever blocking the caller.
// A full queue is reported as ErrQueueFull so the engine can apply its
// slow-consumer policy; it is never resolved by waiting.
func (s *Session) enqueue(f Frame) error {
	if s.State() >= StateClosing {
		return errors.ErrSessionClosed
	}
	select {
	case <-s.done:
		return errors.ErrSessionClosed
	case s.queue <- f:
		return nil
	default:
		return errors.ErrQueueFull
	}
}

// beginClose moves the session to closing and wakes the transport.
// Reports whether this call was the one performing the transition, so
// concurrent failure paths (read error, delivery failure, shutdown) can race
// safely and side effects run once.
func (s *Session) beginClose() bool {
	for {
		current := s.state.Load()
		if SessionState(current) >= StateClosing {
			return false
		}
		if s.state.CompareAndSwap(current, int32(StateClosing)) {
			s.closeOnce.Do(func() { close(s.done) })
			return true
		}
	}
}

// markClosed finishes the lifecycle once the session has been deregistered.
func (s *Session) markClosed() {
	s.state.CompareAndSwap(int32(StateClosing), int32(StateClosed))
}
