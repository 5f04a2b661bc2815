package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/moderation"
	"chat-relay/observability"
	"chat-relay/repositories"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abadojack/whatlanggo"
)

// Broadcaster is the connection/room broadcast engine. It owns every live
// session: it authenticates attachments, replays history, persists inbound
// messages, and fans them out to the room's membership snapshot.
//
// Slow-consumer policy: a session whose outbound queue is full at fan-out
// time is forcibly disconnected. Dropping individual frames instead would
// silently break per-session FIFO, so the whole session is closed and the
// client is expected to reconnect and recover through history replay.
type Broadcaster struct {
	log      *slog.Logger
	verifier contract.TokenVerifier
	rooms    repositories.IRoomRepository
	messages repositories.IMessageRepository
	registry *Registry
	monitor  *observability.Monitor

	// moderator is optional; when nil, content passes through untouched.
	moderator *moderation.Moderator

	events chan event.DomainEvent

	historyLimit  int
	queueSize     int
	verifyTimeout time.Duration
}

func NewBroadcaster(
	log *slog.Logger,
	verifier contract.TokenVerifier,
	rooms repositories.IRoomRepository,
	messages repositories.IMessageRepository,
	registry *Registry,
	monitor *observability.Monitor,
	moderator *moderation.Moderator,
	historyLimit, queueSize, eventBufferSize int,
	verifyTimeout time.Duration,
) *Broadcaster {
	return &Broadcaster{
		log:           log,
		verifier:      verifier,
		rooms:         rooms,
		messages:      messages,
		registry:      registry,
		monitor:       monitor,
		moderator:     moderator,
		events:        make(chan event.DomainEvent, eventBufferSize),
		historyLimit:  historyLimit,
		queueSize:     queueSize,
		verifyTimeout: verifyTimeout,
	}
}

// Events exposes the side-effect stream consumed by the fanout worker
// (search index, monitoring). It is decoupled from delivery: a slow sink
// loses events, never messages.
func (b *Broadcaster) Events() <-chan event.DomainEvent {
	return b.events
}

// Attach authenticates a credential, verifies the room exists, and brings a
// new session to the active state. History replay frames are queued before
// the session joins the membership set, which guarantees both that history
// precedes any live delivery and that no message can arrive twice (a message
// already persisted when the history snapshot is taken has finished its
// fan-out under the same room order lock, and the session was not yet a
// member).
func (b *Broadcaster) Attach(ctx context.Context, credential string, roomID domain.RoomID) (*Session, error) {
	verifyCtx, cancel := context.WithTimeout(ctx, b.verifyTimeout)
	defer cancel()

	identity, err := b.verifier.Verify(verifyCtx, credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}

	if _, err = b.rooms.GetRoom(roomID); err != nil {
		return nil, errors.ErrRoomNotFound
	}

	session := newSession(identity, roomID, b.queueSize)
	shard := b.registry.shard(roomID)

	shard.order.Lock()
	defer shard.order.Unlock()

	history, err := b.messages.RecentMessages(roomID, b.historyLimit)
	if err != nil {
		session.beginClose()
		session.markClosed()
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	// The queue is empty and sized to hold at least one full history batch,
	// so replay can never overflow it.
	for _, message := range history {
		if err := session.enqueue(toFrame(message)); err != nil {
			session.beginClose()
			session.markClosed()
			return nil, err
		}
	}

	session.activate()
	shard.mu.Lock()
	shard.members[session.ID] = session
	shard.mu.Unlock()

	b.monitor.SessionOpened()
	b.publish(event.ParticipantJoined{Room: roomID, SenderID: identity.UserID, At: time.Now().UTC()})
	b.log.Info("Session attached",
		"session_id", session.ID,
		"user", identity.Username,
		"room_id", roomID,
		"history", len(history))
	return session, nil
}

// Send persists one inbound message and fans it out to every session in the
// room's membership snapshot, including the sender. Persistence
// happens-before fan-out; if it fails, nobody sees the message. A delivery
// failure closes the affected session only and never fails the send.
func (b *Broadcaster) Send(ctx context.Context, session *Session, body string) error {
	if session == nil || session.State() != StateActive {
		return errors.ErrInvalidState
	}

	content := body
	var censoredWords []string
	if b.moderator != nil {
		content, censoredWords = b.moderator.Censor(body)
	}

	shard := b.registry.shard(session.Room)
	shard.order.Lock()

	stored, err := b.messages.Append(domain.Message{
		Room:      session.Room,
		SenderID:  session.Identity.UserID,
		Sender:    session.Identity.Username,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		shard.order.Unlock()
		b.monitor.PersistenceFailed()
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	frame := toFrame(stored)
	members := shard.snapshot()
	var stalled []*Session
	for _, member := range members {
		if err := member.enqueue(frame); err != nil {
			// Isolated per recipient; the sender never sees this failure.
			stalled = append(stalled, member)
		}
	}
	shard.order.Unlock()

	for _, victim := range stalled {
		b.monitor.DeliveryDropped()
		b.log.Warn("Disconnecting slow consumer",
			"session_id", victim.ID,
			"user", victim.Identity.Username,
			"room_id", victim.Room)
		b.Detach(victim)
	}

	info := whatlanggo.Detect(content)
	b.publish(event.MessageBroadcast{
		ID:       stored.ID,
		Room:     stored.Room,
		SenderID: stored.SenderID,
		Sender:   stored.Sender,
		Content:  stored.Content,
		Lang:     info.Lang.Iso6391(),
		Seq:      stored.Seq,
		At:       stored.CreatedAt,
	})

	if len(censoredWords) > 0 {
		b.log.Debug("Message censored",
			"room_id", stored.Room,
			"words", len(censoredWords),
			"lang", info.Lang.Iso6391())
	}
	b.monitor.MessageBroadcast(len(members))
	return nil
}

// Detach drives a session to closing then closed and removes it from the
// registry. Idempotent and safe to call concurrently from the disconnect
// path, the delivery-failure path, and shutdown.
func (b *Broadcaster) Detach(session *Session) {
	if session == nil {
		return
	}
	first := session.beginClose()
	b.registry.Leave(session.Room, session)
	session.markClosed()

	if first {
		b.monitor.SessionClosed()
		b.publish(event.ParticipantLeft{
			Room:     session.Room,
			SenderID: session.Identity.UserID,
			At:       time.Now().UTC(),
		})
		b.log.Info("Session detached", "session_id", session.ID, "room_id", session.Room)
	}
}

// History returns a cursor-paginated slice of a room's past messages,
// oldest first within the batch.
func (b *Broadcaster) History(roomID domain.RoomID, cursor *string, limit int) ([]domain.Message, *string, error) {
	if _, err := b.rooms.GetRoom(roomID); err != nil {
		return nil, nil, errors.ErrRoomNotFound
	}
	if limit <= 0 {
		limit = b.historyLimit
	}
	return b.messages.ListMessages(roomID, cursor, limit)
}

// publish hands an event to the side-effect pipeline without blocking the
// delivery path. Backpressure on sinks loses telemetry, not messages.
func (b *Broadcaster) publish(e event.DomainEvent) {
	select {
	case b.events <- e:
	default:
		b.monitor.EventDropped()
		b.log.Debug("Side-effect event lost", "room_id", e.RoomID())
	}
}

func toFrame(message domain.Message) Frame {
	return Frame{
		Sender:  message.Sender,
		Content: message.Content,
		Seq:     message.Seq,
		At:      message.CreatedAt,
	}
}
