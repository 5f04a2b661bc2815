package event

import (
	"chat-relay/domain"
	"time"

	"github.com/google/uuid"
)

type DomainEvent interface {
	RoomID() domain.RoomID
}

// MessageBroadcast is emitted after a message has been durably appended and
// fanned out to the room. Side-effect consumers (search index, monitoring)
// observe it asynchronously; it is never on the delivery critical path.
type MessageBroadcast struct {
	ID       uuid.UUID
	Room     domain.RoomID
	SenderID string
	Sender   string
	Content  string
	Lang     string
	Seq      uint64
	At       time.Time
}

func (m MessageBroadcast) RoomID() domain.RoomID {
	return m.Room
}

type ParticipantJoined struct {
	Room     domain.RoomID
	SenderID string
	At       time.Time
}

func (p ParticipantJoined) RoomID() domain.RoomID {
	return p.Room
}

type ParticipantLeft struct {
	Room     domain.RoomID
	SenderID string
	At       time.Time
}

func (p ParticipantLeft) RoomID() domain.RoomID {
	return p.Room
}
