// Package domain contains core concepts of the chat system.
// This file defines Message and related rules.
// Messages are immutable once persisted.
package domain

import (
	"github.com/google/uuid"
	"time"
)

// Message represents an immutable chat event.
// Seq is the strictly increasing per-room order assigned by the message store
// at append time; it is the single source of truth for message order inside a
// room.
type Message struct {
	ID        uuid.UUID
	Room      RoomID
	SenderID  string
	Sender    string
	Content   string
	Seq       uint64
	CreatedAt time.Time
}
