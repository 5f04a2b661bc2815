// Package domain contains core concepts of the chat system.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

type RoomID int

// Room is a named channel grouping participants and their message history.
// Rooms are created by an administrative action and never deleted by the
// broadcast core.
type Room struct {
	ID        RoomID
	Name      string
	CreatedBy string
	CreatedAt time.Time
}
