package errors

import "fmt"

var (
	// Attach path.
	ErrInvalidToken = fmt.Errorf("invalid or expired token")
	ErrRoomNotFound = fmt.Errorf("room not found")

	// Send path.
	ErrInvalidState = fmt.Errorf("session is not active")
	ErrPersistence  = fmt.Errorf("message persistence failed")

	// Delivery path. Isolated per recipient, never surfaced to the sender.
	ErrQueueFull     = fmt.Errorf("outbound queue full")
	ErrSessionClosed = fmt.Errorf("session closed")

	// Account management.
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity rules")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrRoomAlreadyExists  = fmt.Errorf("room with this name already exists")
	ErrInvalidRoomName    = fmt.Errorf("room name must not be empty")
	ErrForbidden          = fmt.Errorf("insufficient role")

	// Runtime.
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")
)
