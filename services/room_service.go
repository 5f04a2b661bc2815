//go:generate go run go.uber.org/mock/mockgen -source=room_service.go -destination=../mocks/mock_room_service.go -package=mocks
package services

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/repositories"
	"strings"
)

type IRoomService interface {
	CreateRoom(actor domain.Identity, name string) (domain.Room, error)
	ListRooms() ([]domain.Room, error)
	GetRoom(id domain.RoomID) (domain.Room, error)
}

type RoomService struct {
	roomRepository repositories.IRoomRepository
}

func NewRoomService(repo repositories.IRoomRepository) *RoomService {
	return &RoomService{roomRepository: repo}
}

// CreateRoom creates a chat room. Admin only; the name must be unique.
func (s *RoomService) CreateRoom(actor domain.Identity, name string) (domain.Room, error) {
	if !actor.IsAdmin() {
		return domain.Room{}, errors.ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Room{}, errors.ErrInvalidRoomName
	}
	return s.roomRepository.CreateRoom(name, actor.Username)
}

func (s *RoomService) ListRooms() ([]domain.Room, error) {
	return s.roomRepository.ListRooms()
}

func (s *RoomService) GetRoom(id domain.RoomID) (domain.Room, error) {
	return s.roomRepository.GetRoom(id)
}
