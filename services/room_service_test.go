package services_test

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/services"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	adminIdentity = domain.Identity{UserID: "admin-id", Username: "admin", Role: domain.RoleAdmin}
	userIdentity  = domain.Identity{UserID: "alice-id", Username: "alice", Role: domain.RoleUser}
)

func newRoomFixture(t *testing.T) (*services.RoomService, *mocks.MockIRoomRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	rooms := mocks.NewMockIRoomRepository(ctrl)
	return services.NewRoomService(rooms), rooms
}

func TestRoomService_CreateRoom_AdminSucceeds(t *testing.T) {
	req := require.New(t)
	service, rooms := newRoomFixture(t)

	rooms.EXPECT().
		CreateRoom("general", "admin").
		Return(domain.Room{ID: 1, Name: "general", CreatedBy: "admin"}, nil)

	room, err := service.CreateRoom(adminIdentity, "general")

	req.NoError(err)
	req.Equal(domain.RoomID(1), room.ID)
}

func TestRoomService_CreateRoom_TrimsName(t *testing.T) {
	req := require.New(t)
	service, rooms := newRoomFixture(t)

	rooms.EXPECT().
		CreateRoom("general", "admin").
		Return(domain.Room{ID: 1, Name: "general"}, nil)

	_, err := service.CreateRoom(adminIdentity, "  general  ")

	req.NoError(err)
}

func TestRoomService_CreateRoom_NonAdminForbidden(t *testing.T) {
	req := require.New(t)
	service, _ := newRoomFixture(t)

	_, err := service.CreateRoom(userIdentity, "general")

	req.ErrorIs(err, errors.ErrForbidden)
}

func TestRoomService_CreateRoom_RejectsBlankName(t *testing.T) {
	req := require.New(t)
	service, _ := newRoomFixture(t)

	_, err := service.CreateRoom(adminIdentity, "   ")

	req.ErrorIs(err, errors.ErrInvalidRoomName)
}

func TestRoomService_CreateRoom_PropagatesDuplicate(t *testing.T) {
	req := require.New(t)
	service, rooms := newRoomFixture(t)

	rooms.EXPECT().
		CreateRoom("general", "admin").
		Return(domain.Room{}, errors.ErrRoomAlreadyExists)

	_, err := service.CreateRoom(adminIdentity, "general")

	req.ErrorIs(err, errors.ErrRoomAlreadyExists)
}

func TestRoomService_ListRooms(t *testing.T) {
	req := require.New(t)
	service, rooms := newRoomFixture(t)

	rooms.EXPECT().
		ListRooms().
		Return([]domain.Room{{ID: 1, Name: "general"}, {ID: 2, Name: "random"}}, nil)

	listed, err := service.ListRooms()

	req.NoError(err)
	req.Len(listed, 2)
}
