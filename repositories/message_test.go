package repositories

import (
	"chat-relay/domain"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestMessageRepository(t *testing.T) *MessageRepository {
	t.Helper()
	repo := NewMessageRepository(newTestDB(t), logs.GetLoggerFromLevel(slog.LevelError))
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func appendN(t *testing.T, repo *MessageRepository, room domain.RoomID, sender string, n int) []domain.Message {
	t.Helper()
	req := require.New(t)
	stored := make([]domain.Message, 0, n)
	for i := 0; i < n; i++ {
		message, err := repo.Append(domain.Message{
			Room:     room,
			SenderID: sender + "-id",
			Sender:   sender,
			Content:  fmt.Sprintf("%s-%d", sender, i),
		})
		req.NoError(err)
		stored = append(stored, message)
	}
	return stored
}

func TestMessageRepository_Append_AssignsIdentityAndOrder(t *testing.T) {
	req := require.New(t)
	repo := newTestMessageRepository(t)

	first, err := repo.Append(domain.Message{Room: 1, Sender: "alice", Content: "hello"})
	req.NoError(err)
	second, err := repo.Append(domain.Message{Room: 1, Sender: "alice", Content: "again"})
	req.NoError(err)

	req.NotEqual(first.ID, second.ID)
	req.Greater(second.Seq, first.Seq)
	req.False(first.CreatedAt.IsZero())
}

func TestMessageRepository_Append_SequencesAreScopedPerRoom(t *testing.T) {
	req := require.New(t)
	repo := newTestMessageRepository(t)

	room1 := appendN(t, repo, domain.RoomID(1), "alice", 3)
	room2 := appendN(t, repo, domain.RoomID(2), "bob", 3)

	// Per-room order restarts for each room and stays strictly increasing
	for i := 1; i < 3; i++ {
		req.Greater(room1[i].Seq, room1[i-1].Seq)
		req.Greater(room2[i].Seq, room2[i-1].Seq)
	}
	req.Equal(room1[0].Seq, room2[0].Seq)
}

func TestMessageRepository_RecentMessages_ReturnsLatestOldestFirst(t *testing.T) {
	req := require.New(t)
	repo := newTestMessageRepository(t)
	room := domain.RoomID(1)

	appendN(t, repo, room, "alice", 30)

	recent, err := repo.RecentMessages(room, 20)

	req.NoError(err)
	req.Len(recent, 20)
	// The 20 most recent of 30 are alice-10 .. alice-29, oldest first
	req.Equal("alice-10", recent[0].Content)
	req.Equal("alice-29", recent[19].Content)
	for i := 1; i < len(recent); i++ {
		req.Greater(recent[i].Seq, recent[i-1].Seq)
	}
}

func TestMessageRepository_RecentMessages_ShortRoomReturnsEverything(t *testing.T) {
	req := require.New(t)
	repo := newTestMessageRepository(t)
	room := domain.RoomID(1)

	appendN(t, repo, room, "alice", 5)

	recent, err := repo.RecentMessages(room, 20)

	req.NoError(err)
	req.Len(recent, 5)
	req.Equal("alice-0", recent[0].Content)
}

func TestMessageRepository_RecentMessages_EmptyRoom(t *testing.T) {
	req := require.New(t)
	repo := newTestMessageRepository(t)

	recent, err := repo.RecentMessages(domain.RoomID(99), 20)

	req.NoError(err)
	req.Empty(recent)
}

func TestMessageRepository_ListMessages_CursorWalksIntoThePast(t *testing.T) {
	req := require.New(t)
	repo := newTestMessageRepository(t)
	room := domain.RoomID(1)

	appendN(t, repo, room, "alice", 25)

	// First page: the 10 newest
	page1, cursor, err := repo.ListMessages(room, nil, 10)
	req.NoError(err)
	req.Len(page1, 10)
	req.NotNil(cursor)
	req.Equal("alice-15", page1[0].Content)
	req.Equal("alice-24", page1[9].Content)

	// Second page resumes strictly before the first
	page2, cursor, err := repo.ListMessages(room, cursor, 10)
	req.NoError(err)
	req.Len(page2, 10)
	req.Equal("alice-5", page2[0].Content)
	req.Equal("alice-14", page2[9].Content)

	// Final page holds the remainder
	page3, _, err := repo.ListMessages(room, cursor, 10)
	req.NoError(err)
	req.Len(page3, 5)
	req.Equal("alice-0", page3[0].Content)
}

func TestMessageRepository_ListMessages_DoesNotLeakAcrossRooms(t *testing.T) {
	req := require.New(t)
	repo := newTestMessageRepository(t)

	appendN(t, repo, domain.RoomID(1), "alice", 3)
	appendN(t, repo, domain.RoomID(11), "bob", 3)

	messages, _, err := repo.ListMessages(domain.RoomID(1), nil, 50)

	req.NoError(err)
	req.Len(messages, 3)
	for _, message := range messages {
		req.Equal(domain.RoomID(1), message.Room)
		req.Equal("alice", message.Sender)
	}
}

func TestMessageRepository_MessagesPerRoom_CountsAndFilters(t *testing.T) {
	req := require.New(t)
	repo := newTestMessageRepository(t)

	appendN(t, repo, domain.RoomID(1), "alice", 4)
	appendN(t, repo, domain.RoomID(2), "bob", 2)

	counts, err := repo.MessagesPerRoom(nil, nil)
	req.NoError(err)
	req.Equal(4, counts[domain.RoomID(1)])
	req.Equal(2, counts[domain.RoomID(2)])

	// A window entirely in the past matches nothing
	past := time.Now().UTC().Add(-48 * time.Hour)
	pastEnd := past.Add(time.Hour)
	counts, err = repo.MessagesPerRoom(&past, &pastEnd)
	req.NoError(err)
	req.Empty(counts)
}

func TestMessageRepository_UserActivity_GroupsBySender(t *testing.T) {
	req := require.New(t)
	repo := newTestMessageRepository(t)

	appendN(t, repo, domain.RoomID(1), "alice", 3)
	appendN(t, repo, domain.RoomID(2), "alice", 2)
	appendN(t, repo, domain.RoomID(1), "bob", 1)

	counts, err := repo.UserActivity(nil, nil)

	req.NoError(err)
	req.Equal(5, counts["alice"])
	req.Equal(1, counts["bob"])
}
