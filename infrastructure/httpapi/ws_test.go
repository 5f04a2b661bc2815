package httpapi

import (
	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/moderation"
	"chat-relay/observability"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/search"
	"chat-relay/services"
	"log/slog"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type wsFixture struct {
	server    *httptest.Server
	authority *auth.Authority
	rooms     *repositories.RoomRepository
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelError)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	req.NoError(err)
	t.Cleanup(func() { _ = blugeWriter.Close() })

	messageRepository := repositories.NewMessageRepository(db, log)
	t.Cleanup(func() { _ = messageRepository.Close() })
	userRepository := repositories.NewUserRepository(db)
	roomRepository := repositories.NewRoomRepository(db)

	authority := auth.NewAuthority("ws-test-secret", time.Hour)
	moderator, err := moderation.NewModerator([]string{"badword"}, '*')
	req.NoError(err)

	monitor := observability.NewMonitor()
	broadcaster := runtime.NewBroadcaster(
		log, authority, roomRepository, messageRepository,
		runtime.NewRegistry(), monitor, moderator,
		20, 64, 128, time.Second,
	)

	server := NewServer(
		log,
		services.NewAuthService(userRepository, authority),
		services.NewRoomService(roomRepository),
		services.NewChatService(broadcaster, search.NewIndexer(blugeWriter, log)),
		services.NewAnalyticsService(messageRepository, roomRepository),
		authority, monitor, 4096,
	)

	ts := httptest.NewServer(server.echo)
	t.Cleanup(ts.Close)
	return &wsFixture{server: ts, authority: authority, rooms: roomRepository}
}

func (f *wsFixture) wsURL(t *testing.T, room domain.RoomID, token string) string {
	t.Helper()
	base := "ws" + strings.TrimPrefix(f.server.URL, "http")
	return base + "/ws/" + strconv.Itoa(int(room)) + "?token=" + token
}

func (f *wsFixture) token(t *testing.T, name string) string {
	t.Helper()
	token, err := f.authority.Issue(domain.Identity{
		UserID:   name + "-id",
		Username: name,
		Role:     domain.RoleUser,
	})
	require.NoError(t, err)
	return token
}

func (f *wsFixture) dial(t *testing.T, room domain.RoomID, token string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL(t, room, token), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) wireFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame wireFrame
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

// wireFrame mirrors the outbound wire format for assertions.
type wireFrame struct {
	Sender string `json:"sender"`
	Body   string `json:"body"`
	Seq    uint64 `json:"seq"`
}

func TestWebSocket_BroadcastReachesAllParticipants(t *testing.T) {
	req := require.New(t)
	f := newWSFixture(t)
	room, err := f.rooms.CreateRoom("general", "admin")
	req.NoError(err)

	alice := f.dial(t, room.ID, f.token(t, "alice"))
	bob := f.dial(t, room.ID, f.token(t, "bob"))

	// When alice sends a message
	req.NoError(alice.WriteJSON(map[string]string{"body": "hello room"}))

	// Then both alice and bob receive it
	for _, conn := range []*websocket.Conn{alice, bob} {
		frame := readFrame(t, conn)
		req.Equal("alice", frame.Sender)
		req.Equal("hello room", frame.Body)
	}
}

func TestWebSocket_LateJoinerReceivesHistoryFirst(t *testing.T) {
	req := require.New(t)
	f := newWSFixture(t)
	room, err := f.rooms.CreateRoom("general", "admin")
	req.NoError(err)

	alice := f.dial(t, room.ID, f.token(t, "alice"))
	req.NoError(alice.WriteJSON(map[string]string{"body": "first"}))
	req.NoError(alice.WriteJSON(map[string]string{"body": "second"}))
	readFrame(t, alice)
	readFrame(t, alice)

	// When bob joins after two messages exist
	bob := f.dial(t, room.ID, f.token(t, "bob"))

	// Then bob replays them in order before anything live
	req.Equal("first", readFrame(t, bob).Body)
	req.Equal("second", readFrame(t, bob).Body)

	req.NoError(alice.WriteJSON(map[string]string{"body": "live"}))
	req.Equal("live", readFrame(t, bob).Body)
}

func TestWebSocket_InvalidTokenClosedWithPolicyViolation(t *testing.T) {
	req := require.New(t)
	f := newWSFixture(t)
	room, err := f.rooms.CreateRoom("general", "admin")
	req.NoError(err)

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL(t, room.ID, "forged"), nil)
	req.NoError(err)
	defer conn.Close()

	req.NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, _, err = conn.ReadMessage()

	var closeErr *websocket.CloseError
	req.ErrorAs(err, &closeErr)
	req.Equal(websocket.ClosePolicyViolation, closeErr.Code)
}

func TestWebSocket_UnknownRoomClosedWithPolicyViolation(t *testing.T) {
	req := require.New(t)
	f := newWSFixture(t)

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL(t, domain.RoomID(404), f.token(t, "alice")), nil)
	req.NoError(err)
	defer conn.Close()

	req.NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, _, err = conn.ReadMessage()

	var closeErr *websocket.CloseError
	req.ErrorAs(err, &closeErr)
	req.Equal(websocket.ClosePolicyViolation, closeErr.Code)
}

func TestWebSocket_ForbiddenWordsAreCensoredForEveryone(t *testing.T) {
	req := require.New(t)
	f := newWSFixture(t)
	room, err := f.rooms.CreateRoom("general", "admin")
	req.NoError(err)

	alice := f.dial(t, room.ID, f.token(t, "alice"))
	bob := f.dial(t, room.ID, f.token(t, "bob"))

	req.NoError(alice.WriteJSON(map[string]string{"body": "what a badword day"}))

	// Sender and recipient both see the censored form
	req.Equal("what a ******* day", readFrame(t, alice).Body)
	req.Equal("what a ******* day", readFrame(t, bob).Body)
}

func TestWebSocket_DisconnectLeavesRoomWorking(t *testing.T) {
	req := require.New(t)
	f := newWSFixture(t)
	room, err := f.rooms.CreateRoom("general", "admin")
	req.NoError(err)

	alice := f.dial(t, room.ID, f.token(t, "alice"))
	bob := f.dial(t, room.ID, f.token(t, "bob"))

	// When bob disconnects abruptly
	req.NoError(bob.Close())
	time.Sleep(100 * time.Millisecond)

	// Then alice can still send and receive
	req.NoError(alice.WriteJSON(map[string]string{"body": "still alive"}))
	req.Equal("still alive", readFrame(t, alice).Body)
}
