package sink

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/search"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newTestSink(t *testing.T) (*SearchSink, *search.Indexer) {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelError)
	indexer := search.NewIndexer(writer, log)
	return NewSearchSink(indexer, log), indexer
}

func TestSearchSink_IndexesBroadcastMessages(t *testing.T) {
	req := require.New(t)
	sink, indexer := newTestSink(t)

	err := sink.Consume(context.Background(), event.MessageBroadcast{
		ID:      uuid.New(),
		Room:    domain.RoomID(1),
		Sender:  "alice",
		Content: "quarterly report attached",
		At:      time.Now().UTC(),
	})
	req.NoError(err)

	hits, err := indexer.Search(context.Background(), "quarterly", nil, 10)
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("alice", hits[0].Sender)
}

func TestSearchSink_IgnoresPresenceEvents(t *testing.T) {
	req := require.New(t)
	sink, _ := newTestSink(t)

	req.NoError(sink.Consume(context.Background(), event.ParticipantJoined{Room: 1, SenderID: "alice-id"}))
	req.NoError(sink.Consume(context.Background(), event.ParticipantLeft{Room: 1, SenderID: "alice-id"}))
}
