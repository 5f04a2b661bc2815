// Package search maintains a full-text index of broadcast messages.
// Indexing happens asynchronously through an event sink, so the index is
// eventually consistent with the message store and never on the delivery
// critical path.
package search

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/blugelabs/bluge"
)

// Hit is one search result.
type Hit struct {
	MessageID string    `json:"message_id"`
	Room      int       `json:"room"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	At        time.Time `json:"at"`
	Score     float64   `json:"score"`
}

type Indexer struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewIndexer(writer *bluge.Writer, log *slog.Logger) *Indexer {
	return &Indexer{writer: writer, log: log}
}

// IndexMessage upserts one broadcast message into the index, keyed by its
// message id so replays are idempotent.
func (ix *Indexer) IndexMessage(m event.MessageBroadcast) error {
	doc := bluge.NewDocument(m.ID.String()).
		AddField(bluge.NewTextField("content", m.Content).StoreValue()).
		AddField(bluge.NewKeywordField("room", strconv.Itoa(int(m.Room))).StoreValue()).
		AddField(bluge.NewKeywordField("sender", m.Sender).StoreValue()).
		AddField(bluge.NewKeywordField("lang", m.Lang)).
		AddField(bluge.NewStoredOnlyField("at", []byte(m.At.Format(time.RFC3339Nano))))

	return ix.writer.Update(doc.ID(), doc)
}

// Search runs a match query over message content, optionally restricted to
// one room, and returns the best hits by score.
func (ix *Indexer) Search(ctx context.Context, terms string, room *domain.RoomID, limit int) ([]Hit, error) {
	reader, err := ix.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			ix.log.Warn("Failed to close index reader", "error", err)
		}
	}()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(terms).SetField("content"))
	if room != nil {
		query.AddMust(bluge.NewTermQuery(strconv.Itoa(int(*room))).SetField("room"))
	}

	request := bluge.NewTopNSearch(limit, query)
	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}

		hit := Hit{Score: match.Score}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID = string(value)
			case "room":
				hit.Room, _ = strconv.Atoi(string(value))
			case "sender":
				hit.Sender = string(value)
			case "content":
				hit.Content = string(value)
			case "at":
				hit.At, _ = time.Parse(time.RFC3339Nano, string(value))
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
