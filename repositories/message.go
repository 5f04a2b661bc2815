//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"chat-relay/domain"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// seqBandwidth is how many sequence numbers Badger leases per disk write.
const seqBandwidth = 64

type IMessageRepository interface {
	Append(message domain.Message) (domain.Message, error)
	RecentMessages(room domain.RoomID, limit int) ([]domain.Message, error)
	ListMessages(room domain.RoomID, cursor *string, limit int) ([]domain.Message, *string, error)
	MessagesPerRoom(start, end *time.Time) (map[domain.RoomID]int, error)
	UserActivity(start, end *time.Time) (map[string]int, error)
	Close() error
}

type MessageRepository struct {
	db   *badger.DB
	log  *slog.Logger
	mu   sync.Mutex
	seqs map[domain.RoomID]*badger.Sequence
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, log: log, seqs: make(map[domain.RoomID]*badger.Sequence)}
}

// storedMessage is the on-disk representation, encoded with jsoniter.
type storedMessage struct {
	ID       string    `json:"id"`
	Room     int       `json:"room"`
	SenderID string    `json:"sender_id"`
	Sender   string    `json:"sender"`
	Content  string    `json:"content"`
	Seq      uint64    `json:"seq"`
	At       time.Time `json:"at"`
}

// nextSeq returns the strictly increasing per-room order.
// Badger sequences are monotonic across restarts, which is what gives the
// append operation its order-assignment guarantee.
func (m *MessageRepository) nextSeq(room domain.RoomID) (uint64, error) {
	m.mu.Lock()
	seq, ok := m.seqs[room]
	if !ok {
		var err error
		seq, err = m.db.GetSequence([]byte(fmt.Sprintf("seq:msg:%d", room)), seqBandwidth)
		if err != nil {
			m.mu.Unlock()
			return 0, err
		}
		m.seqs[room] = seq
	}
	m.mu.Unlock()
	return seq.Next()
}

// Append persists a message and assigns its per-room order.
// The key is formatted as "msg:{room}:{seq_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Keep the UUID as a stable identifier independent of the order.
func (m *MessageRepository) Append(message domain.Message) (domain.Message, error) {
	seq, err := m.nextSeq(message.Room)
	if err != nil {
		return domain.Message{}, err
	}

	message.ID = uuid.New()
	message.Seq = seq
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	key := fmt.Sprintf("msg:%d:%019d:%s", message.Room, message.Seq, message.ID)
	bytes, err := json.Marshal(fromMessage(message))
	if err != nil {
		return domain.Message{}, err
	}

	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// RecentMessages returns the limit most recent messages of a room, oldest
// first. It walks the room prefix in reverse and flips the result, so the
// caller receives a ready-to-replay chronological batch.
func (m *MessageRepository) RecentMessages(room domain.RoomID, limit int) ([]domain.Message, error) {
	messages, _, err := m.ListMessages(room, nil, limit)
	return messages, err
}

// ListMessages retrieves messages for a room using a reverse prefix scan with
// cursor pagination. The returned cursor is the key suffix of the oldest
// message in the batch; passing it back resumes the walk further into the
// past. Messages inside a batch are ordered oldest first.
func (m *MessageRepository) ListMessages(room domain.RoomID, cursor *string, limit int) ([]domain.Message, *string, error) {
	var rawValues [][]byte
	var lastKey string

	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%d:", room)
		prefix := []byte(prefixStr)

		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible key, then walk backwards.
			seekKey = append(prefix, []byte("9999999999999999999:")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		// Skip the cursor entry itself when resuming.
		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(rawValues) == limit {
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefixStr):])
			if err := item.Value(func(value []byte) error {
				rawValues = append(rawValues, append([]byte(nil), value...))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if len(rawValues) == 0 {
		return nil, nil, nil
	}

	// Reverse scan yields newest first; flip to chronological order.
	messages := make([]domain.Message, 0, len(rawValues))
	for i := len(rawValues) - 1; i >= 0; i-- {
		var stored storedMessage
		if err = json.Unmarshal(rawValues[i], &stored); err != nil {
			return nil, nil, err
		}
		message, err := toMessage(stored)
		if err != nil {
			return nil, nil, err
		}
		messages = append(messages, message)
	}
	return messages, &lastKey, nil
}

// MessagesPerRoom counts persisted messages grouped by room, optionally
// bounded by an inclusive [start, end] creation window.
func (m *MessageRepository) MessagesPerRoom(start, end *time.Time) (map[domain.RoomID]int, error) {
	counts := make(map[domain.RoomID]int)
	err := m.scanAll(start, end, func(stored storedMessage) {
		counts[domain.RoomID(stored.Room)]++
	})
	return counts, err
}

// UserActivity counts persisted messages grouped by sender username.
func (m *MessageRepository) UserActivity(start, end *time.Time) (map[string]int, error) {
	counts := make(map[string]int)
	err := m.scanAll(start, end, func(stored storedMessage) {
		counts[stored.Sender]++
	})
	return counts, err
}

func (m *MessageRepository) scanAll(start, end *time.Time, visit func(storedMessage)) error {
	return m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("msg:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var stored storedMessage
				if err := json.Unmarshal(value, &stored); err != nil {
					return err
				}
				if start != nil && stored.At.Before(*start) {
					return nil
				}
				if end != nil && stored.At.After(*end) {
					return nil
				}
				visit(stored)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Close releases the leased sequence ranges so unused numbers are not burned
// on a clean shutdown.
func (m *MessageRepository) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, seq := range m.seqs {
		if err := seq.Release(); err != nil {
			m.log.Warn("Failed to release sequence", "error", err)
		}
	}
	m.seqs = make(map[domain.RoomID]*badger.Sequence)
	return nil
}

func fromMessage(message domain.Message) storedMessage {
	return storedMessage{
		ID:       message.ID.String(),
		Room:     int(message.Room),
		SenderID: message.SenderID,
		Sender:   message.Sender,
		Content:  message.Content,
		Seq:      message.Seq,
		At:       message.CreatedAt,
	}
}

func toMessage(stored storedMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(stored.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:        parsedID,
		Room:      domain.RoomID(stored.Room),
		SenderID:  stored.SenderID,
		Sender:    stored.Sender,
		Content:   stored.Content,
		Seq:       stored.Seq,
		CreatedAt: stored.At.UTC(),
	}, nil
}
