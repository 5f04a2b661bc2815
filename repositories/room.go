//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type IRoomRepository interface {
	CreateRoom(name, createdBy string) (domain.Room, error)
	GetRoom(id domain.RoomID) (domain.Room, error)
	ListRooms() ([]domain.Room, error)
	Close() error
}

type RoomRepository struct {
	db *badger.DB

	mu  sync.Mutex
	seq *badger.Sequence
}

func NewRoomRepository(db *badger.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

type storedRoom struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// nextID returns the next room id. The sequence is leased once and held for
// the repository's lifetime; Close releases it. Bandwidth 1 keeps restarts
// from burning ids, room creation is rare enough for the extra disk write.
func (r *RoomRepository) nextID() (int, error) {
	r.mu.Lock()
	if r.seq == nil {
		seq, err := r.db.GetSequence([]byte("seq:room"), 1)
		if err != nil {
			r.mu.Unlock()
			return 0, err
		}
		r.seq = seq
	}
	seq := r.seq
	r.mu.Unlock()

	next, err := seq.Next()
	if err != nil {
		return 0, err
	}
	// Room ids start at 1 to keep 0 as the zero value.
	return int(next) + 1, nil
}

// CreateRoom persists a room with a unique name. A secondary "roomname:" key
// acts as the uniqueness index; both writes share one transaction. Two racing
// creates of the same name conflict on the index key; re-running the
// transaction lets the loser observe the winner's entry and report the
// duplicate instead of the raw conflict.
func (r *RoomRepository) CreateRoom(name, createdBy string) (domain.Room, error) {
	id, err := r.nextID()
	if err != nil {
		return domain.Room{}, err
	}

	room := storedRoom{
		ID:        id,
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(room)
	if err != nil {
		return domain.Room{}, err
	}

	for {
		err = r.db.Update(func(txn *badger.Txn) error {
			nameKey := []byte("roomname:" + name)
			if _, err := txn.Get(nameKey); err == nil {
				return errors.ErrRoomAlreadyExists
			}
			if err := txn.Set(nameKey, []byte(strconv.Itoa(room.ID))); err != nil {
				return err
			}
			return txn.Set([]byte(fmt.Sprintf("room:%019d", room.ID)), data)
		})
		if err != badger.ErrConflict {
			break
		}
	}
	if err != nil {
		return domain.Room{}, err
	}
	return toRoom(room), nil
}

func (r *RoomRepository) GetRoom(id domain.RoomID) (domain.Room, error) {
	var stored storedRoom

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(fmt.Sprintf("room:%019d", id)))
		if err != nil {
			return errors.ErrRoomNotFound
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err != nil {
		return domain.Room{}, err
	}
	return toRoom(stored), nil
}

func (r *RoomRepository) ListRooms() ([]domain.Room, error) {
	var rooms []domain.Room

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("room:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var stored storedRoom
				if err := json.Unmarshal(val, &stored); err != nil {
					return err
				}
				rooms = append(rooms, toRoom(stored))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return rooms, err
}

// Close releases the leased id range so unused room ids are not burned on a
// clean shutdown.
func (r *RoomRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seq == nil {
		return nil
	}
	err := r.seq.Release()
	r.seq = nil
	return err
}

func toRoom(stored storedRoom) domain.Room {
	return domain.Room{
		ID:        domain.RoomID(stored.ID),
		Name:      stored.Name,
		CreatedBy: stored.CreatedBy,
		CreatedAt: stored.CreatedAt.UTC(),
	}
}
