package runtime

import (
	"chat-relay/domain"
	"sync"

	"github.com/google/uuid"
)

// Registry tracks which live sessions are attached to which rooms.
// Synchronization is scoped per room: joins, leaves, and snapshots in one
// room never contend with activity in another. Room shards are created on
// demand and kept for the process lifetime, since the core never deletes
// rooms; this also keeps the per-room broadcast mutex stable.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*roomShard
}

type roomShard struct {
	mu      sync.RWMutex
	members map[uuid.UUID]*Session

	// order serializes persist + fan-out + join for one room, which is what
	// makes per-room append order equal per-session delivery order.
	order sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[domain.RoomID]*roomShard)}
}

// shard returns the room's shard, creating it on first use.
func (r *Registry) shard(roomID domain.RoomID) *roomShard {
	r.mu.RLock()
	shard, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if ok {
		return shard
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if shard, ok = r.rooms[roomID]; ok {
		return shard
	}
	shard = &roomShard{members: make(map[uuid.UUID]*Session)}
	r.rooms[roomID] = shard
	return shard
}

// Join adds a session to the room's membership. Pure bookkeeping, never fails.
func (r *Registry) Join(roomID domain.RoomID, s *Session) {
	shard := r.shard(roomID)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	shard.members[s.ID] = s
}

// Leave removes a session from the room's membership. A no-op if the session
// is already absent, so concurrent failure paths can both invoke it.
func (r *Registry) Leave(roomID domain.RoomID, s *Session) {
	shard := r.shard(roomID)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	delete(shard.members, s.ID)
}

// MembersOf returns a point-in-time snapshot of the room's sessions.
// Iterating the snapshot never observes later joins or leaves and never
// blocks them.
func (r *Registry) MembersOf(roomID domain.RoomID) []*Session {
	return r.shard(roomID).snapshot()
}

func (s *roomShard) snapshot() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := make([]*Session, 0, len(s.members))
	for _, session := range s.members {
		members = append(members, session)
	}
	return members
}

// SessionCount reports the total number of registered sessions, for telemetry.
func (r *Registry) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, shard := range r.rooms {
		shard.mu.RLock()
		total += len(shard.members)
		shard.mu.RUnlock()
	}
	return total
}
