// Package observability aggregates engine counters for telemetry.
// Counters are atomic so the hot path never takes a lock to report.
package observability

import (
	"sync/atomic"
	"time"
)

// Stats is a point-in-time snapshot of the engine counters.
type Stats struct {
	ActiveSessions    int64     `json:"active_sessions"`
	MessagesBroadcast uint64    `json:"messages_broadcast"`
	FramesEnqueued    uint64    `json:"frames_enqueued"`
	DeliveryDrops     uint64    `json:"delivery_drops"`
	PersistenceErrors uint64    `json:"persistence_errors"`
	EventsDropped     uint64    `json:"events_dropped"`
	SampledAt         time.Time `json:"sampled_at"`
}

// Monitor collects counters from the broadcast engine.
type Monitor struct {
	activeSessions    atomic.Int64
	messagesBroadcast atomic.Uint64
	framesEnqueued    atomic.Uint64
	deliveryDrops     atomic.Uint64
	persistenceErrors atomic.Uint64
	eventsDropped     atomic.Uint64
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

func (m *Monitor) SessionOpened() {
	m.activeSessions.Add(1)
}

func (m *Monitor) SessionClosed() {
	m.activeSessions.Add(-1)
}

// MessageBroadcast records one successful persist + fan-out round and the
// number of queues the frame was handed to.
func (m *Monitor) MessageBroadcast(recipients int) {
	m.messagesBroadcast.Add(1)
	m.framesEnqueued.Add(uint64(recipients))
}

func (m *Monitor) DeliveryDropped() {
	m.deliveryDrops.Add(1)
}

func (m *Monitor) PersistenceFailed() {
	m.persistenceErrors.Add(1)
}

func (m *Monitor) EventDropped() {
	m.eventsDropped.Add(1)
}

func (m *Monitor) Snapshot() Stats {
	return Stats{
		ActiveSessions:    m.activeSessions.Load(),
		MessagesBroadcast: m.messagesBroadcast.Load(),
		FramesEnqueued:    m.framesEnqueued.Load(),
		DeliveryDrops:     m.deliveryDrops.Load(),
		PersistenceErrors: m.persistenceErrors.Load(),
		EventsDropped:     m.eventsDropped.Load(),
		SampledAt:         time.Now().UTC(),
	}
}
