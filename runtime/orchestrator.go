// Package runtime hosts the broadcast engine: session lifecycle, room
// membership, fan-out, and the supervised side-effect workers around them.
// It orchestrates the system without containing HTTP or storage logic.
package runtime

import (
	"chat-relay/contract"
	"chat-relay/observability"
	"chat-relay/runtime/workers"
	"context"
	"log/slog"
	"time"
)

// Orchestrator wires the engine's background workers (event fanout to sinks,
// telemetry sampling) under a supervisor and manages their lifecycle.
type Orchestrator struct {
	log         *slog.Logger
	supervisor  contract.ISupervisor
	broadcaster *Broadcaster
	monitor     *observability.Monitor

	sinks          []contract.EventSink
	sinkTimeout    time.Duration
	metricInterval time.Duration
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	broadcaster *Broadcaster, monitor *observability.Monitor,
	sinkTimeout, metricInterval time.Duration) *Orchestrator {
	return &Orchestrator{
		log:            log,
		supervisor:     supervisor,
		broadcaster:    broadcaster,
		monitor:        monitor,
		sinkTimeout:    sinkTimeout,
		metricInterval: metricInterval,
	}
}

func (o *Orchestrator) Add(sinks ...contract.EventSink) {
	o.sinks = append(o.sinks, sinks...)
}

// Start registers the workers and runs the supervisor. It blocks until the
// context is canceled or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) {
	fanout := workers.NewEventFanout(o.log, o.broadcaster.Events(), o.sinkTimeout, o.sinks...)
	telemetry := workers.NewTelemetryWorker(o.log, o.monitor,
		o.broadcaster.registry.SessionCount, o.metricInterval)

	o.supervisor.Add(fanout, telemetry)

	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(ctx)
}

// Stop initiates a graceful shutdown of the supervised workers.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
