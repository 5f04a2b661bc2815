package workers

import (
	"chat-relay/contract"
	"chat-relay/observability"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

var _ contract.Worker = (*TelemetryWorker)(nil)

// TelemetryWorker periodically logs engine counters together with process
// self-stats (RSS, CPU). Sampling reads atomic counters and is non-blocking,
// so it never interferes with the delivery path.
//
// sessionCount reads the registry's membership directly, cross-checking the
// monitor's open/close counter against the source of truth.
type TelemetryWorker struct {
	log            *slog.Logger
	monitor        *observability.Monitor
	sessionCount   func() int
	metricInterval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, monitor *observability.Monitor,
	sessionCount func() int, metricInterval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{
		log:            log,
		monitor:        monitor,
		sessionCount:   sessionCount,
		metricInterval: metricInterval,
	}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			stats := w.monitor.Snapshot()

			rss, cpu := selfStats(proc)
			w.log.Info("telemetry: engine stats",
				"active_sessions", stats.ActiveSessions,
				"registered_sessions", w.sessionCount(),
				"messages_broadcast", stats.MessagesBroadcast,
				"frames_enqueued", stats.FramesEnqueued,
				"delivery_drops", stats.DeliveryDrops,
				"persistence_errors", stats.PersistenceErrors,
				"events_dropped", stats.EventsDropped,
				"rss_bytes", rss,
				"cpu_percent", cpu,
			)
		}
	}
}

// selfStats retrieves memory and CPU usage of this process. Telemetry is
// best-effort: on error it reports zeros rather than failing the worker.
func selfStats(p *process.Process) (uint64, float64) {
	var rss uint64
	if memInfo, err := p.MemoryInfo(); err == nil {
		rss = memInfo.RSS
	}
	cpu, _ := p.CPUPercent()
	return rss, cpu
}
