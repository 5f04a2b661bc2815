package workers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"chat-relay/observability"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestTelemetryWorker_SamplesRegistrySessionCount(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelError)
	monitor := observability.NewMonitor()

	sampled := make(chan struct{}, 4)
	worker := NewTelemetryWorker(log, monitor, func() int {
		select {
		case sampled <- struct{}{}:
		default:
		}
		return 3
	}, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	// Then each tick consults the registry gauge
	select {
	case <-sampled:
	case <-time.After(time.Second):
		t.Fatal("session count was never sampled")
	}

	cancel()
	select {
	case err := <-done:
		req.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on cancel")
	}
}
