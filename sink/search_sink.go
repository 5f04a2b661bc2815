// Package sink contains EventSink implementations fed by the fanout worker.
package sink

import (
	"chat-relay/contract"
	"chat-relay/domain/event"
	"chat-relay/search"
	"context"
	"log/slog"
)

var _ contract.EventSink = (*SearchSink)(nil)

// SearchSink feeds broadcast messages into the full-text index.
type SearchSink struct {
	indexer *search.Indexer
	log     *slog.Logger
}

func NewSearchSink(indexer *search.Indexer, log *slog.Logger) *SearchSink {
	return &SearchSink{indexer: indexer, log: log}
}

func (s *SearchSink) Consume(_ context.Context, e event.DomainEvent) error {
	broadcast, ok := e.(event.MessageBroadcast)
	if !ok {
		return nil
	}
	return s.indexer.IndexMessage(broadcast)
}
