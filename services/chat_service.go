//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"chat-relay/domain"
	"chat-relay/runtime"
	"chat-relay/search"
	"context"
)

type IChatService interface {
	Attach(ctx context.Context, credential string, roomID domain.RoomID) (*runtime.Session, error)
	Send(ctx context.Context, session *runtime.Session, body string) error
	Detach(session *runtime.Session)
	History(roomID domain.RoomID, cursor *string, limit int) ([]domain.Message, *string, error)
	Search(ctx context.Context, query *search.Query) ([]search.Hit, error)
}

// ChatService is the thin facade the transport layer talks to. All broadcast
// semantics live in the engine; the service only adds the search index.
type ChatService struct {
	broadcaster *runtime.Broadcaster
	indexer     *search.Indexer
}

func NewChatService(broadcaster *runtime.Broadcaster, indexer *search.Indexer) *ChatService {
	return &ChatService{broadcaster: broadcaster, indexer: indexer}
}

func (s *ChatService) Attach(ctx context.Context, credential string, roomID domain.RoomID) (*runtime.Session, error) {
	return s.broadcaster.Attach(ctx, credential, roomID)
}

func (s *ChatService) Send(ctx context.Context, session *runtime.Session, body string) error {
	return s.broadcaster.Send(ctx, session, body)
}

func (s *ChatService) Detach(session *runtime.Session) {
	s.broadcaster.Detach(session)
}

func (s *ChatService) History(roomID domain.RoomID, cursor *string, limit int) ([]domain.Message, *string, error) {
	return s.broadcaster.History(roomID, cursor, limit)
}

func (s *ChatService) Search(ctx context.Context, query *search.Query) ([]search.Hit, error) {
	return s.indexer.Search(ctx, query.Terms, query.Room, query.Limit)
}
