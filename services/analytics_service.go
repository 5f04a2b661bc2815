//go:generate go run go.uber.org/mock/mockgen -source=analytics_service.go -destination=../mocks/mock_analytics_service.go -package=mocks
package services

import (
	"chat-relay/repositories"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"time"

	"chat-relay/domain"

	"github.com/samber/lo"
)

type RoomCount struct {
	Room         string `json:"room"`
	MessageCount int    `json:"message_count"`
}

type UserCount struct {
	Username     string `json:"username"`
	MessagesSent int    `json:"messages_sent"`
}

type IAnalyticsService interface {
	MessagesPerRoom(start, end *time.Time) ([]RoomCount, error)
	UserActivity(start, end *time.Time) ([]UserCount, error)
	WriteMessagesPerRoomCSV(w io.Writer, start, end *time.Time) error
}

// AnalyticsService aggregates message counts for operators. Counts are
// computed from the message log on demand; deployments are small enough that
// a full prefix scan beats maintaining separate counters.
type AnalyticsService struct {
	messages repositories.IMessageRepository
	rooms    repositories.IRoomRepository
}

func NewAnalyticsService(messages repositories.IMessageRepository,
	rooms repositories.IRoomRepository) *AnalyticsService {
	return &AnalyticsService{messages: messages, rooms: rooms}
}

// MessagesPerRoom returns message counts by room name, optionally bounded by
// an inclusive creation window, sorted by descending count.
func (s *AnalyticsService) MessagesPerRoom(start, end *time.Time) ([]RoomCount, error) {
	counts, err := s.messages.MessagesPerRoom(start, end)
	if err != nil {
		return nil, err
	}

	rooms, err := s.rooms.ListRooms()
	if err != nil {
		return nil, err
	}
	names := lo.SliceToMap(rooms, func(room domain.Room) (domain.RoomID, string) {
		return room.ID, room.Name
	})

	results := make([]RoomCount, 0, len(counts))
	for roomID, count := range counts {
		name, ok := names[roomID]
		if !ok {
			// Messages of a room unknown to the registry still count.
			name = strconv.Itoa(int(roomID))
		}
		results = append(results, RoomCount{Room: name, MessageCount: count})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].MessageCount != results[j].MessageCount {
			return results[i].MessageCount > results[j].MessageCount
		}
		return results[i].Room < results[j].Room
	})
	return results, nil
}

// UserActivity returns per-user sent-message counts sorted by descending
// count.
func (s *AnalyticsService) UserActivity(start, end *time.Time) ([]UserCount, error) {
	counts, err := s.messages.UserActivity(start, end)
	if err != nil {
		return nil, err
	}

	results := make([]UserCount, 0, len(counts))
	for username, count := range counts {
		results = append(results, UserCount{Username: username, MessagesSent: count})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].MessagesSent != results[j].MessagesSent {
			return results[i].MessagesSent > results[j].MessagesSent
		}
		return results[i].Username < results[j].Username
	})
	return results, nil
}

// WriteMessagesPerRoomCSV streams the messages-per-room report as CSV.
func (s *AnalyticsService) WriteMessagesPerRoomCSV(w io.Writer, start, end *time.Time) error {
	results, err := s.MessagesPerRoom(start, end)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Room", "Message Count"}); err != nil {
		return err
	}
	for _, row := range results {
		if err := writer.Write([]string{row.Room, strconv.Itoa(row.MessageCount)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
