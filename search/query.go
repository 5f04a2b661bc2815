package search

import (
	"chat-relay/domain"
	"strconv"
	"strings"
)

const defaultLimit = 10

// Query represents the structured parameters of a message search.
// It decouples the raw user input from the index engine requirements.
type Query struct {
	RawInput string
	Terms    string
	Room     *domain.RoomID
	Limit    int
}

// NewSearchQuery parses a raw string to extract command-line style arguments.
// Example: invoice overdue --room 12 --limit 5
func NewSearchQuery(input string) *Query {
	query := &Query{
		RawInput: input,
		Limit:    defaultLimit,
	}

	parts := strings.Fields(input)
	var textTerms []string

	for i := 0; i < len(parts); i++ {
		part := parts[i]

		if strings.HasPrefix(part, "--") && i+1 < len(parts) {
			key := strings.TrimPrefix(part, "--")
			val := parts[i+1]

			switch key {
			case "room":
				if id, err := strconv.Atoi(val); err == nil {
					roomID := domain.RoomID(id)
					query.Room = &roomID
				}
			case "limit":
				if limit, err := strconv.Atoi(val); err == nil && limit > 0 {
					query.Limit = limit
				}
			}
			i++ // Skip the value part in the next iteration.
			continue
		}

		textTerms = append(textTerms, part)
	}

	query.Terms = strings.Join(textTerms, " ")
	return query
}
