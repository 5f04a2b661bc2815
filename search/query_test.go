package search

import (
	"chat-relay/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSearchQuery_PlainTerms(t *testing.T) {
	req := require.New(t)

	query := NewSearchQuery("invoice overdue")

	req.Equal("invoice overdue", query.Terms)
	req.Nil(query.Room)
	req.Equal(defaultLimit, query.Limit)
}

func TestNewSearchQuery_WithRoomAndLimit(t *testing.T) {
	req := require.New(t)

	query := NewSearchQuery("invoice overdue --room 12 --limit 5")

	req.Equal("invoice overdue", query.Terms)
	req.NotNil(query.Room)
	req.Equal(domain.RoomID(12), *query.Room)
	req.Equal(5, query.Limit)
}

func TestNewSearchQuery_IgnoresInvalidFlagValues(t *testing.T) {
	req := require.New(t)

	query := NewSearchQuery("hello --room abc --limit -3")

	req.Equal("hello", query.Terms)
	req.Nil(query.Room)
	req.Equal(defaultLimit, query.Limit)
}

func TestNewSearchQuery_FlagsInTheMiddle(t *testing.T) {
	req := require.New(t)

	query := NewSearchQuery("budget --room 2 review")

	req.Equal("budget review", query.Terms)
	req.NotNil(query.Room)
	req.Equal(domain.RoomID(2), *query.Room)
}
