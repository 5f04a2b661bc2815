package httpapi

import (
	"chat-relay/domain"
	apperrors "chat-relay/errors"
	"chat-relay/search"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type createRoomRequest struct {
	Name string `json:"name"`
}

type messagesResponse struct {
	Messages   []domain.Message `json:"messages"`
	NextCursor *string          `json:"next_cursor,omitempty"`
}

func (s *Server) handleSignup(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	token, err := s.auth.Signup(req.Username, req.Password)
	if err != nil {
		return apperrors.MapToHTTPError(err)
	}

	return c.JSON(http.StatusCreated, tokenResponse{AccessToken: string(token), TokenType: "bearer"})
}

func (s *Server) handleLogin(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	token, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		return apperrors.MapToHTTPError(err)
	}

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: string(token), TokenType: "bearer"})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, s.monitor.Snapshot())
}

func (s *Server) handleListRooms(c echo.Context) error {
	rooms, err := s.rooms.ListRooms()
	if err != nil {
		return apperrors.MapToHTTPError(err)
	}
	return c.JSON(http.StatusOK, rooms)
}

func (s *Server) handleCreateRoom(c echo.Context) error {
	var req createRoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	room, err := s.rooms.CreateRoom(identityFrom(c), req.Name)
	if err != nil {
		return apperrors.MapToHTTPError(err)
	}

	return c.JSON(http.StatusCreated, room)
}

func (s *Server) handleRoomMessages(c echo.Context) error {
	roomID, err := parseRoomID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid room id")
	}

	var cursor *string
	if raw := c.QueryParam("cursor"); raw != "" {
		cursor = &raw
	}

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 200 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 200")
		}
	}

	messages, next, err := s.chat.History(roomID, cursor, limit)
	if err != nil {
		return apperrors.MapToHTTPError(err)
	}

	return c.JSON(http.StatusOK, messagesResponse{Messages: messages, NextCursor: next})
}

func (s *Server) handleSearch(c echo.Context) error {
	raw := c.QueryParam("q")
	if raw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing query parameter q")
	}

	query := search.NewSearchQuery(raw)
	if len(query.Terms) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "query contains no search terms")
	}

	hits, err := s.chat.Search(c.Request().Context(), query)
	if err != nil {
		return apperrors.MapToHTTPError(err)
	}

	return c.JSON(http.StatusOK, hits)
}

func (s *Server) handleMessagesPerRoom(c echo.Context) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	counts, err := s.analytics.MessagesPerRoom(start, end)
	if err != nil {
		return apperrors.MapToHTTPError(err)
	}

	return c.JSON(http.StatusOK, counts)
}

func (s *Server) handleMessagesPerRoomCSV(c echo.Context) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="messages_per_room.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	return s.analytics.WriteMessagesPerRoomCSV(c.Response(), start, end)
}

func (s *Server) handleUserActivity(c echo.Context) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	counts, err := s.analytics.UserActivity(start, end)
	if err != nil {
		return apperrors.MapToHTTPError(err)
	}

	return c.JSON(http.StatusOK, counts)
}

func parseRoomID(raw string) (domain.RoomID, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid room id %q", raw)
	}
	return domain.RoomID(id), nil
}

// parseDateRange reads the optional start_date and end_date query parameters.
// The end date is widened to the last instant of that day so a single-day
// range covers the whole day.
func parseDateRange(c echo.Context) (*time.Time, *time.Time, error) {
	const layout = "2006-01-02"

	var start, end *time.Time
	if raw := c.QueryParam("start_date"); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start_date %q, expected YYYY-MM-DD", raw)
		}
		start = &parsed
	}
	if raw := c.QueryParam("end_date"); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end_date %q, expected YYYY-MM-DD", raw)
		}
		endOfDay := parsed.Add(24*time.Hour - time.Nanosecond)
		end = &endOfDay
	}
	return start, end, nil
}
