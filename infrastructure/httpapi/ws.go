package httpapi

import (
	apperrors "chat-relay/errors"
	"chat-relay/runtime"
	"chat-relay/services"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type inboundFrame struct {
	Body string `json:"body"`
}

type errorFrame struct {
	Error string `json:"error"`
}

// handleWebSocket upgrades the connection, attaches a session to the room
// engine and pumps frames in both directions until either side goes away.
// Attach failures are reported with close code 1008 so clients can tell a
// policy rejection from a transport error.
func (s *Server) handleWebSocket(c echo.Context) error {
	roomID, err := parseRoomID(c.Param("room"))
	if err != nil {
		return echo.NewHTTPError(400, "invalid room id")
	}

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil
	}

	credential := c.QueryParam("token")
	session, err := s.chat.Attach(c.Request().Context(), credential, roomID)
	if err != nil {
		s.log.Warn("websocket attach rejected", "room", roomID, "error", err)
		reason := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, attachRejectionReason(err))
		_ = conn.WriteControl(websocket.CloseMessage, reason, time.Now().Add(writeWait))
		_ = conn.Close()
		return nil
	}

	client := &wsClient{
		conn:    conn,
		session: session,
		chat:    s.chat,
		log:     s.log,
		maxLen:  s.maxContentLength,
	}

	go client.writePump()
	client.readPump(c.Request().Context())
	return nil
}

func attachRejectionReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInvalidToken):
		return "invalid token"
	case errors.Is(err, apperrors.ErrRoomNotFound):
		return "room not found"
	default:
		return "connection refused"
	}
}

type wsClient struct {
	conn    *websocket.Conn
	session *runtime.Session
	chat    services.IChatService
	log     *slog.Logger
	maxLen  int

	// writeMu serializes the write side between the pump goroutine and
	// rejection frames sent from the read loop.
	writeMu sync.Mutex
}

// readPump consumes inbound frames until the peer disconnects or the session
// is force-closed, then detaches the session.
func (c *wsClient) readPump(ctx context.Context) {
	defer func() {
		c.chat.Detach(c.session)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(int64(c.maxLen) + 1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("websocket read ended", "session", c.session.ID, "error", err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			c.writeError("malformed frame, expected {\"body\": \"...\"}")
			continue
		}
		if len(frame.Body) > c.maxLen {
			c.writeError("message too long")
			continue
		}

		if err := c.chat.Send(ctx, c.session, frame.Body); err != nil {
			if errors.Is(err, apperrors.ErrInvalidState) || errors.Is(err, apperrors.ErrSessionClosed) {
				return
			}
			c.log.Warn("send failed", "session", c.session.ID, "error", err)
			c.writeError("message rejected")
		}
	}
}

// writePump drains the session queue onto the wire and keeps the connection
// alive with pings. It exits when the session is closed or a write fails.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.session.Frames():
			if err := c.writeFrame(frame); err != nil {
				c.chat.Detach(c.session)
				return
			}
		case <-c.session.Done():
			c.drainRemaining()
			deadline := time.Now().Add(writeWait)
			message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = c.conn.WriteControl(websocket.CloseMessage, message, deadline)
			return
		case <-ticker.C:
			c.writeMu.Lock()
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				c.chat.Detach(c.session)
				return
			}
		}
	}
}

// drainRemaining flushes frames that were enqueued before the session began
// closing so graceful disconnects do not cut off already accepted messages.
func (c *wsClient) drainRemaining() {
	for {
		select {
		case frame := <-c.session.Frames():
			if err := c.writeFrame(frame); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *wsClient) writeFrame(frame runtime.Frame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *wsClient) writeError(reason string) {
	payload, err := json.Marshal(errorFrame{Error: reason})
	if err != nil {
		return
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.TextMessage, payload)
}
