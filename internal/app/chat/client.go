/*
Package chat contains the core logic for real-time message fan-out: chat rooms,
socket connections, and the event protocol spoken over them.

This file defines the Client struct, representing an active WebSocket
connection. It manages the connection's lifecycle, the read/write pumps, and
the room memberships the socket accumulates while it stays open.
*/
package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"uniconnect/internal/app/user"
	"uniconnect/internal/pkg/errs"
	"uniconnect/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxFrameSize = 8192

	// timeout for store operations triggered by inbound events.
	eventTimeout = 10 * time.Second
)

// Client represents an active WebSocket connection and its authenticated user.
// A single connection serves all of the user's chats: room memberships
// accumulate as joinChat events arrive and are only released on disconnect.
type Client struct {
	// service performs authorization, persistence, and broadcast for events.
	service *Service

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// associated authenticated user.
	user user.User

	// a buffered channel used to queue frames waiting to be sent to the client.
	send chan []byte

	// rooms tracks every room this socket has joined.
	rooms map[uuid.UUID]*Room

	// roomsMu protects the rooms map.
	roomsMu sync.Mutex

	// structured logger with client context.
	logger zerolog.Logger
}

// NewClient constructs and returns a new Client instance.
func NewClient(service *Service, wsConn *websocket.Conn, u user.User) *Client {
	clientLogger := logx.Logger().With().
		Str("client_id", u.ID).
		Logger()

	return &Client{
		service: service,
		conn:    wsConn,
		user:    u,
		send:    make(chan []byte, 256),
		rooms:   make(map[uuid.UUID]*Room),
		logger:  clientLogger,
	}
}

// ReadPump handles reading frames from the WebSocket connection.
// It handles heartbeats (Pong), event dispatch, and performs cleanup upon connection closure.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxFrameSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (Client close/going away)")
			}
			break
		}

		c.processInboundEvent(frame)
	}
}

// cleanupOnDisconnect releases every accumulated room membership and closes
// the underlying connection once the ReadPump terminates.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.roomsMu.Lock()
	joined := make([]*Room, 0, len(c.rooms))
	for _, room := range c.rooms {
		joined = append(joined, room)
	}
	c.rooms = make(map[uuid.UUID]*Room)
	c.roomsMu.Unlock()

	for _, room := range joined {
		room.UnregisterClient(c)
	}

	close(c.send)

	if err := c.conn.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Client connection close error")
	}
}

// processInboundEvent parses a raw frame and dispatches it by event type.
func (c *Client) processInboundEvent(frame []byte) {
	var event Event

	if err := json.Unmarshal(frame, &event); err != nil {
		c.logger.Warn().Err(err).
			Bytes("frame", frame).
			Msg("Client sent invalid JSON")
		return
	}

	switch event.Type {
	case EventJoinChat:
		c.handleJoinChat(event.Payload)

	case EventSendMessage:
		c.handleSendMessage(event.Payload)

	default:
		c.logger.Warn().Str("event_type", string(event.Type)).Msg("Client sent unsupported event type")
	}
}

// handleJoinChat verifies the user participates in the chat and joins the
// socket to the chat's room.
func (c *Client) handleJoinChat(payload json.RawMessage) {
	var join JoinChatPayload
	if err := json.Unmarshal(payload, &join); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid joinChat payload")
		return
	}

	chatID, err := uuid.Parse(join.ChatID)
	if err != nil {
		c.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	c.roomsMu.Lock()
	_, already := c.rooms[chatID]
	c.roomsMu.Unlock()
	if already {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	for attempt := 0; ; attempt++ {
		room, customErr := c.service.JoinRoom(ctx, chatID, c.user)
		if customErr != nil {
			c.SendError(customErr)
			return
		}

		// Registration fails only when the room timed out between lookup
		// and registration; the Manager replaces stopped rooms, so a single
		// retry gets a live one. The membership is recorded only once the
		// room has accepted the socket.
		if room.RegisterClient(c) {
			c.roomsMu.Lock()
			c.rooms[chatID] = room
			c.roomsMu.Unlock()
			return
		}

		if attempt == 1 {
			c.SendError(errs.NewError(errs.ErrUnknown))
			return
		}
	}
}

// handleSendMessage persists the message and triggers the room broadcast.
// The sender is always the socket's authenticated user.
func (c *Client) handleSendMessage(payload json.RawMessage) {
	var send SendMessagePayload
	if err := json.Unmarshal(payload, &send); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid sendMessage payload")
		return
	}

	chatID, err := uuid.Parse(send.ChatID)
	if err != nil {
		c.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	senderID, err := uuid.Parse(c.user.ID)
	if err != nil {
		c.SendError(errs.NewError(errs.ErrUnknown))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	if _, customErr := c.service.SendMessage(ctx, chatID, senderID, send.Text); customErr != nil {
		c.SendError(customErr)
	}
}

// forgetRoom drops a room from the client's membership map. Called by a room
// tearing itself down while the socket remains open.
func (c *Client) forgetRoom(room *Room) {
	c.roomsMu.Lock()
	delete(c.rooms, room.ChatID)
	c.roomsMu.Unlock()
}

// enqueue attempts a non-blocking delivery of a frame to the socket's send
// queue. Returns false when the queue is full.
func (c *Client) enqueue(frame []byte) bool {
	defer func() {
		// The send channel closes on disconnect; a racing broadcast is dropped.
		recover()
	}()

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// SendError constructs and sends an error event to this client only.
func (c *Client) SendError(customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	event, err := NewEvent(EventError, ErrorPayload{
		Code:    customErr.Code,
		Message: customErr.Message,
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build error event")
		return
	}

	frame, err := json.Marshal(event)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to marshal error event")
		return
	}

	if !c.enqueue(frame) {
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping error event")
	}
}

// WritePump handles writing frames from the Client.send channel to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedFrame handles frames pulled from the send channel, writing them to the WebSocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
