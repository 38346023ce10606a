/*
Package chat contains the core logic for real-time message fan-out: chat rooms,
socket connections, and the event protocol spoken over them.

This file defines the Room struct: the set of currently connected sockets that
have joined a given chat's identifier, used only for broadcast targeting. It
manages socket registration and automatic shutdown once empty.
*/
package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"uniconnect/internal/pkg/logx"
)

const broadcastChannelBuffer = 1024

// RoomInactivityTimeout is the duration after which an empty room shuts down.
const RoomInactivityTimeout = 5 * time.Minute

// Room fans frames out to the sockets currently joined to one chat. It holds
// no message state; a socket that was absent during a broadcast catches up
// through REST history on reconnect.
type Room struct {
	// ChatID is the persistent chat this room broadcasts for.
	ChatID uuid.UUID

	// the set of currently joined sockets.
	clients map[*Client]struct{}

	// a buffered channel of marshaled frames to be fanned out.
	broadcast chan []byte

	// a channel for sockets requesting to join the room.
	register chan *Client

	// a channel for sockets leaving the room (or disconnecting).
	unregister chan *Client

	// a write-only channel used to notify the Manager to clean up this room.
	cleanupChan chan<- RoomCleanupMsg

	// used to signal the Room to stop its Run loop immediately.
	stopChan chan struct{}

	// the timer used to track room inactivity.
	shutdownTimer *time.Timer

	// mu protects access to the clients map.
	mu sync.RWMutex

	// structured logger with room context.
	logger zerolog.Logger
}

// NewRoom creates and initializes a new Room instance.
func NewRoom(chatID uuid.UUID, cleanupChan chan<- RoomCleanupMsg) *Room {
	roomLogger := logx.Logger().With().
		Str("chat_id", chatID.String()).
		Logger()

	return &Room{
		ChatID:        chatID,
		clients:       make(map[*Client]struct{}),
		broadcast:     make(chan []byte, broadcastChannelBuffer),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		cleanupChan:   cleanupChan,
		stopChan:      make(chan struct{}),
		shutdownTimer: time.NewTimer(RoomInactivityTimeout),
		logger:        roomLogger,
	}
}

// Stop sends a signal to immediately terminate the Room's Run loop.
func (r *Room) Stop() {
	r.logger.Info().Msg("Received stop signal. Stopping room immediately.")

	select {
	case <-r.stopChan:
	default:
		close(r.stopChan)
	}
}

// Stopped reports whether the Run loop has terminated. A stopped room accepts
// no registrations; the Manager hands out a replacement.
func (r *Room) Stopped() bool {
	select {
	case <-r.stopChan:
		return true
	default:
		return false
	}
}

// Broadcast queues a marshaled frame for fan-out to every joined socket.
// Frames are dropped when the queue is full; delivery is at-most-once.
func (r *Room) Broadcast(frame []byte) {
	select {
	case r.broadcast <- frame:
	case <-r.stopChan:
	default:
		r.logger.Warn().Msg("Room broadcast channel full, dropping frame.")
	}
}

// RegisterClient queues a socket for membership. It reports false when the
// Run loop has already terminated; callers fetch a fresh room from the
// Manager and retry.
func (r *Room) RegisterClient(client *Client) bool {
	select {
	case r.register <- client:
		return true
	case <-r.stopChan:
		return false
	}
}

// UnregisterClient safely queues the removal of a socket from the room.
func (r *Room) UnregisterClient(client *Client) {
	select {
	case r.unregister <- client:
	case <-r.stopChan:
	default:
		r.logger.Warn().Msg("Room unregister channel blocked.")
	}
}

// Len reports the number of currently joined sockets.
func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.clients)
}

// Run starts the main event loop for the Room.
// It handles socket registration, deregistration, frame fan-out, and shutdown.
func (r *Room) Run() {
	defer func() {
		r.logger.Info().Msg("Room Run loop finished. Notifying Manager for cleanup.")

		// Close stopChan no matter which branch ended the loop, so queued
		// RegisterClient/Broadcast calls fall through instead of blocking
		// against a loop that will never drain them.
		r.Stop()

		if r.shutdownTimer != nil {
			r.shutdownTimer.Stop()
		}

		func() {
			defer func() {
				if rec := recover(); rec != nil {
					logx.Warn("Recovered from panic during Manager cleanup notification (channel likely closed).")
				}
			}()

			select {
			case r.cleanupChan <- RoomCleanupMsg{ChatID: r.ChatID}:
				r.logger.Info().Msg("Sent cleanup notification to Manager.")
			default:
				r.logger.Warn().Msg("Manager cleanup channel blocked/full. Skipping cleanup notification.")
			}
		}()

		// Rooms don't own the sockets: a client may still be joined to other
		// rooms, so its send channel stays open. Just forget the membership.
		r.mu.Lock()
		for client := range r.clients {
			client.forgetRoom(r)
		}
		r.clients = nil
		r.mu.Unlock()
	}()

	timerChan := r.shutdownTimer.C

	for {
		select {
		case client := <-r.register:
			r.mu.Lock()

			if r.shutdownTimer.Stop() {
				select {
				case <-r.shutdownTimer.C:
				default:
				}
			}

			r.clients[client] = struct{}{}
			total := len(r.clients)

			r.mu.Unlock()

			r.logger.Info().
				Str("client_id", client.user.ID).
				Int("total_sockets", total).
				Msg("Socket joined room.")

		case client := <-r.unregister:
			r.mu.Lock()

			if _, ok := r.clients[client]; ok {
				delete(r.clients, client)

				r.logger.Info().
					Str("client_id", client.user.ID).
					Int("total_sockets", len(r.clients)).
					Msg("Socket left room.")
			}

			if len(r.clients) == 0 {
				if r.shutdownTimer.Stop() {
					select {
					case <-r.shutdownTimer.C:
					default:
					}
				}
				r.shutdownTimer.Reset(RoomInactivityTimeout)
			}

			r.mu.Unlock()

		case frame := <-r.broadcast:
			// Every joined socket receives the frame, the sender's own
			// included; clients treat the echo as authoritative.
			r.mu.RLock()
			for client := range r.clients {
				if !client.enqueue(frame) {
					r.logger.Warn().
						Str("client_id", client.user.ID).
						Msg("Client send channel full, skipping frame for this socket.")
				}
			}
			r.mu.RUnlock()

		case <-timerChan:
			r.mu.RLock()
			empty := len(r.clients) == 0
			r.mu.RUnlock()

			if empty {
				r.logger.Info().Msgf("Room inactivity timeout (%s) reached. Shutting down Room.Run() loop.", RoomInactivityTimeout)
				return
			}

			// A socket joined while the timer was being reset; keep running.
			r.shutdownTimer.Reset(RoomInactivityTimeout)

		case <-r.stopChan:
			r.logger.Info().Msg("Room forced stop initiated.")
			return
		}
	}
}
