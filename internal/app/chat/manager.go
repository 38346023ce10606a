/*
Package chat contains the core logic for real-time message fan-out: chat rooms,
socket connections, and the event protocol spoken over them.

This file defines the Manager struct, which serves as the central registry for
room instances. Rooms are created lazily the first time a socket joins a chat
and removed again once they have sat empty past the inactivity timeout.
*/
package chat

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"uniconnect/internal/pkg/logx"
)

// Manager coordinates all active chat rooms. It is the only holder of the
// room registry; rooms notify it over the cleanup channel when they shut down.
type Manager struct {
	// rooms maps chat ids to their active Room instances.
	rooms map[uuid.UUID]*Room

	// mu protects concurrent access to the rooms map.
	mu sync.RWMutex

	// the channel used by Rooms to notify the Manager to clean up and remove them.
	cleanup chan RoomCleanupMsg

	// wg is used to wait for the runCleanupLoop goroutine to finish during shutdown.
	wg sync.WaitGroup

	// structured logger with Manager context.
	logger zerolog.Logger
}

// RoomCleanupMsg asks the Manager to drop a finished room from its registry.
type RoomCleanupMsg struct {
	ChatID uuid.UUID
}

// NewManager constructs and returns a new Manager instance.
func NewManager() *Manager {
	managerLogger := logx.Logger().With().Str("component", "Manager").Logger()

	m := &Manager{
		rooms:   make(map[uuid.UUID]*Room),
		cleanup: make(chan RoomCleanupMsg, 10),
		logger:  managerLogger,
	}

	m.wg.Add(1)

	go m.runCleanupLoop()

	return m
}

// runCleanupLoop is a blocking loop that listens on the cleanup channel.
// When a RoomCleanupMsg is received, it calls deleteRoom to remove the corresponding room.
func (m *Manager) runCleanupLoop() {
	defer m.wg.Done()

	m.logger.Info().Msg("Cleanup loop started.")

	for msg := range m.cleanup {
		m.deleteRoom(msg.ChatID)
	}

	m.logger.Info().Msg("Cleanup loop stopped.")
}

// deleteRoom removes the specified room from the Manager's rooms map. A live
// room is left alone: its stopped predecessor may already have been replaced
// by the time the cleanup notification is processed.
func (m *Manager) deleteRoom(chatID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if room, ok := m.rooms[chatID]; ok && room.Stopped() {
		delete(m.rooms, chatID)
		m.logger.Info().Str("chat_id", chatID.String()).Msg("Room successfully removed.")
	}
}

// GetOrCreateRoom returns the active room for a chat, starting one if none is
// running. Rooms exist only while sockets are interested in them; persistence
// is entirely the store's concern.
func (m *Manager) GetOrCreateRoom(chatID uuid.UUID) *Room {
	m.mu.RLock()
	room, ok := m.rooms[chatID]
	m.mu.RUnlock()

	if ok && !room.Stopped() {
		return room
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rooms == nil {
		// Shutdown already ran; refuse new rooms.
		return nil
	}

	if room, ok = m.rooms[chatID]; ok {
		if !room.Stopped() {
			return room
		}
		// The previous room timed out; replace it without waiting for its
		// cleanup notification, which may lag or have been dropped.
		delete(m.rooms, chatID)
	}

	room = NewRoom(chatID, m.cleanup)
	m.rooms[chatID] = room

	go room.Run()

	m.logger.Info().Str("chat_id", chatID.String()).Msg("New Room created and started.")
	return room
}

// GetRoom retrieves an active Room by chat id, or nil when no socket has the
// chat open.
func (m *Manager) GetRoom(chatID uuid.UUID) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, ok := m.rooms[chatID]
	if !ok {
		return nil
	}
	return room
}

// Broadcast delivers an already-marshaled event to every socket joined to the
// chat's room. A missing room means nobody is connected; REST history remains
// the source of truth.
func (m *Manager) Broadcast(chatID uuid.UUID, frame []byte) {
	room := m.GetRoom(chatID)
	if room == nil {
		return
	}

	room.Broadcast(frame)
}

// Shutdown gracefully shuts down the Manager and all managed rooms.
// It stops all room Run loops, closes the cleanup channel, and waits for the cleanup goroutine to exit.
func (m *Manager) Shutdown() {
	m.logger.Info().Msg("Shutting down Manager cleanup loop...")

	m.mu.Lock()

	for _, room := range m.rooms {
		room.Stop()
	}
	m.rooms = nil

	m.mu.Unlock()

	close(m.cleanup)
	m.wg.Wait()

	m.logger.Info().Msg("Manager shutdown complete.")
}
