package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mcdev12/quizroom/go/internal/game/events"
	"github.com/rs/zerolog/log"
)

//go:generate mockgen -destination=../../mocks/mock_gateway.go -package=mocks github.com/mcdev12/quizroom/go/internal/game/gateway Dispatcher,Publisher

// Dispatcher receives decoded client events
type Dispatcher interface {
	HandleClientEvent(ctx context.Context, connID string, eventType events.EventType, data json.RawMessage) error
	ConnectionClosed(connID string)
}

// ConnectionManager manages WebSocket connections and their room subscriptions.
// All deliveries go through one queue drained by Start, so deliveries happen
// in the order they were requested.
type ConnectionManager struct {
	connections     map[string]*Connection
	roomConnections map[string]map[*Connection]bool
	mu              sync.RWMutex

	// Upgrader for WebSocket connections
	upgrader websocket.Upgrader

	config ConnectionConfig

	broadcastCh chan BroadcastMessage

	dispatcher Dispatcher

	// base context for dispatched client events
	ctx    context.Context
	cancel context.CancelFunc
}

// Connection represents a WebSocket connection to a client
type Connection struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	// rooms this connection is subscribed to, guarded by Manager.mu
	rooms map[string]bool

	ConnectedAt time.Time
	LastPing    time.Time
}

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	QueueSize       int
	CheckOrigin     func(r *http.Request) bool
}

// BroadcastMessage is one queued delivery. ConnID set means a direct send,
// otherwise the event goes to every subscriber of RoomID.
type BroadcastMessage struct {
	RoomID string
	ConnID string
	Event  events.Event
	// DropRoom forgets the room's audience instead of delivering Event
	DropRoom bool
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  64 * 1024, // quiz rooms may carry their own questions
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBufferSize:  256,
		QueueSize:       1000,
		CheckOrigin: func(r *http.Request) bool {
			// Browser clients are served from another origin
			return true
		},
	}
}

// NewConnectionManager creates a new WebSocket connection manager
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &ConnectionManager{
		connections:     make(map[string]*Connection),
		roomConnections: make(map[string]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan BroadcastMessage, config.QueueSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetDispatcher sets the receiver of client events. Must be called before
// connections are accepted.
func (cm *ConnectionManager) SetDispatcher(d Dispatcher) {
	cm.dispatcher = d
}

// Start processes queued deliveries until ctx is done
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")
	defer cm.cancel()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			return
		case message := <-cm.broadcastCh:
			cm.handleBroadcast(message)
		}
	}
}

// UpgradeConnection upgrades an HTTP connection to WebSocket
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request) (*Connection, error) {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := cm.newConnection(conn)
	cm.registerConnection(connection)

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("remote_addr", r.RemoteAddr).
		Msg("WebSocket connection established")

	return connection, nil
}

func (cm *ConnectionManager) newConnection(conn *websocket.Conn) *Connection {
	now := time.Now()
	return &Connection{
		ID:          uuid.NewString(),
		Conn:        conn,
		Send:        make(chan []byte, cm.config.SendBufferSize),
		Manager:     cm,
		rooms:       make(map[string]bool),
		ConnectedAt: now,
		LastPing:    now,
	}
}

// registerConnection adds a connection to the manager
func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.connections[conn.ID] = conn

	log.Debug().
		Str("connection_id", conn.ID).
		Int("total_connections", len(cm.connections)).
		Msg("connection registered")
}

// unregisterConnection removes a connection and its subscriptions, then tells
// the dispatcher. Only the first call for a connection has any effect.
func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	if _, exists := cm.connections[conn.ID]; !exists {
		cm.mu.Unlock()
		return
	}
	delete(cm.connections, conn.ID)
	cm.unsubscribeLocked(conn)
	close(conn.Send)
	cm.mu.Unlock()

	log.Info().
		Str("connection_id", conn.ID).
		Msg("connection unregistered")

	if cm.dispatcher != nil {
		cm.dispatcher.ConnectionClosed(conn.ID)
	}
}

// Subscribe adds a connection to a room's audience
func (cm *ConnectionManager) Subscribe(connID, roomID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	conn, exists := cm.connections[connID]
	if !exists {
		log.Debug().Str("connection_id", connID).Str("room_id", roomID).Msg("subscribe for unknown connection - ignoring")
		return
	}
	if cm.roomConnections[roomID] == nil {
		cm.roomConnections[roomID] = make(map[*Connection]bool)
	}
	cm.roomConnections[roomID][conn] = true
	conn.rooms[roomID] = true
}

// DropRoom forgets every subscription to a room once the messages already
// queued for it are delivered. With a full queue it happens right away.
func (cm *ConnectionManager) DropRoom(roomID string) {
	select {
	case cm.broadcastCh <- BroadcastMessage{RoomID: roomID, DropRoom: true}:
	default:
		cm.dropRoom(roomID)
	}
}

func (cm *ConnectionManager) dropRoom(roomID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	connections := cm.roomConnections[roomID]
	for conn := range connections {
		delete(conn.rooms, roomID)
	}
	delete(cm.roomConnections, roomID)

	log.Debug().
		Str("room_id", roomID).
		Int("connections", len(connections)).
		Msg("room audience dropped")
}

func (cm *ConnectionManager) unsubscribeLocked(conn *Connection) {
	for roomID := range conn.rooms {
		if connections, exists := cm.roomConnections[roomID]; exists {
			delete(connections, conn)
			if len(connections) == 0 {
				delete(cm.roomConnections, roomID)
			}
		}
		delete(conn.rooms, roomID)
	}
}

// SendTo queues an event for a single connection
func (cm *ConnectionManager) SendTo(connID string, event events.Event) {
	cm.enqueue(BroadcastMessage{ConnID: connID, Event: event})
}

// BroadcastToRoom queues an event for every connection subscribed to a room
func (cm *ConnectionManager) BroadcastToRoom(roomID string, event events.Event) {
	cm.enqueue(BroadcastMessage{RoomID: roomID, Event: event})
}

func (cm *ConnectionManager) enqueue(message BroadcastMessage) {
	select {
	case cm.broadcastCh <- message:
	default:
		log.Warn().
			Str("room_id", message.RoomID).
			Str("connection_id", message.ConnID).
			Str("event_type", string(message.Event.Type)).
			Msg("broadcast channel full, dropping message")
	}
}

// handleBroadcast delivers one queued message
func (cm *ConnectionManager) handleBroadcast(message BroadcastMessage) {
	if message.DropRoom {
		cm.dropRoom(message.RoomID)
		return
	}

	var targetConnections []*Connection

	cm.mu.RLock()
	if message.ConnID != "" {
		if conn, exists := cm.connections[message.ConnID]; exists {
			targetConnections = append(targetConnections, conn)
		}
	} else {
		for conn := range cm.roomConnections[message.RoomID] {
			targetConnections = append(targetConnections, conn)
		}
	}
	cm.mu.RUnlock()

	if len(targetConnections) == 0 {
		return
	}

	// Marshal the event once
	roomEvent, err := NewRoomEvent(message.RoomID, message.Event, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to build event for broadcast")
		return
	}
	eventData, err := json.Marshal(roomEvent)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	for _, conn := range targetConnections {
		cm.deliver(conn, eventData)
	}

	log.Debug().
		Str("event_type", string(message.Event.Type)).
		Str("room_id", message.RoomID).
		Int("connections", len(targetConnections)).
		Msg("event broadcasted")
}

// deliver hands data to the connection's writer, closing connections that
// cannot keep up
func (cm *ConnectionManager) deliver(conn *Connection, data []byte) {
	cm.mu.RLock()
	_, alive := cm.connections[conn.ID]
	if alive {
		select {
		case conn.Send <- data:
			cm.mu.RUnlock()
			return
		default:
		}
	}
	cm.mu.RUnlock()
	if !alive {
		return
	}

	log.Warn().
		Str("connection_id", conn.ID).
		Msg("connection send buffer full, closing connection")
	cm.unregisterConnection(conn)
	if conn.Conn != nil {
		conn.Conn.Close()
	}
}

// ConnectionStats summarizes active connections
type ConnectionStats struct {
	TotalConnections int            `json:"total_connections"`
	ActiveRooms      int            `json:"active_rooms"`
	RoomConnections  map[string]int `json:"room_connections"`
}

// GetConnectionStats returns statistics about active connections
func (cm *ConnectionManager) GetConnectionStats() ConnectionStats {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	roomCounts := make(map[string]int, len(cm.roomConnections))
	for roomID, connections := range cm.roomConnections {
		roomCounts[roomID] = len(connections)
	}

	return ConnectionStats{
		TotalConnections: len(cm.connections),
		ActiveRooms:      len(cm.roomConnections),
		RoomConnections:  roomCounts,
	}
}

// writePump handles sending messages to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				// Channel was closed
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump reads client frames until the connection fails or closes
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected WebSocket close error")
			}
			break
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}

// handleClientMessage decodes a client frame and hands it to the dispatcher.
// Event failures are reported by the dispatcher itself.
func (c *Connection) handleClientMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil || msg.Type == "" {
		log.Debug().
			Str("connection_id", c.ID).
			Msg("malformed client message")
		c.Manager.SendTo(c.ID, events.New(events.Error, events.ErrorPayload{Message: "malformed message"}))
		return
	}

	if c.Manager.dispatcher == nil {
		return
	}
	if err := c.Manager.dispatcher.HandleClientEvent(c.Manager.ctx, c.ID, msg.Type, msg.Data); err != nil {
		log.Debug().
			Err(err).
			Str("connection_id", c.ID).
			Str("event_type", string(msg.Type)).
			Msg("client event rejected")
	}
}
