package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/voicewithin/internal/domains/session"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
	"github.com/xpanvictor/voicewithin/pkg/io/device"
)

// ConnectionManager tracks connected status clients and broadcasts session
// events to them. It is a notification endpoint, so the publisher reaches
// it like any other sink.
type ConnectionManager struct {
	id      device.EndpointID
	logger  *Logger.Logger
	clients map[uuid.UUID]*Client
	mutex   sync.RWMutex
	seq     atomic.Uint64
}

func NewConnectionManager(logger *Logger.Logger) *ConnectionManager {
	return &ConnectionManager{
		id:      device.EndpointID(uuid.New()),
		logger:  logger,
		clients: make(map[uuid.UUID]*Client),
	}
}

// RegisterConnection registers a client and starts its writer.
func (cm *ConnectionManager) RegisterConnection(client *Client) {
	cm.mutex.Lock()
	cm.clients[client.ID] = client
	cm.mutex.Unlock()

	go client.writePump(cm.logger)
	cm.logger.Infof("Registered status client %s", client.ID)
}

// UnregisterConnection removes a client
func (cm *ConnectionManager) UnregisterConnection(id uuid.UUID) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if client, exists := cm.clients[id]; exists {
		cm.logger.Infof("Unregistering status client %s", id)
		_ = client.Close()
		delete(cm.clients, id)
	}
}

// GetClientCount returns the number of connected clients
func (cm *ConnectionManager) GetClientCount() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.clients)
}

func (cm *ConnectionManager) message(msgType MessageType, data interface{}) WSMessage {
	return WSMessage{
		Type:      msgType,
		Data:      data,
		Sequence:  cm.seq.Add(1),
		Timestamp: time.Now(),
	}
}

// SendTo queues a message for one client.
func (cm *ConnectionManager) SendTo(client *Client, msgType MessageType, data interface{}) error {
	return client.Enqueue(cm.message(msgType, data))
}

// BroadcastMessage queues a message for every connected client. Clients that
// cannot keep up are dropped.
func (cm *ConnectionManager) BroadcastMessage(msgType MessageType, data interface{}) {
	msg := cm.message(msgType, data)

	cm.mutex.RLock()
	clients := make([]*Client, 0, len(cm.clients))
	for _, client := range cm.clients {
		clients = append(clients, client)
	}
	cm.mutex.RUnlock()

	for _, client := range clients {
		if err := client.Enqueue(msg); err != nil {
			cm.logger.Warnf("Dropping status client %s: %v", client.ID, err)
			cm.UnregisterConnection(client.ID)
		}
	}
}

// PublishTransition is registered as a session observer.
func (cm *ConnectionManager) PublishTransition(t session.Transition) {
	msg := StateChangedMessage{From: t.From, To: t.To, Event: t.Event, At: t.At}
	if t.SessionID != uuid.Nil {
		msg.SessionID = t.SessionID.String()
	}
	cm.BroadcastMessage(MessageTypeStateChanged, msg)
}

// ID implements device.Endpoint.
func (cm *ConnectionManager) ID() device.EndpointID {
	return cm.id
}

// Name implements device.Endpoint.
func (cm *ConnectionManager) Name() string {
	return "events"
}

// Deliver implements device.Endpoint.
func (cm *ConnectionManager) Deliver(n device.Notification) error {
	cm.BroadcastMessage(MessageTypeNotification, n)
	return nil
}

// Close disconnects every client.
func (cm *ConnectionManager) Close() error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	for id, client := range cm.clients {
		_ = client.Close()
		delete(cm.clients, id)
	}
	cm.logger.Infof("Connection manager closed")
	return nil
}

// GetStats returns connection manager statistics
func (cm *ConnectionManager) GetStats() map[string]interface{} {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	clients := make([]map[string]interface{}, 0, len(cm.clients))
	for _, client := range cm.clients {
		clients = append(clients, map[string]interface{}{
			"client_id":    client.ID.String(),
			"connected_at": client.ConnectedAt,
			"last_active":  client.LastActive(),
		})
	}
	return map[string]interface{}{
		"active_clients": len(cm.clients),
		"clients":        clients,
		"sequence":       cm.seq.Load(),
	}
}
