package notify

import (
	"encoding/json"

	"feed-api/pkg/logger"
	"feed-api/websocket"

	"go.uber.org/zap"
)

// Notifier delivers real-time events to a user.
type Notifier interface {
	NotifyUser(userID int, event interface{})
}

// WSNotifier sends events as JSON over the websocket hub.
type WSNotifier struct {
	Hub *websocket.Hub
}

func (n *WSNotifier) NotifyUser(userID int, event interface{}) {
	if n == nil || n.Hub == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal notification", zap.Error(err))
		return
	}
	n.Hub.NotifyUser(userID, payload)
}

// Nop discards every event.
type Nop struct{}

func (Nop) NotifyUser(int, interface{}) {}
