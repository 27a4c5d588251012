package types

import "time"

// EventQueueUpdate is the only event pushed over the websocket
const EventQueueUpdate = "queue_update"

// QueueMessage represents a WebSocket queue update message
type QueueMessage struct {
	Event     string        `json:"event"`
	Data      QueueSnapshot `json:"data"`
	Timestamp time.Time     `json:"timestamp"` // when the update was queued
}
