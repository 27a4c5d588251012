package types

import (
	"encoding/json"
	"time"
)

// EntryStatus represents where a queue entry is in its lifecycle
type EntryStatus string

const (
	EntryStatusWaiting EntryStatus = "waiting"
	EntryStatusPlaying EntryStatus = "playing"
)

// QueueEntry represents one guest's song request
type QueueEntry struct {
	QueueID    int64           `json:"queueId"`
	Song       json.RawMessage `json:"song"`
	SingerName string          `json:"singerName"`
	AddedAt    time.Time       `json:"addedAt"`
	Status     EntryStatus     `json:"status"`
}

// QueueSnapshot is the full queue state sent to clients.
// Queue is never nil so it always encodes as an array.
type QueueSnapshot struct {
	Queue       []QueueEntry `json:"queue"`
	CurrentSong *QueueEntry  `json:"currentSong"`
}

// EmptySnapshot returns the state of a freshly started queue
func EmptySnapshot() QueueSnapshot {
	return QueueSnapshot{Queue: []QueueEntry{}}
}
