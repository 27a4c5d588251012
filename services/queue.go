package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"karaoke/types"

	"github.com/charmbracelet/log"
)

// Broadcaster receives the full queue state after every mutation
type Broadcaster interface {
	BroadcastQueue(snapshot types.QueueSnapshot)
}

// QueueCoordinator interface defines the host and guest operations on the song queue
type QueueCoordinator interface {
	Submit(song json.RawMessage, singerName string) (types.QueueEntry, error)
	Advance() *types.QueueEntry
	Complete()
	Remove(queueID int64)
	Reorder(orderedIDs []int64)
	MoveUp(queueID int64)
	MoveDown(queueID int64)
	Snapshot() types.QueueSnapshot
}

// queueCoordinator owns the pending requests and the current song
type queueCoordinator struct {
	pending []types.QueueEntry
	current *types.QueueEntry
	nextID  int64
	mu      sync.Mutex
	hub     Broadcaster
	logger  *log.Logger
	now     func() time.Time
}

// NewQueueCoordinator creates an empty queue. hub may be nil.
func NewQueueCoordinator(hub Broadcaster, logger *log.Logger) QueueCoordinator {
	return &queueCoordinator{
		pending: make([]types.QueueEntry, 0),
		nextID:  1,
		hub:     hub,
		logger:  logger,
		now:     time.Now,
	}
}

// Submit appends a new waiting entry to the end of the queue
func (q *queueCoordinator) Submit(song json.RawMessage, singerName string) (types.QueueEntry, error) {
	if isAbsent(song) || singerName == "" {
		return types.QueueEntry{}, fmt.Errorf("%w: song and singer name are required", ErrValidation)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	entry := types.QueueEntry{
		QueueID:    q.nextID,
		Song:       append(json.RawMessage(nil), song...),
		SingerName: singerName,
		AddedAt:    q.now(),
		Status:     types.EntryStatusWaiting,
	}
	q.nextID++

	q.pending = append(q.pending, entry)
	q.logger.Info("song requested", "queueId", entry.QueueID, "singer", singerName, "pending", len(q.pending))
	q.broadcast()

	return entry, nil
}

// Advance moves the head of the queue into the current slot.
// With nothing pending the current song is returned unchanged and nothing is broadcast.
func (q *queueCoordinator) Advance() *types.QueueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return copyEntry(q.current)
	}

	next := q.pending[0]
	q.pending = q.pending[1:]
	next.Status = types.EntryStatusPlaying
	q.current = &next

	q.logger.Info("now playing", "queueId", next.QueueID, "singer", next.SingerName)
	q.broadcast()

	return copyEntry(q.current)
}

// Complete clears the current song
func (q *queueCoordinator) Complete() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.current = nil
	q.broadcast()
}

// Remove drops a pending entry; unknown ids are ignored
func (q *queueCoordinator) Remove(queueID int64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if idx := q.indexOf(queueID); idx >= 0 {
		q.pending = append(q.pending[:idx], q.pending[idx+1:]...)
		q.logger.Info("request removed", "queueId", queueID)
	}
	q.broadcast()
}

// Reorder rebuilds the queue in the given order.
// Ids that match nothing are skipped and entries whose id is not listed are dropped.
func (q *queueCoordinator) Reorder(orderedIDs []int64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	byID := make(map[int64]types.QueueEntry, len(q.pending))
	for _, entry := range q.pending {
		byID[entry.QueueID] = entry
	}

	reordered := make([]types.QueueEntry, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		if entry, ok := byID[id]; ok {
			reordered = append(reordered, entry)
		}
	}

	if dropped := len(q.pending) - len(reordered); dropped > 0 {
		q.logger.Warn("reorder dropped entries", "dropped", dropped)
	}

	q.pending = reordered
	q.broadcast()
}

// MoveUp swaps an entry with the one before it
func (q *queueCoordinator) MoveUp(queueID int64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if idx := q.indexOf(queueID); idx > 0 {
		q.pending[idx-1], q.pending[idx] = q.pending[idx], q.pending[idx-1]
	}
	q.broadcast()
}

// MoveDown swaps an entry with the one after it
func (q *queueCoordinator) MoveDown(queueID int64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if idx := q.indexOf(queueID); idx >= 0 && idx < len(q.pending)-1 {
		q.pending[idx], q.pending[idx+1] = q.pending[idx+1], q.pending[idx]
	}
	q.broadcast()
}

// Snapshot returns a copy of the current queue state
func (q *queueCoordinator) Snapshot() types.QueueSnapshot {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.snapshot()
}

// snapshot must be called with the lock held
func (q *queueCoordinator) snapshot() types.QueueSnapshot {
	pending := make([]types.QueueEntry, len(q.pending))
	copy(pending, q.pending)

	return types.QueueSnapshot{
		Queue:       pending,
		CurrentSong: copyEntry(q.current),
	}
}

// broadcast must be called with the lock held so updates go out in mutation order
func (q *queueCoordinator) broadcast() {
	if q.hub != nil {
		q.hub.BroadcastQueue(q.snapshot())
	}
}

func (q *queueCoordinator) indexOf(queueID int64) int {
	for i, entry := range q.pending {
		if entry.QueueID == queueID {
			return i
		}
	}
	return -1
}

func copyEntry(entry *types.QueueEntry) *types.QueueEntry {
	if entry == nil {
		return nil
	}
	c := *entry
	return &c
}

// isAbsent treats missing songs and the JSON falsy values null, false, "" and 0 as not provided
func isAbsent(song json.RawMessage) bool {
	trimmed := bytes.TrimSpace(song)
	switch string(trimmed) {
	case "", "null", "false", `""`:
		return true
	}
	if n, err := strconv.ParseFloat(string(trimmed), 64); err == nil && n == 0 {
		return true
	}
	return false
}
