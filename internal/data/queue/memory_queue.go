// Package queue buffers audit records between request handlers and the
// background audit writer.
package queue

import (
	"context"
	"io"
	"sync"
	"time"

	"pipecheck/internal/core/ports"
)

var _ ports.AuditQueuePort = (*MemoryQueue)(nil)

// MemoryQueue holds audit records in a buffered channel. Handlers never wait
// on it: once the buffer is full, or the queue has been closed, new records
// are dropped and the caller is told so.
type MemoryQueue struct {
	ch     chan ports.AuditRecord
	mu     sync.RWMutex
	closed bool
}

// NewMemoryQueue returns a queue holding up to capacity records, at least one.
func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemoryQueue{ch: make(chan ports.AuditRecord, capacity)}
}

func (q *MemoryQueue) Enqueue(rec ports.AuditRecord) ports.EnqueueResult {
	// The read lock keeps Close from closing the channel mid-send.
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ports.EnqueueDropped
	}
	select {
	case q.ch <- rec:
		return ports.EnqueueAccepted
	default:
		return ports.EnqueueDropped
	}
}

// DequeueBatch waits up to wait for a first record, then takes whatever else
// is already buffered, up to maxItems. A zero wait only looks. A done ctx
// ends the call before any record is taken. It returns
// io.EOF once the queue is closed and empty; records read before that point
// come back alongside it.
func (q *MemoryQueue) DequeueBatch(ctx context.Context, maxItems int, wait time.Duration) ([]ports.AuditRecord, error) {
	if maxItems <= 0 {
		maxItems = 1
	}

	first, ok, err := q.awaitFirst(ctx, wait)
	if err != nil || !ok {
		return nil, err
	}

	batch := make([]ports.AuditRecord, 1, maxItems)
	batch[0] = first
	for len(batch) < maxItems {
		select {
		case rec, open := <-q.ch:
			if !open {
				return batch, io.EOF
			}
			batch = append(batch, rec)
		default:
			return batch, nil
		}
	}
	return batch, nil
}

func (q *MemoryQueue) awaitFirst(ctx context.Context, wait time.Duration) (ports.AuditRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return ports.AuditRecord{}, false, err
	}
	if wait <= 0 {
		select {
		case rec, open := <-q.ch:
			if !open {
				return rec, false, io.EOF
			}
			return rec, true, nil
		default:
			return ports.AuditRecord{}, false, nil
		}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case rec, open := <-q.ch:
		if !open {
			return rec, false, io.EOF
		}
		return rec, true, nil
	case <-ctx.Done():
		return ports.AuditRecord{}, false, ctx.Err()
	case <-timer.C:
		return ports.AuditRecord{}, false, nil
	}
}

// Close stops new records from being accepted. Buffered records can still be
// drained with DequeueBatch.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	return nil
}

// Len reports how many records are buffered.
func (q *MemoryQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.ch)
}
