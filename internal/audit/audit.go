// Package audit provides the append-only activity trail. Entries are
// emitted asynchronously: a mutation handler hands the entry to the
// Recorder and moves on. Persistence failures never reach the caller; they
// are logged and counted so operators can see them.
package audit

import (
	"context"
	"strings"
	"sync"
	"time"

	"cpms.org/internal/obs"
)

// Entry is one append-only audit record.
type Entry struct {
	ID          string    `json:"id"`
	ActionType  string    `json:"actionType"`
	Description string    `json:"description"`
	PerformedBy string    `json:"performedBy"`
	Role        string    `json:"role"`
	OccurredAt  time.Time `json:"timestamp"`
}

// Filter narrows the paginated read side.
type Filter struct {
	// PerformedBy is a case-insensitive substring match on the actor.
	PerformedBy string
	// Type is one of "created", "updated", "deleted" or empty.
	Type  string
	Page  int
	Limit int
}

// TypePatterns maps a filter type class to action-type match patterns.
func TypePatterns(t string) []string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "created":
		return []string{"%create%", "%post%", "%add%"}
	case "updated":
		return []string{"%update%", "%approv%", "%status%"}
	case "deleted":
		return []string{"%delete%"}
	}
	return nil
}

// Store persists entries. Append-only besides the superuser bulk clear.
type Store interface {
	Append(ctx context.Context, e *Entry) error
	// List returns a page of entries, newest first, with the total count.
	List(ctx context.Context, f Filter) ([]Entry, int, error)
	Clear(ctx context.Context) error
}

const (
	defaultBuffer = 256
	appendTimeout = 5 * time.Second
	generalAction = "GENERAL"
	systemActor   = "system"
)

// Recorder decouples audit emission from request handling. Record never
// blocks and never fails the caller.
type Recorder struct {
	store Store

	ch        chan Entry
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRecorder starts the background writer. buffer <= 0 selects a default.
func NewRecorder(store Store, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	r := &Recorder{store: store, ch: make(chan Entry, buffer)}
	r.wg.Add(1)
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for e := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		err := r.store.Append(ctx, &e)
		cancel()
		if err != nil {
			obs.CountAuditWriteFailure()
			obs.LogError("audit append failed", err, map[string]any{
				"action": e.ActionType,
				"actor":  e.PerformedBy,
			})
		}
	}
}

// Record queues one entry. Empty fields get the defaults of the original
// trail (GENERAL action, system actor, current time). A full buffer drops
// the entry and counts the drop.
func (r *Recorder) Record(e Entry) {
	if e.ActionType == "" {
		e.ActionType = generalAction
	}
	if e.PerformedBy == "" {
		e.PerformedBy = systemActor
	}
	if e.Role == "" {
		e.Role = systemActor
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	select {
	case r.ch <- e:
	default:
		obs.CountAuditDropped()
		obs.LogError("audit buffer full, entry dropped", nil, map[string]any{
			"action": e.ActionType,
		})
	}
}

// Close drains queued entries and stops the writer.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.ch)
	})
	r.wg.Wait()
}

// List reads a page of the trail.
func (r *Recorder) List(ctx context.Context, f Filter) ([]Entry, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	return r.store.List(ctx, f)
}

// Clear truncates the trail. Callers must enforce the superuser-only rule.
func (r *Recorder) Clear(ctx context.Context) error {
	return r.store.Clear(ctx)
}
