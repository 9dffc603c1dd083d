package form

import (
	"context"
	"sync"

	"github.com/goliatone/go-logbook/pkg/flight"
)

// Saver persists a flight record and returns the stored copy, usually
// carrying an id.
type Saver interface {
	Save(ctx context.Context, record flight.Record) (flight.Record, error)
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, record flight.Record) (flight.Record, error)

// Save calls fn.
func (fn SaverFunc) Save(ctx context.Context, record flight.Record) (flight.Record, error) {
	return fn(ctx, record)
}

// Recorder is an in-memory Saver that assigns sequential ids. It backs the
// CLI and the server when no save endpoint is configured.
type Recorder struct {
	mu      sync.Mutex
	nextID  int64
	records []flight.Record
}

var _ Saver = (*Recorder)(nil)

// NewRecorder returns an empty Recorder whose first id is 1.
func NewRecorder() *Recorder {
	return &Recorder{nextID: 1}
}

// Save stores a copy of record under the next id.
func (r *Recorder) Save(ctx context.Context, record flight.Record) (flight.Record, error) {
	if err := ctx.Err(); err != nil {
		return flight.Record{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nextID == 0 {
		r.nextID = 1
	}
	saved := record.WithID(r.nextID)
	r.nextID++
	r.records = append(r.records, saved)
	return saved.WithID(*saved.ID), nil
}

// Records returns copies of the stored records in save order.
func (r *Recorder) Records() []flight.Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]flight.Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.WithID(*rec.ID))
	}
	return out
}

// Len reports how many records were saved.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
