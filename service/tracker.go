package service

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSuperseded means a newer request for the same client and ticker was
// issued while this one was in flight; its result must be dropped.
var ErrSuperseded = errors.New("superseded by a newer request")

// RequestTag identifies one in-flight request.
type RequestTag struct {
	ID          string
	Client      string
	Ticker      string
	HorizonDays int
	seq         uint64
}

// RequestTracker implements last-request-wins per (client, ticker).
type RequestTracker struct {
	mu     sync.Mutex
	seq    uint64
	latest map[string]uint64
}

func NewRequestTracker() *RequestTracker {
	return &RequestTracker{latest: make(map[string]uint64)}
}

func trackerKey(client, ticker string) string {
	return client + "\x00" + ticker
}

// Begin tags a new request and supersedes any earlier one for the pair.
func (t *RequestTracker) Begin(client, ticker string, horizonDays int) RequestTag {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.latest[trackerKey(client, ticker)] = t.seq
	return RequestTag{
		ID:          uuid.NewString(),
		Client:      client,
		Ticker:      ticker,
		HorizonDays: horizonDays,
		seq:         t.seq,
	}
}

// Current reports whether tag is still the newest request for its pair.
func (t *RequestTracker) Current(tag RequestTag) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest[trackerKey(tag.Client, tag.Ticker)] == tag.seq
}

// Finish checks the tag one last time and forgets the pair if it was the
// newest, so the map does not grow with every ticker ever requested.
func (t *RequestTracker) Finish(tag RequestTag) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := trackerKey(tag.Client, tag.Ticker)
	if t.latest[key] != tag.seq {
		return ErrSuperseded
	}
	delete(t.latest, key)
	return nil
}
