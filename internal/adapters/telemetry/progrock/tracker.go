package progrock

import (
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/ndkdeps/internal/core/domain"
)

type vertexStatus int

const (
	statusRunning vertexStatus = iota
	statusCompleted
	statusFailed
)

// Tracker is a progrock.Writer that keeps the latest status of every vertex
// and forwards updates to the next writer.
type Tracker struct {
	next progrock.Writer

	mu       sync.Mutex
	order    []string
	statuses map[string]vertexStatus
}

// NewTracker creates a Tracker forwarding to next. next may be nil.
func NewTracker(next progrock.Writer) *Tracker {
	return &Tracker{
		next:     next,
		statuses: make(map[string]vertexStatus),
	}
}

// WriteStatus records vertex state changes from update.
func (t *Tracker) WriteStatus(update *progrock.StatusUpdate) error {
	t.mu.Lock()
	for _, v := range update.Vertexes {
		if _, seen := t.statuses[v.Id]; !seen {
			t.order = append(t.order, v.Id)
		}
		switch {
		case v.Completed != nil && v.Error != nil:
			t.statuses[v.Id] = statusFailed
		case v.Completed != nil:
			t.statuses[v.Id] = statusCompleted
		default:
			t.statuses[v.Id] = statusRunning
		}
	}
	t.mu.Unlock()

	if t.next == nil {
		return nil
	}
	return t.next.WriteStatus(update)
}

// Summary counts vertices by their latest status.
func (t *Tracker) Summary() domain.RunSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	var s domain.RunSummary
	for _, id := range t.order {
		switch t.statuses[id] {
		case statusCompleted:
			s.Completed++
		case statusFailed:
			s.Failed++
		default:
			s.Running++
		}
	}
	return s
}

// Close closes the next writer.
func (t *Tracker) Close() error {
	if t.next == nil {
		return nil
	}
	return t.next.Close()
}
