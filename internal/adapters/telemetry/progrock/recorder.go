// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/ndkdeps/internal/core/domain"
	"go.trai.ch/ndkdeps/internal/core/ports"
)

// Recorder implements the ports.Telemetry interface using the vito/progrock library.
type Recorder struct {
	rec     *progrock.Recorder
	tracker *Tracker
}

// New creates a Recorder that only tracks outcomes. Vertex output is not
// kept; the logger already streams it.
func New() *Recorder {
	return NewRecorder(nil)
}

// NewRecorder creates a new Recorder with the given writer.
// Status updates are tracked for Summary before reaching w.
func NewRecorder(w progrock.Writer) *Recorder {
	tracker := NewTracker(w)
	return &Recorder{
		rec:     progrock.NewRecorder(tracker),
		tracker: tracker,
	}
}

// Record starts the vertex called name. Names are unique per run ("<abi>/<project>").
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	s := newStep(name, r.rec.Vertex(digest.FromString(name), name))
	return ports.ContextWithVertex(ctx, s), s
}

// Summary reports vertex outcomes seen so far.
func (r *Recorder) Summary() domain.RunSummary {
	return r.tracker.Summary()
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	return r.tracker.Close()
}
