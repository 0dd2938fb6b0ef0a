package progrock

import (
	"io"
	"sync"

	"github.com/vito/progrock"
)

// step is the vertex of one project built for one ABI.
type step struct {
	name string
	rec  *progrock.VertexRecorder
	done sync.Once
}

func newStep(name string, rec *progrock.VertexRecorder) *step {
	return &step{name: name, rec: rec}
}

func (s *step) Stdout() io.Writer { return s.rec.Stdout() }

func (s *step) Stderr() io.Writer { return s.rec.Stderr() }

// Complete finishes the step. Only the first call is recorded.
func (s *step) Complete(err error) {
	s.done.Do(func() {
		s.rec.Done(err)
	})
}
