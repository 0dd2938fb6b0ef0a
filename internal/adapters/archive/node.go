package archive

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ndkdeps/internal/core/ports"
)

// NodeID is the unique identifier for the archive extractor Graft node.
const NodeID graft.ID = "adapter.archive"

func init() {
	graft.Register(graft.Node[ports.ArchiveExtractor]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ArchiveExtractor, error) {
			return NewExtractor(), nil
		},
	})
}
