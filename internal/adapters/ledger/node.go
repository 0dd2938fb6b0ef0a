package ledger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ndkdeps/internal/core/ports"
)

// NodeID is the unique identifier for the ledger opener Graft node.
const NodeID graft.ID = "adapter.ledger"

func init() {
	graft.Register(graft.Node[ports.LedgerOpener]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.LedgerOpener, error) {
			return Opener{}, nil
		},
	})
}
