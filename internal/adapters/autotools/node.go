package autotools

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ndkdeps/internal/adapters/logger"
	"go.trai.ch/ndkdeps/internal/adapters/shell"
	"go.trai.ch/ndkdeps/internal/core/ports"
)

// NodeID is the unique identifier for the autotools builder Graft node.
const NodeID graft.ID = "adapter.builder.autotools"

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Builder, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuilder(executor, log), nil
		},
	})
}
