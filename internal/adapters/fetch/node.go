package fetch

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ndkdeps/internal/adapters/logger"
	"go.trai.ch/ndkdeps/internal/core/ports"
)

// NodeID is the unique identifier for the downloader Graft node.
const NodeID graft.ID = "adapter.downloader"

func init() {
	graft.Register(graft.Node[ports.Downloader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Downloader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewDownloader(nil, log), nil
		},
	})
}
