package source

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ndkdeps/internal/adapters/archive"
	"go.trai.ch/ndkdeps/internal/adapters/fetch"
	"go.trai.ch/ndkdeps/internal/adapters/logger"
	"go.trai.ch/ndkdeps/internal/adapters/shell"
	"go.trai.ch/ndkdeps/internal/core/ports"
)

// NodeID is the unique identifier for the source acquirer Graft node.
const NodeID graft.ID = "adapter.source"

func init() {
	graft.Register(graft.Node[ports.SourceAcquirer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fetch.NodeID, archive.NodeID, shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.SourceAcquirer, error) {
			downloader, err := graft.Dep[ports.Downloader](ctx)
			if err != nil {
				return nil, err
			}
			extractor, err := graft.Dep[ports.ArchiveExtractor](ctx)
			if err != nil {
				return nil, err
			}
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewAcquirer(downloader, extractor, executor, log), nil
		},
	})
}
