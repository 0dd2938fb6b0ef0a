package orchestrator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ndkdeps/internal/adapters/autotools"                    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ndkdeps/internal/adapters/logger"                       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ndkdeps/internal/adapters/meson"                        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ndkdeps/internal/adapters/publish"                      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ndkdeps/internal/adapters/source"                       //nolint:depguard // Wired in engine wiring
	telemetry "go.trai.ch/ndkdeps/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/ndkdeps/internal/core/domain"
	"go.trai.ch/ndkdeps/internal/core/ports"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			source.NodeID,
			meson.NodeID,
			autotools.NodeID,
			publish.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			acquirer, err := graft.Dep[ports.SourceAcquirer](ctx)
			if err != nil {
				return nil, err
			}

			mesonBuilder, err := graft.Dep[*meson.Builder](ctx)
			if err != nil {
				return nil, err
			}

			autotoolsBuilder, err := graft.Dep[*autotools.Builder](ctx)
			if err != nil {
				return nil, err
			}

			publisher, err := graft.Dep[ports.Publisher](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			builders := map[domain.BuildSystem]ports.ProjectBuilder{
				domain.BuildSystemMeson:     mesonBuilder,
				domain.BuildSystemAutotools: autotoolsBuilder,
			}
			return New(acquirer, builders, publisher, tel, log), nil
		},
	})
}
