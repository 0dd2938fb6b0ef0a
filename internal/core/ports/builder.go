package ports

import (
	"context"

	"go.trai.ch/ndkdeps/internal/core/domain"
)

// ProjectBuilder drives one build system family: configure, compile, install, clean.
//
//go:generate go run go.uber.org/mock/mockgen -source=builder.go -destination=mocks/mock_builder.go -package=mocks
type ProjectBuilder interface {
	// Build builds and installs req.Project into req.Env.Prefix.
	// The first failing tool invocation stops the build and is returned.
	Build(ctx context.Context, req *domain.BuildRequest) error
}
