// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/ndkdeps/internal/core/domain"
)

// Executor defines the interface for running external tools.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs cmd to completion.
	//
	// The env parameter contains environment variables in "KEY=VALUE" format
	// layered over the process environment.
	//
	// It returns an error if the command cannot start or exits non-zero.
	Execute(ctx context.Context, cmd *domain.Command, env []string) error
}
