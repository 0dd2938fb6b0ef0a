package ports

import (
	"context"

	"go.trai.ch/ndkdeps/internal/core/domain"
)

// Publisher hands installed artifacts off to the application's library directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks
type Publisher interface {
	Publish(ctx context.Context, project *domain.Project, prefix domain.StagingPrefix, destDir string) error
}
