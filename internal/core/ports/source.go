package ports

import (
	"context"

	"go.trai.ch/ndkdeps/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks

// SourceAcquirer makes a project's source tree available locally.
type SourceAcquirer interface {
	// Materialize ensures the source tree of src exists under workDir and returns its path.
	// An existing directory is returned as is, without network or VCS work.
	Materialize(ctx context.Context, src domain.Source, workDir string) (string, error)
}

// Downloader fetches a remote file.
type Downloader interface {
	// Download writes the resource at url to dest.
	Download(ctx context.Context, url, dest string) error
}

// ArchiveExtractor unpacks source archives.
type ArchiveExtractor interface {
	// Extract unpacks the archive at path into destDir.
	Extract(ctx context.Context, path, destDir string) error
}
