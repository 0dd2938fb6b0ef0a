package ports

import "go.trai.ch/ndkdeps/internal/core/domain"

// ManifestLoader loads the ordered target and project declarations.
//
//go:generate go run go.uber.org/mock/mockgen -source=manifest_loader.go -destination=mocks/mock_manifest_loader.go -package=mocks
type ManifestLoader interface {
	// Load reads the manifest at path. An empty path loads the built-in manifest.
	Load(path string) (*domain.Manifest, error)
}
