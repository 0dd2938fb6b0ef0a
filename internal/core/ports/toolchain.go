package ports

import "go.trai.ch/ndkdeps/internal/core/domain"

// ToolchainResolver locates the prebuilt NDK LLVM toolchain for a host.
//
//go:generate go run go.uber.org/mock/mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type ToolchainResolver interface {
	// Resolve returns the toolchain directory inside ndkRoot for host.
	// It fails with domain.ErrUnsupportedPlatform or domain.ErrToolchainNotFound.
	Resolve(ndkRoot string, host domain.HostPlatform) (string, error)
}
