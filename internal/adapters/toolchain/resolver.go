// Package toolchain locates the prebuilt LLVM toolchain inside an Android NDK.
package toolchain

import (
	"os"
	"path/filepath"

	"go.trai.ch/ndkdeps/internal/core/domain"
	"go.trai.ch/zerr"
)

// hostTags maps host platforms to NDK prebuilt directory names.
// The NDK ships x86_64 host binaries only; arm64 macOS runs them under Rosetta.
var hostTags = map[domain.HostPlatform]string{
	"windows": "windows-x86_64",
	"linux":   "linux-x86_64",
	"darwin":  "darwin-x86_64",
}

// Resolver implements ports.ToolchainResolver.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// HostTag returns the NDK prebuilt directory name for host.
func HostTag(host domain.HostPlatform) (string, error) {
	tag, ok := hostTags[host]
	if !ok {
		return "", zerr.With(zerr.Wrap(domain.ErrUnsupportedPlatform, "no ndk prebuilt toolchain for host"), "host", string(host))
	}
	return tag, nil
}

// Resolve returns <ndkRoot>/toolchains/llvm/prebuilt/<host tag>.
// Unsupported hosts fail before the filesystem is touched.
func (r *Resolver) Resolve(ndkRoot string, host domain.HostPlatform) (string, error) {
	tag, err := HostTag(host)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(ndkRoot, "toolchains", "llvm", "prebuilt", tag)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", zerr.With(zerr.Wrap(domain.ErrToolchainNotFound, "ndk toolchain directory missing"), "path", dir)
	}
	return dir, nil
}
