// Package publish copies installed shared libraries into the application's
// per-ABI library directory.
package publish

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/ndkdeps/internal/core/domain"
	"go.trai.ch/ndkdeps/internal/core/ports"
	"go.trai.ch/zerr"
)

// SharedLibraryPublisher implements ports.Publisher by copying lib<name>.so.
type SharedLibraryPublisher struct {
	logger ports.Logger
}

// NewSharedLibraryPublisher creates a new SharedLibraryPublisher.
func NewSharedLibraryPublisher(logger ports.Logger) *SharedLibraryPublisher {
	return &SharedLibraryPublisher{logger: logger}
}

// LibraryName returns the shared object file name of project.
func LibraryName(project *domain.Project) string {
	return "lib" + project.Name + ".so"
}

// Publish copies <prefix>/lib/lib<name>.so into destDir.
func (p *SharedLibraryPublisher) Publish(
	ctx context.Context,
	project *domain.Project,
	prefix domain.StagingPrefix,
	destDir string,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src := filepath.Join(prefix.LibDir(), LibraryName(project))
	info, err := os.Stat(src)
	if err != nil || !info.Mode().IsRegular() {
		return zerr.With(zerr.Wrap(domain.ErrArtifactNotFound, "shared library not installed"), "path", src)
	}

	dest := filepath.Join(destDir, LibraryName(project))
	if err := copyFile(src, dest, info.Mode().Perm()); err != nil {
		return zerr.With(err, "path", dest)
	}

	p.logger.Info("published " + dest)
	return nil
}

func copyFile(src, dest string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return zerr.Wrap(err, "failed to open library")
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return zerr.Wrap(err, "failed to create published library")
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.Wrap(err, "failed to copy library")
	}
	return out.Close()
}
