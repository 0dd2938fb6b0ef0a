// Package source materializes project source trees from archives or git repositories.
package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"go.trai.ch/ndkdeps/internal/core/domain"
	"go.trai.ch/ndkdeps/internal/core/ports"
	"go.trai.ch/zerr"
)

// Acquirer implements ports.SourceAcquirer.
type Acquirer struct {
	downloader ports.Downloader
	extractor  ports.ArchiveExtractor
	executor   ports.Executor
	logger     ports.Logger
}

// NewAcquirer creates a new Acquirer.
func NewAcquirer(
	downloader ports.Downloader,
	extractor ports.ArchiveExtractor,
	executor ports.Executor,
	logger ports.Logger,
) *Acquirer {
	return &Acquirer{
		downloader: downloader,
		extractor:  extractor,
		executor:   executor,
		logger:     logger,
	}
}

// Materialize ensures the source tree of src exists under workDir and returns its path.
// A directory that already exists is trusted as is, complete or not.
func (a *Acquirer) Materialize(ctx context.Context, src domain.Source, workDir string) (string, error) {
	dirName, err := src.DirName()
	if err != nil {
		return "", acquisitionError(err, src)
	}

	dest := filepath.Join(workDir, dirName)
	if isDir(dest) {
		a.logger.Info("using existing source tree " + dest)
		return dest, nil
	}

	switch s := src.(type) {
	case domain.ArchiveSource:
		err = a.fetchArchive(ctx, s, workDir)
	case domain.RepositorySource:
		err = a.cloneRepository(ctx, s, workDir)
	default:
		err = zerr.New("unhandled source kind")
	}
	if err != nil {
		return "", acquisitionError(err, src)
	}

	if !isDir(dest) {
		err := zerr.With(zerr.New("source tree missing after acquisition"), "path", dest)
		return "", acquisitionError(err, src)
	}
	return dest, nil
}

func (a *Acquirer) fetchArchive(ctx context.Context, s domain.ArchiveSource, workDir string) error {
	fileName, err := s.FileName()
	if err != nil {
		return err
	}

	archivePath := filepath.Join(workDir, fileName)
	if err := a.downloader.Download(ctx, s.URL, archivePath); err != nil {
		return err
	}

	a.logger.Info("extracting " + fileName)
	return a.extractor.Extract(ctx, archivePath, workDir)
}

func (a *Acquirer) cloneRepository(ctx context.Context, s domain.RepositorySource, workDir string) error {
	a.logger.Info("cloning " + s.URL + " at " + s.Tag)
	return a.executor.Execute(ctx, CloneCommand(s, workDir), nil)
}

// CloneCommand returns the shallow, single-branch git clone of s pinned to its tag.
func CloneCommand(s domain.RepositorySource, workDir string) *domain.Command {
	args := []string{"git", "clone", "--branch", s.Tag, "--single-branch", "--depth", "1"}
	if s.Recursive {
		args = append(args, "--recursive", "--shallow-submodules")
	}
	args = append(args, s.URL)

	return &domain.Command{
		Stage: domain.StageAcquire,
		Args:  args,
		Dir:   workDir,
	}
}

func acquisitionError(err error, src domain.Source) error {
	return zerr.With(errors.Join(domain.ErrAcquisitionFailed, err), "url", src.Location())
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
