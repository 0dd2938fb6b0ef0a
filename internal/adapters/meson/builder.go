// Package meson builds projects that use the Meson/Ninja build system.
package meson

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"go.trai.ch/ndkdeps/internal/core/domain"
	"go.trai.ch/ndkdeps/internal/core/ports"
	"go.trai.ch/zerr"
)

// buildDirName is the out-of-tree build directory inside the source tree.
const buildDirName = "build"

// Builder implements ports.ProjectBuilder for Meson projects.
type Builder struct {
	executor ports.Executor
	logger   ports.Logger
}

// NewBuilder creates a new Builder.
func NewBuilder(executor ports.Executor, logger ports.Logger) *Builder {
	return &Builder{
		executor: executor,
		logger:   logger,
	}
}

// Build writes the cross file, runs meson setup, ninja and ninja install,
// then removes the build directory and the cross file.
// Nothing is cleaned up when a step fails.
func (b *Builder) Build(ctx context.Context, req *domain.BuildRequest) error {
	if err := WriteCrossFile(req.CrossFile, req.Target, req.Env); err != nil {
		return err
	}
	b.logger.Info("wrote meson cross file " + req.CrossFile)

	for _, cmd := range Commands(req) {
		if err := b.executor.Execute(ctx, cmd, nil); err != nil {
			return zerr.With(errors.Join(domain.ErrBuildToolFailed, err), "stage", string(cmd.Stage))
		}
	}

	if err := os.RemoveAll(filepath.Join(req.SourceDir, buildDirName)); err != nil {
		return zerr.Wrap(err, "failed to remove meson build directory")
	}
	if err := os.Remove(req.CrossFile); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove cross file"), "path", req.CrossFile)
	}
	return nil
}

// Commands returns the meson and ninja invocations for req, in order.
func Commands(req *domain.BuildRequest) []*domain.Command {
	setup := append([]string{"meson", "setup", buildDirName, "--cross-file", req.CrossFile},
		req.Project.EffectiveFlags(req.Target.ABI)...)

	return []*domain.Command{
		{Stage: domain.StageConfigure, Args: setup, Dir: req.SourceDir},
		{Stage: domain.StageCompile, Args: []string{"ninja", "-C", buildDirName}, Dir: req.SourceDir},
		{Stage: domain.StageInstall, Args: []string{"ninja", "-C", buildDirName, "install"}, Dir: req.SourceDir},
	}
}
