// Package autotools builds projects that use the configure/make flow.
package autotools

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"go.trai.ch/ndkdeps/internal/core/domain"
	"go.trai.ch/ndkdeps/internal/core/ports"
	"go.trai.ch/zerr"
)

// Builder implements ports.ProjectBuilder for autotools projects.
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

// Build runs autogen.sh when the tree has no configure script, then
// configure, make, make install and make distclean. Every step runs with
// the full toolchain environment.
func (b *Builder) Build(ctx context.Context, req *domain.BuildRequest) error {
	env := req.Env.Environ()

	configured := hasConfigure(req.SourceDir)
	if !configured {
		b.logger.Info("no configure script in " + req.SourceDir + ", bootstrapping with autogen.sh")
	}

	for _, cmd := range Commands(req, configured) {
		if err := b.executor.Execute(ctx, cmd, env); err != nil {
			return zerr.With(errors.Join(domain.ErrBuildToolFailed, err), "stage", string(cmd.Stage))
		}
	}
	return nil
}

// Commands returns the autotools invocations for req, in order.
// autogen.sh is included only when the tree has no configure script yet.
func Commands(req *domain.BuildRequest, configured bool) []*domain.Command {
	var cmds []*domain.Command
	if !configured {
		cmds = append(cmds, &domain.Command{Stage: domain.StageAutogen, Args: []string{"./autogen.sh"}, Dir: req.SourceDir})
	}

	configure := append([]string{
		"./configure",
		"--host=" + req.Target.Triple,
		"--enable-shared",
		"--disable-static",
		"--with-pic",
		"--prefix=" + req.Env.Prefix,
	}, req.Project.EffectiveFlags(req.Target.ABI)...)

	return append(cmds,
		&domain.Command{Stage: domain.StageConfigure, Args: configure, Dir: req.SourceDir},
		&domain.Command{Stage: domain.StageCompile, Args: []string{"make"}, Dir: req.SourceDir},
		&domain.Command{Stage: domain.StageInstall, Args: []string{"make", "install"}, Dir: req.SourceDir},
		&domain.Command{Stage: domain.StageClean, Args: []string{"make", "distclean"}, Dir: req.SourceDir},
	)
}

func hasConfigure(sourceDir string) bool {
	info, err := os.Stat(filepath.Join(sourceDir, "configure"))
	return err == nil && info.Mode().IsRegular()
}
