// Package orchestrator drives the per-ABI, per-project build loop.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/ndkdeps/internal/adapters/ledger" //nolint:depguard // fingerprint helper
	"go.trai.ch/ndkdeps/internal/core/domain"
	"go.trai.ch/ndkdeps/internal/core/ports"
	"go.trai.ch/zerr"
)

// Step names the phase of a project build an orchestrator error belongs to.
type Step string

const (
	StepPrepare Step = "prepare"
	StepAcquire Step = "acquire"
	StepBuild   Step = "build"
	StepPublish Step = "publish"
	StepRecord  Step = "record"
)

// RunSpec describes one run of the loop.
type RunSpec struct {
	Manifest     *domain.Manifest
	Layout       domain.Layout
	ToolchainDir string
	ABIVersion   int
	// Publish enables the artifact hand-off into Layout.OutputDir.
	Publish bool
	// Ledger receives one record per installed project. Nil disables recording.
	Ledger ports.BuildRecordStore
}

// Orchestrator runs every project of a manifest for every target, strictly in order.
type Orchestrator struct {
	acquirer  ports.SourceAcquirer
	builders  map[domain.BuildSystem]ports.ProjectBuilder
	publisher ports.Publisher
	telemetry ports.Telemetry
	logger    ports.Logger
	now       func() time.Time
}

// New creates a new Orchestrator.
func New(
	acquirer ports.SourceAcquirer,
	builders map[domain.BuildSystem]ports.ProjectBuilder,
	publisher ports.Publisher,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		acquirer:  acquirer,
		builders:  builders,
		publisher: publisher,
		telemetry: telemetry,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes the loop: targets outer, projects inner.
// The first failure aborts the run.
func (o *Orchestrator) Run(ctx context.Context, spec *RunSpec) error {
	for i := range spec.Manifest.Targets {
		target := spec.Manifest.Targets[i]

		prefix, err := o.prepareTarget(spec, target)
		if err != nil {
			return stepError(err, StepPrepare, target.ABI, "")
		}

		for j := range spec.Manifest.Projects {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := o.runProject(ctx, spec, target, prefix, &spec.Manifest.Projects[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

// prepareTarget recreates the ABI's output directory and creates its staging prefix.
func (o *Orchestrator) prepareTarget(spec *RunSpec, target domain.Target) (domain.StagingPrefix, error) {
	out := spec.Layout.OutputDir(target.ABI)
	if err := os.RemoveAll(out); err != nil {
		return domain.StagingPrefix{}, zerr.With(zerr.Wrap(err, "failed to clear output directory"), "path", out)
	}
	if err := os.MkdirAll(out, 0o750); err != nil {
		return domain.StagingPrefix{}, zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", out)
	}

	prefix := spec.Layout.StagingPrefix(target.ABI)
	if err := os.MkdirAll(prefix.Dir, 0o750); err != nil {
		return domain.StagingPrefix{}, zerr.With(zerr.Wrap(err, "failed to create staging prefix"), "path", prefix.Dir)
	}
	return prefix, nil
}

func (o *Orchestrator) runProject(
	ctx context.Context,
	spec *RunSpec,
	target domain.Target,
	prefix domain.StagingPrefix,
	project *domain.Project,
) (err error) {
	o.logger.Info(fmt.Sprintf("=== Building %s for %s ===", project.Name, target.ABI))

	ctx, vertex := o.telemetry.Record(ctx, target.ABI+"/"+project.Name)
	defer func() { vertex.Complete(err) }()

	srcDir, err := o.acquirer.Materialize(ctx, project.Source, spec.Layout.BuildRoot)
	if err != nil {
		return stepError(err, StepAcquire, target.ABI, project.Name)
	}

	env := domain.NewToolchainEnvironment(target, spec.ABIVersion, spec.ToolchainDir, prefix)

	builder, ok := o.builders[project.BuildSystem]
	if !ok {
		err = zerr.With(zerr.Wrap(domain.ErrUnknownBuildSystem, "no builder for build system"),
			"build_system", project.BuildSystem.String())
		return stepError(err, StepBuild, target.ABI, project.Name)
	}

	req := &domain.BuildRequest{
		Project:   project,
		Target:    target,
		Env:       env,
		SourceDir: srcDir,
		CrossFile: spec.Layout.CrossFilePath(target.ABI),
	}
	if err = builder.Build(ctx, req); err != nil {
		return stepError(err, StepBuild, target.ABI, project.Name)
	}

	if spec.Publish {
		if err = o.publisher.Publish(ctx, project, prefix, spec.Layout.OutputDir(target.ABI)); err != nil {
			return stepError(err, StepPublish, target.ABI, project.Name)
		}
	}

	if spec.Ledger != nil {
		flags := project.EffectiveFlags(target.ABI)
		record := domain.BuildRecord{
			ABI:         target.ABI,
			Project:     project.Name,
			BuildSystem: project.BuildSystem.String(),
			Flags:       flags,
			Fingerprint: ledger.Fingerprint(flags, env.Environ()),
			Prefix:      prefix.Dir,
			Timestamp:   o.now().UTC(),
		}
		if err = spec.Ledger.Put(record); err != nil {
			return stepError(err, StepRecord, target.ABI, project.Name)
		}
	}

	return nil
}

func stepError(err error, step Step, abi, project string) error {
	wrapped := zerr.With(zerr.With(zerr.Wrap(err, "build step failed"), "stage", string(step)), "abi", abi)
	if project != "" {
		wrapped = zerr.With(wrapped, "project", project)
	}
	return wrapped
}

// Plan returns the ordered build steps of spec without touching the filesystem.
func Plan(spec *RunSpec) ([]domain.PlannedBuild, error) {
	m := spec.Manifest
	plan := make([]domain.PlannedBuild, 0, len(m.Targets)*len(m.Projects))
	for _, target := range m.Targets {
		for i := range m.Projects {
			p := &m.Projects[i]
			dir, err := p.Source.DirName()
			if err != nil {
				return nil, zerr.With(err, "project", p.Name)
			}
			plan = append(plan, domain.PlannedBuild{
				Target:      target,
				Project:     p.Name,
				BuildSystem: p.BuildSystem,
				SourceDir:   filepath.Join(spec.Layout.BuildRoot, dir),
				Flags:       p.EffectiveFlags(target.ABI),
			})
		}
	}
	return plan, nil
}
