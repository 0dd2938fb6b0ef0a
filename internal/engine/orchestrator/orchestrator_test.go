package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ndkdeps/internal/adapters/config"
	"go.trai.ch/ndkdeps/internal/core/domain"
	"go.trai.ch/ndkdeps/internal/core/ports"
	"go.trai.ch/ndkdeps/internal/core/ports/mocks"
	"go.trai.ch/ndkdeps/internal/engine/orchestrator"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	acquirer  *mocks.MockSourceAcquirer
	meson     *mocks.MockProjectBuilder
	autotools *mocks.MockProjectBuilder
	publisher *mocks.MockPublisher
	telemetry *mocks.MockTelemetry
	vertex    *mocks.MockVertex
	logger    *mocks.MockLogger
	orch      *orchestrator.Orchestrator
	layout    domain.Layout
}

func newFixture(t *testing.T, ctrl *gomock.Controller) *fixture {
	t.Helper()
	f := &fixture{
		acquirer:  mocks.NewMockSourceAcquirer(ctrl),
		meson:     mocks.NewMockProjectBuilder(ctrl),
		autotools: mocks.NewMockProjectBuilder(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
		telemetry: mocks.NewMockTelemetry(ctrl),
		vertex:    mocks.NewMockVertex(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}
	root := t.TempDir()
	f.layout = domain.Layout{
		BuildRoot:  filepath.Join(root, "build"),
		OutputRoot: filepath.Join(root, "jniLibs"),
	}
	f.orch = orchestrator.New(
		f.acquirer,
		map[domain.BuildSystem]ports.ProjectBuilder{
			domain.BuildSystemMeson:     f.meson,
			domain.BuildSystemAutotools: f.autotools,
		},
		f.publisher,
		f.telemetry,
		f.logger,
	)

	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.telemetry.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ctx, f.vertex
		}).AnyTimes()
	f.acquirer.EXPECT().Materialize(gomock.Any(), gomock.Any(), f.layout.BuildRoot).
		DoAndReturn(func(_ context.Context, src domain.Source, workDir string) (string, error) {
			dir, err := src.DirName()
			return filepath.Join(workDir, dir), err
		}).AnyTimes()
	return f
}

// recordBuilds makes both builders append "<abi>/<project>" to calls and
// fail with failErr on invocation number failAt (1-based, 0 never fails).
func (f *fixture) recordBuilds(calls *[]string, failAt int, failErr error) {
	build := func(_ context.Context, req *domain.BuildRequest) error {
		*calls = append(*calls, req.Target.ABI+"/"+req.Project.Name)
		if len(*calls) == failAt {
			return failErr
		}
		return nil
	}
	f.meson.EXPECT().Build(gomock.Any(), gomock.Any()).DoAndReturn(build).AnyTimes()
	f.autotools.EXPECT().Build(gomock.Any(), gomock.Any()).DoAndReturn(build).AnyTimes()
}

func TestOrchestrator_Run_BuildsEveryProjectForEveryTargetInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)
	manifest := config.Default()

	var calls []string
	f.recordBuilds(&calls, 0, nil)
	f.vertex.EXPECT().Complete(nil).Times(32)

	store := mocks.NewMockBuildRecordStore(ctrl)
	store.EXPECT().Put(gomock.Any()).Times(32).Return(nil)

	err := f.orch.Run(context.Background(), &orchestrator.RunSpec{
		Manifest:     manifest,
		Layout:       f.layout,
		ToolchainDir: "/ndk/toolchains/llvm/prebuilt/linux-x86_64",
		ABIVersion:   21,
		Ledger:       store,
	})
	require.NoError(t, err)

	var want []string
	for _, target := range manifest.Targets {
		for _, p := range manifest.Projects {
			want = append(want, target.ABI+"/"+p.Name)
		}
	}
	require.Len(t, want, 32)
	assert.Equal(t, want, calls)

	for _, target := range manifest.Targets {
		assert.DirExists(t, f.layout.OutputDir(target.ABI))
		assert.DirExists(t, f.layout.StagingPrefix(target.ABI).Dir)
	}
}

func TestOrchestrator_Run_StopsAtFirstFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)
	manifest := config.Default()

	buildErr := zerr.Wrap(domain.ErrBuildToolFailed, "make failed")
	var calls []string
	f.recordBuilds(&calls, 3, buildErr)
	f.vertex.EXPECT().Complete(nil).Times(2)
	f.vertex.EXPECT().Complete(gomock.Not(gomock.Nil())).Times(1)

	err := f.orch.Run(context.Background(), &orchestrator.RunSpec{
		Manifest:     manifest,
		Layout:       f.layout,
		ToolchainDir: "/tc",
		ABIVersion:   21,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBuildToolFailed))
	assert.Equal(t, []string{"armeabi-v7a/harfbuzz", "armeabi-v7a/freetype", "armeabi-v7a/fribidi"}, calls)

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	meta := zErr.Metadata()
	assert.Equal(t, "fribidi", meta["project"])
	assert.Equal(t, "armeabi-v7a", meta["abi"])
	assert.Equal(t, string(orchestrator.StepBuild), meta["stage"])

	// Later targets never start.
	assert.NoDirExists(t, f.layout.OutputDir("arm64-v8a"))
}

func TestOrchestrator_Run_AcquisitionFailureSkipsBuild(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	acquirer := mocks.NewMockSourceAcquirer(ctrl)
	tel := mocks.NewMockTelemetry(ctrl)
	vertex := mocks.NewMockVertex(ctrl)
	builder := mocks.NewMockProjectBuilder(ctrl)

	tel.EXPECT().Record(gomock.Any(), "x86/expat").Return(context.Background(), vertex)
	vertex.EXPECT().Complete(gomock.Any())
	acquirer.EXPECT().Materialize(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", zerr.Wrap(domain.ErrAcquisitionFailed, "download failed"))

	orch := orchestrator.New(acquirer,
		map[domain.BuildSystem]ports.ProjectBuilder{domain.BuildSystemAutotools: builder},
		nil, tel, logger)

	root := t.TempDir()
	err := orch.Run(context.Background(), &orchestrator.RunSpec{
		Manifest: &domain.Manifest{
			Targets: []domain.Target{domain.DefaultTargets()[2]},
			Projects: []domain.Project{{
				Name:        "expat",
				Source:      domain.ArchiveSource{URL: "https://example.com/expat-2.7.1.tar.xz"},
				BuildSystem: domain.BuildSystemAutotools,
			}},
		},
		Layout:     domain.Layout{BuildRoot: filepath.Join(root, "b"), OutputRoot: filepath.Join(root, "o")},
		ABIVersion: 21,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAcquisitionFailed))
}

func TestOrchestrator_Run_UnknownBuildSystem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)
	f.vertex.EXPECT().Complete(gomock.Any())

	err := f.orch.Run(context.Background(), &orchestrator.RunSpec{
		Manifest: &domain.Manifest{
			Targets: domain.DefaultTargets()[:1],
			Projects: []domain.Project{{
				Name:   "mystery",
				Source: domain.ArchiveSource{URL: "https://example.com/mystery-1.0.tar.gz"},
			}},
		},
		Layout:     f.layout,
		ABIVersion: 21,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownBuildSystem))
}

func TestOrchestrator_Run_PassesDerivedEnvironment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)
	f.vertex.EXPECT().Complete(nil)

	target := domain.DefaultTargets()[1]
	project := domain.Project{
		Name:        "ass",
		Source:      domain.ArchiveSource{URL: "https://example.com/libass-0.17.3.tar.xz"},
		BuildSystem: domain.BuildSystemAutotools,
		Flags:       []string{"--enable-fontconfig"},
		ABIFlags:    map[string][]string{"arm64-v8a": {"--enable-asm"}},
	}

	f.autotools.EXPECT().Build(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *domain.BuildRequest) error {
			prefix := f.layout.StagingPrefix("arm64-v8a")
			assert.Equal(t, prefix.Dir, req.Env.Prefix)
			assert.Equal(t, prefix.PkgConfigPath(), req.Env.PkgConfigPath)
			assert.Equal(t, "/tc/bin/aarch64-linux-android24-clang", req.Env.CC)
			assert.Equal(t, filepath.Join(f.layout.BuildRoot, "libass-0.17.3"), req.SourceDir)
			assert.Equal(t, f.layout.CrossFilePath("arm64-v8a"), req.CrossFile)
			assert.Equal(t, []string{"--enable-fontconfig", "--enable-asm"}, req.Project.EffectiveFlags(req.Target.ABI))
			return nil
		})

	err := f.orch.Run(context.Background(), &orchestrator.RunSpec{
		Manifest:     &domain.Manifest{Targets: []domain.Target{target}, Projects: []domain.Project{project}},
		Layout:       f.layout,
		ToolchainDir: "/tc",
		ABIVersion:   24,
	})
	require.NoError(t, err)
}

func TestOrchestrator_Run_RecreatesOutputDirAndPublishes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)
	f.vertex.EXPECT().Complete(nil)

	outDir := f.layout.OutputDir("x86")
	require.NoError(t, os.MkdirAll(outDir, 0o750))
	stale := filepath.Join(outDir, "libstale.so")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o600))

	project := domain.Project{
		Name:        "fribidi",
		Source:      domain.ArchiveSource{URL: "https://example.com/fribidi-1.0.16.tar.xz"},
		BuildSystem: domain.BuildSystemMeson,
	}
	f.meson.EXPECT().Build(gomock.Any(), gomock.Any()).Return(nil)
	f.publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any(), f.layout.StagingPrefix("x86"), outDir).
		DoAndReturn(func(_ context.Context, p *domain.Project, _ domain.StagingPrefix, _ string) error {
			assert.Equal(t, "fribidi", p.Name)
			return nil
		})

	err := f.orch.Run(context.Background(), &orchestrator.RunSpec{
		Manifest: &domain.Manifest{
			Targets:  []domain.Target{domain.DefaultTargets()[2]},
			Projects: []domain.Project{project},
		},
		Layout:     f.layout,
		ABIVersion: 21,
		Publish:    true,
	})
	require.NoError(t, err)
	assert.NoFileExists(t, stale)
	assert.DirExists(t, outDir)
}

func TestOrchestrator_Run_RecordsLedgerEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)
	f.vertex.EXPECT().Complete(nil)
	f.meson.EXPECT().Build(gomock.Any(), gomock.Any()).Return(nil)

	store := mocks.NewMockBuildRecordStore(ctrl)
	store.EXPECT().Put(gomock.Any()).DoAndReturn(func(r domain.BuildRecord) error {
		assert.Equal(t, "x86-64", r.ABI)
		assert.Equal(t, "harfbuzz", r.Project)
		assert.Equal(t, "meson", r.BuildSystem)
		assert.Equal(t, []string{"-Dtests=disabled"}, r.Flags)
		assert.Equal(t, f.layout.StagingPrefix("x86-64").Dir, r.Prefix)
		assert.NotZero(t, r.Fingerprint)
		assert.False(t, r.Timestamp.IsZero())
		return nil
	})

	err := f.orch.Run(context.Background(), &orchestrator.RunSpec{
		Manifest: &domain.Manifest{
			Targets: []domain.Target{domain.DefaultTargets()[3]},
			Projects: []domain.Project{{
				Name:        "harfbuzz",
				Source:      domain.ArchiveSource{URL: "https://example.com/harfbuzz-11.3.3.tar.xz"},
				BuildSystem: domain.BuildSystemMeson,
				Flags:       []string{"-Dtests=disabled"},
			}},
		},
		Layout:     f.layout,
		ABIVersion: 21,
		Ledger:     store,
	})
	require.NoError(t, err)
}

func TestPlan(t *testing.T) {
	manifest := config.Default()
	layout := domain.Layout{BuildRoot: "/b", OutputRoot: "/o"}

	plan, err := orchestrator.Plan(&orchestrator.RunSpec{Manifest: manifest, Layout: layout})
	require.NoError(t, err)
	require.Len(t, plan, 32)

	first := plan[0]
	assert.Equal(t, "armeabi-v7a", first.Target.ABI)
	assert.Equal(t, "harfbuzz", first.Project)
	assert.Equal(t, "/b/harfbuzz-11.3.3", first.SourceDir)

	for _, step := range plan {
		if step.Project != "ass" {
			continue
		}
		if step.Target.ABI == "armeabi-v7a" {
			assert.NotContains(t, step.Flags, "--enable-asm")
		} else {
			assert.Contains(t, step.Flags, "--enable-asm")
		}
	}

	last := plan[31]
	assert.Equal(t, "x86-64", last.Target.ABI)
	assert.Equal(t, "placebo", last.Project)
	assert.Equal(t, "/b/libplacebo", last.SourceDir)
}
