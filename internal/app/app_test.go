package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ndkdeps/internal/adapters/config"
	"go.trai.ch/ndkdeps/internal/adapters/ledger"
	"go.trai.ch/ndkdeps/internal/adapters/toolchain"
	"go.trai.ch/ndkdeps/internal/app"
	"go.trai.ch/ndkdeps/internal/core/domain"
	"go.trai.ch/ndkdeps/internal/core/ports"
	"go.trai.ch/ndkdeps/internal/core/ports/mocks"
	"go.trai.ch/ndkdeps/internal/engine/orchestrator"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type appFixture struct {
	manifests *mocks.MockManifestLoader
	acquirer  *mocks.MockSourceAcquirer
	builder   *mocks.MockProjectBuilder
	telemetry *mocks.MockTelemetry
	vertex    *mocks.MockVertex
	logger    *mocks.MockLogger
	app       *app.App
}

func newAppFixture(ctrl *gomock.Controller) *appFixture {
	f := &appFixture{
		manifests: mocks.NewMockManifestLoader(ctrl),
		acquirer:  mocks.NewMockSourceAcquirer(ctrl),
		builder:   mocks.NewMockProjectBuilder(ctrl),
		telemetry: mocks.NewMockTelemetry(ctrl),
		vertex:    mocks.NewMockVertex(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}
	orch := orchestrator.New(
		f.acquirer,
		map[domain.BuildSystem]ports.ProjectBuilder{domain.BuildSystemMeson: f.builder},
		mocks.NewMockPublisher(ctrl),
		f.telemetry,
		f.logger,
	)
	f.app = app.New(f.manifests, toolchain.NewResolver(), ledger.Opener{}, orch, f.telemetry, f.logger).
		WithHost("linux")
	return f
}

// fakeNDK creates an NDK root containing the linux prebuilt toolchain directory.
func fakeNDK(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "ndk")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "toolchains", "llvm", "prebuilt", "linux-x86_64", "bin"), 0o750))
	return root
}

func singleProjectManifest() *domain.Manifest {
	return &domain.Manifest{
		Targets: domain.DefaultTargets()[:1],
		Projects: []domain.Project{{
			Name:        "fribidi",
			Source:      domain.ArchiveSource{URL: "https://example.com/fribidi-1.0.16.tar.xz"},
			BuildSystem: domain.BuildSystemMeson,
		}},
	}
}

func TestApp_Build(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAppFixture(ctrl)
	ndk := fakeNDK(t)
	work := t.TempDir()
	buildDir := filepath.Join(work, "build")
	outDir := filepath.Join(work, "jniLibs")

	// A previous run's leftovers must be gone after the reset.
	require.NoError(t, os.MkdirAll(buildDir, 0o750))
	stale := filepath.Join(buildDir, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o600))

	f.manifests.EXPECT().Load("").Return(singleProjectManifest(), nil)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.telemetry.EXPECT().Record(gomock.Any(), "armeabi-v7a/fribidi").
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ctx, f.vertex
		})
	f.vertex.EXPECT().Complete(nil)
	f.acquirer.EXPECT().Materialize(gomock.Any(), gomock.Any(), buildDir).
		DoAndReturn(func(_ context.Context, _ domain.Source, workDir string) (string, error) {
			assert.NoFileExists(t, stale)
			return filepath.Join(workDir, "fribidi-1.0.16"), nil
		})
	f.builder.EXPECT().Build(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *domain.BuildRequest) error {
			wantBin := filepath.Join(ndk, "toolchains", "llvm", "prebuilt", "linux-x86_64", "bin")
			assert.Equal(t, filepath.Join(wantBin, "armv7a-linux-androideabi21-clang"), req.Env.CC)
			return nil
		})
	f.telemetry.EXPECT().Summary().Return(domain.RunSummary{Completed: 1})
	f.telemetry.EXPECT().Close().Return(nil)

	err := f.app.Build(context.Background(), app.BuildOptions{
		NDKPath:    ndk,
		ABIVersion: 21,
		BuildDir:   buildDir,
		OutputDir:  outDir,
	})
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join(outDir, "armeabi-v7a"))
	assert.DirExists(t, filepath.Join(buildDir, "armeabi-v7a"))

	store, err := ledger.NewStore(filepath.Join(buildDir, domain.LedgerFileName))
	require.NoError(t, err)
	record, err := store.Get("armeabi-v7a", "fribidi")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "meson", record.BuildSystem)
}

func TestApp_Build_InvalidABIVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAppFixture(ctrl)

	err := f.app.Build(context.Background(), app.BuildOptions{NDKPath: fakeNDK(t), ABIVersion: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidABIVersion))
	assert.True(t, errors.Is(err, domain.ErrPrecondition))
}

func TestApp_Build_NDKNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAppFixture(ctrl)

	err := f.app.Build(context.Background(), app.BuildOptions{
		NDKPath:    filepath.Join(t.TempDir(), "missing"),
		ABIVersion: 21,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNDKNotFound))
	assert.True(t, errors.Is(err, domain.ErrPrecondition))
}

func TestApp_Build_UnsupportedHostLeavesFilesystemUntouched(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAppFixture(ctrl)
	f.app.WithHost("plan9")

	buildDir := filepath.Join(t.TempDir(), "build")
	require.NoError(t, os.MkdirAll(buildDir, 0o750))
	keep := filepath.Join(buildDir, "keep.txt")
	require.NoError(t, os.WriteFile(keep, []byte("x"), 0o600))

	err := f.app.Build(context.Background(), app.BuildOptions{
		NDKPath:    fakeNDK(t),
		ABIVersion: 21,
		BuildDir:   buildDir,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedPlatform))
	assert.True(t, errors.Is(err, domain.ErrPrecondition))
	assert.FileExists(t, keep)
}

func TestApp_Build_ToolchainMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAppFixture(ctrl)
	f.app.WithHost("darwin")

	err := f.app.Build(context.Background(), app.BuildOptions{NDKPath: fakeNDK(t), ABIVersion: 21})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrToolchainNotFound))
}

func TestApp_Build_FailureStopsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAppFixture(ctrl)
	work := t.TempDir()

	f.manifests.EXPECT().Load("custom.yaml").Return(singleProjectManifest(), nil)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).Times(1)
	f.telemetry.EXPECT().Record(gomock.Any(), gomock.Any()).Return(context.Background(), f.vertex)
	f.vertex.EXPECT().Complete(gomock.Not(gomock.Nil()))
	f.acquirer.EXPECT().Materialize(gomock.Any(), gomock.Any(), gomock.Any()).Return("/src", nil)
	f.builder.EXPECT().Build(gomock.Any(), gomock.Any()).
		Return(zerr.Wrap(domain.ErrBuildToolFailed, "ninja failed"))
	f.telemetry.EXPECT().Summary().Return(domain.RunSummary{Failed: 1})
	f.telemetry.EXPECT().Close().Return(nil)

	err := f.app.Build(context.Background(), app.BuildOptions{
		NDKPath:      fakeNDK(t),
		ABIVersion:   21,
		ManifestPath: "custom.yaml",
		BuildDir:     filepath.Join(work, "build"),
		OutputDir:    filepath.Join(work, "out"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBuildToolFailed))
}

func TestApp_Build_ManifestError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAppFixture(ctrl)
	f.manifests.EXPECT().Load("bad.yaml").Return(nil, zerr.Wrap(domain.ErrInvalidManifest, "duplicate project"))

	err := f.app.Build(context.Background(), app.BuildOptions{
		NDKPath:      fakeNDK(t),
		ABIVersion:   21,
		ManifestPath: "bad.yaml",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidManifest))
}

func TestApp_Plan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAppFixture(ctrl)
	f.manifests.EXPECT().Load("").Return(config.Default(), nil)

	buildDir := filepath.Join(t.TempDir(), "b")
	plan, err := f.app.Plan(context.Background(), app.PlanOptions{BuildDir: buildDir})
	require.NoError(t, err)
	require.Len(t, plan, 32)
	assert.Equal(t, filepath.Join(buildDir, "harfbuzz-11.3.3"), plan[0].SourceDir)
	assert.NoDirExists(t, buildDir)
}

func TestApp_Plan_ReportsLastBuild(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAppFixture(ctrl)
	f.manifests.EXPECT().Load("").Return(config.Default(), nil)

	buildDir := filepath.Join(t.TempDir(), "b")
	built := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store, err := ledger.NewStore(domain.Layout{BuildRoot: buildDir}.LedgerPath())
	require.NoError(t, err)
	require.NoError(t, store.Put(domain.BuildRecord{
		ABI:       "armeabi-v7a",
		Project:   "harfbuzz",
		Timestamp: built,
	}))

	plan, err := f.app.Plan(context.Background(), app.PlanOptions{BuildDir: buildDir})
	require.NoError(t, err)
	require.Len(t, plan, 32)
	assert.True(t, built.Equal(plan[0].LastBuilt))
	assert.True(t, plan[1].LastBuilt.IsZero())
}

func TestApp_Plan_UnreadableLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAppFixture(ctrl)
	f.manifests.EXPECT().Load("").Return(config.Default(), nil)
	f.logger.EXPECT().Warn(gomock.Any()).Times(1)

	buildDir := t.TempDir()
	require.NoError(t, os.WriteFile(domain.Layout{BuildRoot: buildDir}.LedgerPath(), []byte("{not json"), 0o600))

	plan, err := f.app.Plan(context.Background(), app.PlanOptions{BuildDir: buildDir})
	require.NoError(t, err)
	assert.Len(t, plan, 32)
}

func TestApp_Clean(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAppFixture(ctrl)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	work := t.TempDir()
	buildDir := filepath.Join(work, "build")
	outDir := filepath.Join(work, "out")
	require.NoError(t, os.MkdirAll(filepath.Join(buildDir, "x86"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(outDir, "x86"), 0o750))

	require.NoError(t, f.app.Clean(context.Background(), app.CleanOptions{BuildDir: buildDir, OutputDir: outDir}))
	assert.NoDirExists(t, buildDir)
	assert.DirExists(t, outDir)

	require.NoError(t, f.app.Clean(context.Background(), app.CleanOptions{
		BuildDir: buildDir, OutputDir: outDir, Output: true,
	}))
	assert.NoDirExists(t, outDir)
}
