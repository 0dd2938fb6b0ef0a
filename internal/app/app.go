// Package app implements the application layer for ndkdeps.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/muesli/termenv"
	"go.trai.ch/ndkdeps/internal/adapters/detector" //nolint:depguard // output selection lives in the app layer
	"go.trai.ch/ndkdeps/internal/core/domain"
	"go.trai.ch/ndkdeps/internal/core/ports"
	"go.trai.ch/ndkdeps/internal/engine/orchestrator"
	"go.trai.ch/ndkdeps/internal/ui/output"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	manifests    ports.ManifestLoader
	toolchains   ports.ToolchainResolver
	ledgers      ports.LedgerOpener
	orchestrator *orchestrator.Orchestrator
	telemetry    ports.Telemetry
	logger       ports.Logger
	host         domain.HostPlatform
}

// New creates a new App instance.
func New(
	manifests ports.ManifestLoader,
	toolchains ports.ToolchainResolver,
	ledgers ports.LedgerOpener,
	orch *orchestrator.Orchestrator,
	telemetry ports.Telemetry,
	log ports.Logger,
) *App {
	return &App{
		manifests:    manifests,
		toolchains:   toolchains,
		ledgers:      ledgers,
		orchestrator: orch,
		telemetry:    telemetry,
		logger:       log,
		host:         domain.CurrentHost(),
	}
}

// WithHost overrides the detected host platform.
// This is primarily used for testing toolchain resolution.
func (a *App) WithHost(host domain.HostPlatform) *App {
	a.host = host
	return a
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	NDKPath      string
	ABIVersion   int
	ManifestPath string
	BuildDir     string
	OutputDir    string
	Publish      bool
}

// Build cross-compiles every project of the manifest for every target.
//
//nolint:cyclop // orchestration function
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	// 1. Preconditions
	if opts.ABIVersion <= 0 {
		return zerr.With(zerr.Wrap(domain.ErrInvalidABIVersion, "abi version must be positive"),
			"abi_version", opts.ABIVersion)
	}

	info, err := os.Stat(opts.NDKPath)
	if err != nil || !info.IsDir() {
		return zerr.With(zerr.Wrap(domain.ErrNDKNotFound, "ndk path is not a directory"), "path", opts.NDKPath)
	}

	toolchainDir, err := a.toolchains.Resolve(opts.NDKPath, a.host)
	if err != nil {
		return err
	}

	// 2. Load the manifest
	manifest, err := a.manifests.Load(opts.ManifestPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}

	layout, err := resolveLayout(opts.BuildDir, opts.OutputDir)
	if err != nil {
		return err
	}

	// 3. Reset the build root
	if err := resetDir(layout.BuildRoot); err != nil {
		return err
	}

	store, err := a.ledgers.Open(layout.LedgerPath())
	if err != nil {
		return zerr.Wrap(err, "failed to open ledger")
	}

	a.logger.Info(fmt.Sprintf("building %d projects for %d abis (api level %d) with %s",
		len(manifest.Projects), len(manifest.Targets), opts.ABIVersion, toolchainDir))

	// 4. Run the orchestrator
	runErr := a.orchestrator.Run(ctx, &orchestrator.RunSpec{
		Manifest:     manifest,
		Layout:       layout,
		ToolchainDir: toolchainDir,
		ABIVersion:   opts.ABIVersion,
		Publish:      opts.Publish,
		Ledger:       store,
	})

	summary := a.telemetry.Summary()
	closeErr := a.telemetry.Close()

	if runErr != nil {
		a.logger.Warn(fmt.Sprintf("%d of %d builds completed before the failure",
			summary.Completed, len(manifest.Projects)*len(manifest.Targets)))
		return runErr
	}
	if closeErr != nil {
		return zerr.Wrap(closeErr, "failed to close telemetry")
	}

	a.logger.Info(fmt.Sprintf("%d builds completed, libraries installed under %s", summary.Completed, layout.BuildRoot))
	return nil
}

// PlanOptions configuration for the Plan method.
type PlanOptions struct {
	ManifestPath string
	BuildDir     string
}

// Plan returns the ordered build steps without running anything, annotated
// with what the ledger of the previous run recorded.
func (a *App) Plan(_ context.Context, opts PlanOptions) ([]domain.PlannedBuild, error) {
	manifest, err := a.manifests.Load(opts.ManifestPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load manifest")
	}

	layout, err := resolveLayout(opts.BuildDir, "")
	if err != nil {
		return nil, err
	}

	plan, err := orchestrator.Plan(&orchestrator.RunSpec{Manifest: manifest, Layout: layout})
	if err != nil {
		return nil, err
	}

	store, err := a.ledgers.Open(layout.LedgerPath())
	if err != nil {
		a.logger.Warn("ignoring unreadable ledger: " + err.Error())
		return plan, nil
	}
	for i := range plan {
		record, err := store.Get(plan[i].Target.ABI, plan[i].Project)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to read ledger")
		}
		if record != nil {
			plan[i].LastBuilt = record.Timestamp
		}
	}
	return plan, nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	BuildDir  string
	OutputDir string
	// Output also removes the publish tree.
	Output bool
}

// Clean removes the build root and optionally the publish tree.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	layout, err := resolveLayout(opts.BuildDir, opts.OutputDir)
	if err != nil {
		return err
	}

	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to remove "+name), "path", path))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(layout.BuildRoot, "build directory")
	if opts.Output {
		remove(layout.OutputRoot, "output directory")
	}

	return errs
}

type outputConfigurer interface {
	SetJSON(enable bool)
	SetColorProfile(profileFn func() termenv.Profile)
}

// ConfigureOutput selects the log format from the --log-format flag and the environment.
func (a *App) ConfigureOutput(format string) {
	l, ok := a.logger.(outputConfigurer)
	if !ok {
		return
	}

	switch detector.ResolveMode(detector.DetectEnvironment(), format) {
	case detector.ModeJSON:
		l.SetJSON(true)
	case detector.ModeLinear:
		l.SetColorProfile(output.ColorProfileANSI)
	default:
		l.SetColorProfile(output.ColorProfile)
	}
}

func resolveLayout(buildDir, outputDir string) (domain.Layout, error) {
	if buildDir == "" {
		buildDir = domain.DefaultBuildDir
	}
	if outputDir == "" {
		outputDir = domain.DefaultOutputDir
	}

	// Tools run inside source trees, so every path handed to them must be absolute.
	buildRoot, err := filepath.Abs(buildDir)
	if err != nil {
		return domain.Layout{}, zerr.With(zerr.Wrap(err, "failed to resolve build directory"), "path", buildDir)
	}
	outputRoot, err := filepath.Abs(outputDir)
	if err != nil {
		return domain.Layout{}, zerr.With(zerr.Wrap(err, "failed to resolve output directory"), "path", outputDir)
	}
	return domain.Layout{BuildRoot: buildRoot, OutputRoot: outputRoot}, nil
}

func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove build directory"), "path", dir)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create build directory"), "path", dir)
	}
	return nil
}
