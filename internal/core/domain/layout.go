package domain

import "path/filepath"

const (
	// LedgerFileName is the name of the run ledger inside the build root.
	LedgerFileName = "ndkdeps_state.json"
	// DefaultBuildDir is the build root used when none is given.
	DefaultBuildDir = "build_native_lib"
	// DefaultOutputDir is the publish root used when none is given.
	DefaultOutputDir = "jniLibs"
)

// StagingPrefix is the per-ABI install root shared by every project of that ABI.
type StagingPrefix struct {
	ABI string
	Dir string
}

// LibDir returns the directory installed libraries land in.
func (p StagingPrefix) LibDir() string {
	return filepath.Join(p.Dir, "lib")
}

// PkgConfigPath returns the pkg-config search directory of the prefix.
func (p StagingPrefix) PkgConfigPath() string {
	return filepath.Join(p.Dir, "lib", "pkgconfig")
}

// Layout is the on-disk layout of a run.
type Layout struct {
	// BuildRoot holds source trees, staging prefixes, cross files and the ledger.
	BuildRoot string
	// OutputRoot holds the per-ABI publish directories.
	OutputRoot string
}

// StagingPrefix returns the staging prefix for abi.
func (l Layout) StagingPrefix(abi string) StagingPrefix {
	return StagingPrefix{ABI: abi, Dir: filepath.Join(l.BuildRoot, abi)}
}

// OutputDir returns the publish directory for abi.
func (l Layout) OutputDir(abi string) string {
	return filepath.Join(l.OutputRoot, abi)
}

// CrossFilePath returns where the Meson cross file for abi is generated.
func (l Layout) CrossFilePath(abi string) string {
	return filepath.Join(l.BuildRoot, abi+".txt")
}

// LedgerPath returns the path of the run ledger.
func (l Layout) LedgerPath() string {
	return filepath.Join(l.BuildRoot, LedgerFileName)
}
