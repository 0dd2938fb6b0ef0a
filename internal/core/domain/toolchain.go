package domain

import (
	"path/filepath"
	"runtime"
	"strconv"
)

// PageSizeLDFLAGS is passed to every link so shared objects load on 16 KiB page devices.
const PageSizeLDFLAGS = "-Wl,-z,max-page-size=16384"

// HostPlatform is the operating system the NDK toolchain runs on.
type HostPlatform string

// CurrentHost returns the platform of the running process.
func CurrentHost() HostPlatform {
	return HostPlatform(runtime.GOOS)
}

// ToolchainEnvironment is the set of tool paths and variables one build step runs with.
// It is derived per (target, project) and never persisted.
type ToolchainEnvironment struct {
	CC     string
	CXX    string
	AR     string
	AS     string
	LD     string
	NM     string
	RANLIB string
	STRIP  string
	YASM   string

	LDFLAGS       string
	Prefix        string
	PkgConfigPath string
}

// NewToolchainEnvironment derives the environment for target from the resolved
// toolchain directory. The install prefix comes only from the staging prefix.
func NewToolchainEnvironment(
	target Target,
	abiVersion int,
	toolchainDir string,
	prefix StagingPrefix,
) ToolchainEnvironment {
	bin := filepath.Join(toolchainDir, "bin")
	clang := target.Triple + strconv.Itoa(abiVersion) + "-clang"

	return ToolchainEnvironment{
		CC:            filepath.Join(bin, clang),
		CXX:           filepath.Join(bin, clang+"++"),
		AR:            filepath.Join(bin, "llvm-ar"),
		AS:            filepath.Join(bin, "llvm-as"),
		LD:            filepath.Join(bin, "ld.lld"),
		NM:            filepath.Join(bin, "llvm-nm"),
		RANLIB:        filepath.Join(bin, "llvm-ranlib"),
		STRIP:         filepath.Join(bin, "llvm-strip"),
		YASM:          filepath.Join(bin, "yasm"),
		LDFLAGS:       PageSizeLDFLAGS,
		Prefix:        prefix.Dir,
		PkgConfigPath: prefix.PkgConfigPath(),
	}
}

// Environ returns the environment as KEY=VALUE pairs.
func (e ToolchainEnvironment) Environ() []string {
	return []string{
		"CC=" + e.CC,
		"CXX=" + e.CXX,
		"AR=" + e.AR,
		"AS=" + e.AS,
		"LD=" + e.LD,
		"NM=" + e.NM,
		"RANLIB=" + e.RANLIB,
		"STRIP=" + e.STRIP,
		"YASM=" + e.YASM,
		"LDFLAGS=" + e.LDFLAGS,
		"PKG_CONFIG_PATH=" + e.PkgConfigPath,
	}
}
