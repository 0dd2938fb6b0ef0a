package domain

import "go.trai.ch/zerr"

var (
	// ErrPrecondition is returned when the run cannot start because the host,
	// NDK or inputs are not usable. No build work has happened when it is returned.
	ErrPrecondition = zerr.New("precondition failed")

	// ErrUnsupportedPlatform is returned when the host OS has no NDK prebuilt toolchain.
	ErrUnsupportedPlatform = zerr.Wrap(ErrPrecondition, "unsupported host platform")

	// ErrToolchainNotFound is returned when the resolved toolchain directory does not exist.
	ErrToolchainNotFound = zerr.Wrap(ErrPrecondition, "toolchain not found")

	// ErrNDKNotFound is returned when the NDK root is missing or not a directory.
	ErrNDKNotFound = zerr.Wrap(ErrPrecondition, "android ndk not found")

	// ErrInvalidABIVersion is returned when the Android API level is not a positive integer.
	ErrInvalidABIVersion = zerr.Wrap(ErrPrecondition, "invalid abi version")

	// ErrAcquisitionFailed is returned when a source tree could not be downloaded,
	// extracted or cloned.
	ErrAcquisitionFailed = zerr.New("source acquisition failed")

	// ErrBuildToolFailed is returned when an external build tool exits unsuccessfully.
	ErrBuildToolFailed = zerr.New("build tool failed")

	// ErrUnknownBuildSystem is returned when a project names a build system with no adapter.
	ErrUnknownBuildSystem = zerr.New("unknown build system")

	// ErrArtifactNotFound is returned by the publish hook when an expected library is missing.
	ErrArtifactNotFound = zerr.New("artifact not found")

	// ErrInvalidSource is returned when a source URL has no usable file name.
	ErrInvalidSource = zerr.New("invalid source")

	// ErrInvalidManifest is returned when a project manifest fails validation.
	ErrInvalidManifest = zerr.New("invalid manifest")
)
