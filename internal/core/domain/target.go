package domain

// Target is one Android ABI the native libraries are cross-compiled for.
type Target struct {
	// ABI is the Android ABI name, used for output directory naming (e.g. "arm64-v8a").
	ABI string `yaml:"abi"`
	// Triple is the compiler triple prefix used to name the NDK clang wrappers.
	Triple string `yaml:"triple"`
	// CPU is the Meson host_machine cpu value.
	CPU string `yaml:"cpu"`
	// CPUFamily is the Meson host_machine cpu_family value.
	CPUFamily string `yaml:"cpu_family"`
}

// DefaultTargets returns the four Android ABIs in build order.
// See https://developer.android.com/ndk/guides/other_build_systems for the triples.
func DefaultTargets() []Target {
	return []Target{
		{ABI: "armeabi-v7a", Triple: "armv7a-linux-androideabi", CPU: "armv7a", CPUFamily: "arm"},
		{ABI: "arm64-v8a", Triple: "aarch64-linux-android", CPU: "aarch64", CPUFamily: "aarch64"},
		{ABI: "x86", Triple: "i686-linux-android", CPU: "i686", CPUFamily: "x86"},
		{ABI: "x86-64", Triple: "x86_64-linux-android", CPU: "x86_64", CPUFamily: "x86_64"},
	}
}
