package ledger

import (
	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the inputs that decide the outcome of a build step:
// the effective flags and the toolchain environment.
func Fingerprint(flags, env []string) uint64 {
	h := xxhash.New()
	for _, f := range flags {
		_, _ = h.WriteString(f)
		_, _ = h.Write([]byte{0})
	}
	// Separates the two lists so moving a value across them changes the hash.
	_, _ = h.Write([]byte{1})
	for _, e := range env {
		_, _ = h.WriteString(e)
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}
