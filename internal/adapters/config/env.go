package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"go.trai.ch/zerr"
)

// Environment variables consulted when the matching flag is not given.
const (
	EnvNDKRoot    = "ANDROID_NDK_ROOT"
	EnvABIVersion = "NDKDEPS_ABI_VERSION"
)

// DefaultDotEnv is the dotenv file read from the working directory.
const DefaultDotEnv = ".env"

// LoadDotEnv exports the variables of the dotenv file at path.
// Variables already set in the environment win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to load dotenv file"), "path", path)
	}
	return nil
}
