package commands

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.trai.ch/ndkdeps/internal/adapters/config"
	"go.trai.ch/ndkdeps/internal/app"
	"go.trai.ch/ndkdeps/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build every project of the manifest for every ABI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ndkPath, _ := cmd.Flags().GetString("ndk-path")
			abiVersion, _ := cmd.Flags().GetInt("abi-version")
			manifest, _ := cmd.Flags().GetString("manifest")
			buildDir, _ := cmd.Flags().GetString("build-dir")
			outputDir, _ := cmd.Flags().GetString("output-dir")
			publish, _ := cmd.Flags().GetBool("publish")

			if ndkPath == "" {
				ndkPath = os.Getenv(config.EnvNDKRoot)
			}
			if ndkPath == "" {
				return zerr.Wrap(domain.ErrNDKNotFound, "--ndk-path or "+config.EnvNDKRoot+" is required")
			}

			if !cmd.Flags().Changed("abi-version") {
				v, err := abiVersionFromEnv()
				if err != nil {
					return err
				}
				abiVersion = v
			}

			return c.app.Build(cmd.Context(), app.BuildOptions{
				NDKPath:      ndkPath,
				ABIVersion:   abiVersion,
				ManifestPath: manifest,
				BuildDir:     buildDir,
				OutputDir:    outputDir,
				Publish:      publish,
			})
		},
	}
	cmd.Flags().String("ndk-path", "", "Android NDK root (defaults to $"+config.EnvNDKRoot+")")
	cmd.Flags().Int("abi-version", 0, "Android API level, e.g. 21 (defaults to $"+config.EnvABIVersion+")")
	cmd.Flags().StringP("manifest", "m", "", "Project manifest YAML (defaults to the built-in manifest)")
	cmd.Flags().String("build-dir", domain.DefaultBuildDir, "Build root, removed at the start of every run")
	cmd.Flags().String("output-dir", domain.DefaultOutputDir, "Per-ABI publish root, recreated for every ABI")
	cmd.Flags().Bool("publish", false, "Copy each project's shared library into the output directory")
	return cmd
}

func abiVersionFromEnv() (int, error) {
	raw := os.Getenv(config.EnvABIVersion)
	if raw == "" {
		return 0, zerr.Wrap(domain.ErrInvalidABIVersion, "--abi-version or "+config.EnvABIVersion+" is required")
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(domain.ErrInvalidABIVersion, "abi version is not an integer"), "value", raw)
	}
	return v, nil
}
