package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/ndkdeps/internal/app"
	"go.trai.ch/ndkdeps/internal/core/domain"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the build root and optionally the output tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			buildDir, _ := cmd.Flags().GetString("build-dir")
			outputDir, _ := cmd.Flags().GetString("output-dir")
			all, _ := cmd.Flags().GetBool("all")

			return c.app.Clean(cmd.Context(), app.CleanOptions{
				BuildDir:  buildDir,
				OutputDir: outputDir,
				Output:    all,
			})
		},
	}
	cmd.Flags().String("build-dir", domain.DefaultBuildDir, "Build root to remove")
	cmd.Flags().String("output-dir", domain.DefaultOutputDir, "Output tree removed with --all")
	cmd.Flags().BoolP("all", "a", false, "Also remove the output tree")
	return cmd
}
