package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.trai.ch/ndkdeps/internal/app"
	"go.trai.ch/ndkdeps/internal/core/domain"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the ordered build steps without running them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manifest, _ := cmd.Flags().GetString("manifest")
			buildDir, _ := cmd.Flags().GetString("build-dir")

			plan, err := c.app.Plan(cmd.Context(), app.PlanOptions{
				ManifestPath: manifest,
				BuildDir:     buildDir,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderPlan(plan))
			return err
		},
	}
	cmd.Flags().StringP("manifest", "m", "", "Project manifest YAML (defaults to the built-in manifest)")
	cmd.Flags().String("build-dir", domain.DefaultBuildDir, "Build root the source trees are resolved against")
	return cmd
}

func renderPlan(plan []domain.PlannedBuild) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "ABI", "PROJECT", "BUILD SYSTEM", "SOURCE", "FLAGS", "LAST BUILT")
	for i, step := range plan {
		t.Row(
			strconv.Itoa(i+1),
			step.Target.ABI,
			step.Project,
			step.BuildSystem.String(),
			step.SourceDir,
			strings.Join(step.Flags, " "),
			lastBuilt(step.LastBuilt),
		)
	}
	return t.String()
}

func lastBuilt(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}
