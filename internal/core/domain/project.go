package domain

import "time"

// Project is one native dependency declaration.
// Projects are declared as an ordered sequence; order is build order.
type Project struct {
	Name        string
	Source      Source
	BuildSystem BuildSystem
	// Flags are passed to every configure/setup invocation.
	Flags []string
	// ABIFlags are appended after Flags for the matching ABI only.
	ABIFlags map[string][]string
}

// EffectiveFlags returns the global flags followed by the flags for abi.
// The result never aliases the project's slices.
func (p *Project) EffectiveFlags(abi string) []string {
	extra := p.ABIFlags[abi]
	flags := make([]string, 0, len(p.Flags)+len(extra))
	flags = append(flags, p.Flags...)
	return append(flags, extra...)
}

// Manifest is the ordered set of targets and projects for one run.
type Manifest struct {
	Targets  []Target
	Projects []Project
}

// PlannedBuild is one (target, project) step of a run, in execution order.
type PlannedBuild struct {
	Target      Target
	Project     string
	BuildSystem BuildSystem
	SourceDir   string
	Flags       []string
	// LastBuilt is when the ledger in the build root last recorded this step.
	// Zero when it has no record.
	LastBuilt time.Time
}
