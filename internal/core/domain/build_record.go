package domain

import "time"

// BuildRecord is the ledger entry written after a project is installed for an ABI.
type BuildRecord struct {
	ABI         string    `json:"abi"`
	Project     string    `json:"project"`
	BuildSystem string    `json:"build_system"`
	Flags       []string  `json:"flags"`
	Fingerprint uint64    `json:"fingerprint"`
	Prefix      string    `json:"prefix"`
	Timestamp   time.Time `json:"timestamp"`
}

// Key returns the ledger key of the record.
func (r *BuildRecord) Key() string {
	return RecordKey(r.ABI, r.Project)
}

// RecordKey returns the ledger key for a project built for abi.
func RecordKey(abi, project string) string {
	return abi + "/" + project
}

// RunSummary counts the outcomes of the build steps of a run.
type RunSummary struct {
	Completed int
	Failed    int
	Running   int
}

// Total returns the number of recorded steps.
func (s RunSummary) Total() int {
	return s.Completed + s.Failed + s.Running
}
