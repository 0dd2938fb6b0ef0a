package domain

import "strings"

// Stage names the step of a project build an external command belongs to.
type Stage string

const (
	StageAcquire   Stage = "acquire"
	StageAutogen   Stage = "autogen"
	StageConfigure Stage = "configure"
	StageCompile   Stage = "compile"
	StageInstall   Stage = "install"
	StageClean     Stage = "clean"
	StagePublish   Stage = "publish"
)

// Command is one invocation of an external tool.
type Command struct {
	Stage Stage
	// Args holds the program name followed by its arguments.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// String renders the command line for logs.
func (c *Command) String() string {
	return strings.Join(c.Args, " ")
}

// BuildRequest is everything a build system adapter needs for one project on one ABI.
type BuildRequest struct {
	Project   *Project
	Target    Target
	Env       ToolchainEnvironment
	SourceDir string
	// CrossFile is where a Meson cross file is written. Unused by autotools.
	CrossFile string
}
