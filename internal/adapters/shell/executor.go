// Package shell provides the process executor adapter.
package shell

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/ndkdeps/internal/core/domain"
	"go.trai.ch/ndkdeps/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs cmd with the specified environment.
// It merges environments with the following priority (low to high):
// 1. os.Environ() (System base)
// 2. env (toolchain environment of the build step)
//
// PATH entries from env are prepended to the system PATH.
// Output lines go to the logger and to the vertex carried by ctx, if any.
func (e *Executor) Execute(ctx context.Context, cmd *domain.Command, env []string) error {
	if len(cmd.Args) == 0 {
		return nil
	}

	name := cmd.Args[0]
	args := cmd.Args[1:]

	cmdEnv := resolveEnvironment(os.Environ(), env)

	executable := name
	if !filepath.IsAbs(name) && !strings.Contains(name, string(filepath.Separator)) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, args...) //nolint:gosec // commands come from the build manifest
	if len(c.Args) > 0 {
		c.Args[0] = name
	}
	c.Dir = cmd.Dir
	c.Env = cmdEnv

	stdout, err := c.StdoutPipe()
	if err != nil {
		return zerr.Wrap(err, "failed to attach stdout")
	}
	stderr, err := c.StderrPipe()
	if err != nil {
		return zerr.Wrap(err, "failed to attach stderr")
	}

	var vertexOut, vertexErr io.Writer = io.Discard, io.Discard
	if v, ok := ports.VertexFromContext(ctx); ok {
		vertexOut, vertexErr = v.Stdout(), v.Stderr()
	}

	if err := c.Start(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to start command"), "command", cmd.String())
	}

	var g errgroup.Group
	g.Go(func() error {
		return pump(stdout, vertexOut, e.logger.Info)
	})
	g.Go(func() error {
		return pump(stderr, vertexErr, e.logger.Warn)
	})
	pumpErr := g.Wait()

	if err := c.Wait(); err != nil {
		exitCode := -1 // Unknown or signal
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		failed := zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
		return zerr.With(failed, "command", cmd.String())
	}

	return pumpErr
}

// pump forwards r line by line to log and tee until EOF.
// Partial writes are buffered until a newline or EOF.
func pump(r io.Reader, tee io.Writer, log func(string)) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			_, _ = io.WriteString(tee, line)
			log(strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return zerr.Wrap(err, "failed to read command output")
		}
	}
}

// resolveEnvironment merges environment variables with the defined priority.
func resolveEnvironment(sysEnv, overrides []string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	for _, entry := range overrides {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" {
			if sysPath, exists := envMap["PATH"]; exists && sysPath != "" {
				v = v + string(os.PathListSeparator) + sysPath
			}
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
