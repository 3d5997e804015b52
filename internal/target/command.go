// Package target turns external commands into benchmark targets.
package target

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/psantana5/benchtime/pkg/autotimer"
)

// ExitError is returned when the command ran but exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
}

// Command is a process started fresh for every iteration.
type Command struct {
	Name  string
	Args  []string
	Shell bool // run Name and Args joined through /bin/sh -c

	// Stdout and Stderr default to io.Discard.
	Stdout io.Writer
	Stderr io.Writer
}

// New builds a Command from argv.
func New(argv []string, shell bool) (*Command, error) {
	if len(argv) == 0 {
		return nil, errors.New("no command given")
	}
	return &Command{Name: argv[0], Args: argv[1:], Shell: shell}, nil
}

// String is the label used in reports.
func (c *Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

func (c *Command) build() *exec.Cmd {
	var cmd *exec.Cmd
	if c.Shell {
		cmd = exec.Command("/bin/sh", "-c", c.String())
	} else {
		cmd = exec.Command(c.Name, c.Args...)
	}

	cmd.Stdout = io.Discard
	if c.Stdout != nil {
		cmd.Stdout = c.Stdout
	}
	cmd.Stderr = io.Discard
	if c.Stderr != nil {
		cmd.Stderr = c.Stderr
	}
	return cmd
}

// Run executes the command once.
func (c *Command) Run() error {
	err := c.build().Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Command: c.String(), ExitCode: exitErr.ExitCode()}
	}
	return fmt.Errorf("failed to start %s: %w", c.Name, err)
}

// Func adapts the command for autotimer.
func (c *Command) Func() autotimer.Func {
	return c.Run
}
