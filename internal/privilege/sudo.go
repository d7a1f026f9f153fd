package privilege

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// Sudo re-executes the current process under sudo when path is not writable
// and the process is not already root. On success the process image is
// replaced, so Ensure only returns when no escalation was needed or it failed.
type Sudo struct {
	Program string

	args       []string
	geteuid    func() int
	writable   func(path string) error
	lookPath   func(file string) (string, error)
	executable func() (string, error)
	exec       func(argv0 string, argv []string, envv []string) error
}

func NewSudo() *Sudo {
	return &Sudo{
		Program:    "sudo",
		args:       os.Args,
		geteuid:    os.Geteuid,
		writable:   writable,
		lookPath:   exec.LookPath,
		executable: os.Executable,
		exec:       execve,
	}
}

func (s *Sudo) Ensure(path string) error {
	if s.geteuid() == 0 {
		return nil
	}
	err := s.writable(path)
	if err == nil {
		return nil
	}
	if !denied(err) {
		return fmt.Errorf("%s is not writable: %w", path, err)
	}

	prog, err := s.lookPath(s.Program)
	if err != nil {
		return fmt.Errorf("find %s: %w", s.Program, err)
	}
	self, err := s.executable()
	if err != nil {
		return fmt.Errorf("resolve own executable: %w", err)
	}

	argv := []string{prog, self}
	if len(s.args) > 1 {
		argv = append(argv, s.args[1:]...)
	}
	slog.Info("re-executing with elevated privileges", "program", prog, "path", path)
	if err := s.exec(prog, argv, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", prog, err)
	}
	return nil
}
