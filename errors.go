package dockhosts

import (
	"fmt"
	"strings"
)

// RuntimeQueryError reports a failed call to the container runtime.
type RuntimeQueryError struct {
	Op  string
	Err error
}

func (e *RuntimeQueryError) Error() string {
	return fmt.Sprintf("container runtime: %s: %v", e.Op, e.Err)
}

func (e *RuntimeQueryError) Unwrap() error { return e.Err }

// FileIOError reports a failed read or write of the target hosts file.
type FileIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileIOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileIOError) Unwrap() error { return e.Err }

// PrivilegeError reports that write access to the target file could not be obtained.
type PrivilegeError struct {
	Path string
	Err  error
}

func (e *PrivilegeError) Error() string {
	return fmt.Sprintf("obtain write access to %s: %v", e.Path, e.Err)
}

func (e *PrivilegeError) Unwrap() error { return e.Err }

// NetworkNotSelectedError is returned when no network name was given.
type NetworkNotSelectedError struct {
	Networks []string
}

func (e *NetworkNotSelectedError) Error() string {
	return "pass network name as argument, select one of:" + choices(e.Networks)
}

// NetworkInvalidChoiceError is returned when the given network does not exist.
type NetworkInvalidChoiceError struct {
	Selected string
	Networks []string
}

func (e *NetworkInvalidChoiceError) Error() string {
	return fmt.Sprintf("wrong network %q, select one of:%s", e.Selected, choices(e.Networks))
}

func choices(networks []string) string {
	if len(networks) == 0 {
		return " (no networks found)"
	}
	var sb strings.Builder
	for _, n := range networks {
		sb.WriteString("\n  ")
		sb.WriteString(n)
	}
	return sb.String()
}
