//go:build unix

package privilege

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

func writable(path string) error {
	err := unix.Access(path, unix.W_OK)
	switch err {
	case nil:
		return nil
	case unix.EACCES, unix.EPERM:
		return &fs.PathError{Op: "access", Path: path, Err: fs.ErrPermission}
	default:
		return &fs.PathError{Op: "access", Path: path, Err: err}
	}
}

func execve(argv0 string, argv []string, envv []string) error {
	return unix.Exec(argv0, argv, envv)
}
