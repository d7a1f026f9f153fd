package hostsfile

import (
	"fmt"
	"os"
	"strings"

	"dockhosts"

	"github.com/moby/sys/atomicwriter"
)

const (
	// WriteAtomic replaces the file through a temporary file and rename.
	WriteAtomic = "atomic"
	// WriteInPlace truncates and rewrites the existing inode. Needed when the
	// target is a bind mount, where rename fails.
	WriteInPlace = "inplace"
)

// File is the target hosts file.
type File struct {
	Path string
	Mode string
}

// ParseWriteMode validates a configured write mode. Empty means atomic.
func ParseWriteMode(mode string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", WriteAtomic:
		return WriteAtomic, nil
	case WriteInPlace:
		return WriteInPlace, nil
	default:
		return "", fmt.Errorf("invalid write mode %q", mode)
	}
}

// ReadLines returns the file contents split on newlines.
func (f *File) ReadLines() ([]string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, &dockhosts.FileIOError{Op: "read", Path: f.Path, Err: err}
	}
	return strings.Split(string(data), "\n"), nil
}

// WriteLines joins lines with newlines and replaces the whole file,
// keeping its permissions.
func (f *File) WriteLines(lines []string) error {
	data := []byte(strings.Join(lines, "\n"))

	info, err := os.Stat(f.Path)
	if err != nil {
		return &dockhosts.FileIOError{Op: "stat", Path: f.Path, Err: err}
	}
	if f.Mode == WriteInPlace {
		err = os.WriteFile(f.Path, data, info.Mode().Perm())
	} else {
		err = atomicwriter.WriteFile(f.Path, data, info.Mode().Perm())
	}
	if err != nil {
		return &dockhosts.FileIOError{Op: "write", Path: f.Path, Err: err}
	}
	return nil
}
