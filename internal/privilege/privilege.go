// Package privilege obtains write access to the target file before the first
// write, re-executing under sudo when needed.
package privilege

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

const (
	ModeSudo = "sudo"
	ModeNone = "none"
)

// Escalator makes sure the process may write path.
type Escalator interface {
	Ensure(path string) error
}

// ParseMode validates a configured mode. Empty means sudo.
func ParseMode(mode string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeSudo:
		return ModeSudo, nil
	case ModeNone:
		return ModeNone, nil
	default:
		return "", fmt.Errorf("invalid privilege mode %q", mode)
	}
}

// New returns the escalator for a configured mode.
func New(mode string) (Escalator, error) {
	mode, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}
	if mode == ModeNone {
		return None{}, nil
	}
	return NewSudo(), nil
}

// None never escalates; it only reports whether path is writable.
type None struct{}

func (None) Ensure(path string) error {
	if err := writable(path); err != nil {
		return fmt.Errorf("%s is not writable: %w", path, err)
	}
	return nil
}

// denied reports whether err is the kind of failure more privilege can fix.
func denied(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}
