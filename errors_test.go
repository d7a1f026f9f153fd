package dockhosts

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestNetworkErrorsListChoices(t *testing.T) {
	networks := []string{"bridge", "host", "app_default"}

	notSelected := (&NetworkNotSelectedError{Networks: networks}).Error()
	invalid := (&NetworkInvalidChoiceError{Selected: "nope", Networks: networks}).Error()
	for _, msg := range []string{notSelected, invalid} {
		for _, n := range networks {
			if !strings.Contains(msg, "\n  "+n) {
				t.Errorf("message %q does not list %q", msg, n)
			}
		}
	}
	if !strings.Contains(invalid, `"nope"`) {
		t.Errorf("message %q does not name the selection", invalid)
	}
}

func TestNetworkErrorNoChoices(t *testing.T) {
	msg := (&NetworkNotSelectedError{}).Error()
	if !strings.Contains(msg, "no networks found") {
		t.Errorf("got %q", msg)
	}
}

func TestErrorsUnwrap(t *testing.T) {
	var err error = &FileIOError{Op: "read", Path: "/etc/hosts", Err: fs.ErrPermission}
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("FileIOError should unwrap to its cause")
	}

	boom := errors.New("boom")
	err = &RuntimeQueryError{Op: "list containers", Err: boom}
	if !errors.Is(err, boom) {
		t.Error("RuntimeQueryError should unwrap to its cause")
	}
	err = &PrivilegeError{Path: "/etc/hosts", Err: boom}
	if !errors.Is(err, boom) {
		t.Error("PrivilegeError should unwrap to its cause")
	}
}
