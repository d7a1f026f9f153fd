package ui

import (
	"errors"
	"strings"

	"dockhosts"
)

// FormatError renders err for the terminal. Network selection failures get
// the list of valid names.
func FormatError(err error) string {
	var notSelected *dockhosts.NetworkNotSelectedError
	if errors.As(err, &notSelected) {
		return ErrorMsg("pass network name as argument") + "\n" + networkChoices(notSelected.Networks)
	}
	var invalid *dockhosts.NetworkInvalidChoiceError
	if errors.As(err, &invalid) {
		return ErrorMsg("network %s does not exist", Bold(invalid.Selected)) + "\n" + networkChoices(invalid.Networks)
	}
	return ErrorMsg("%v", err)
}

func networkChoices(networks []string) string {
	if len(networks) == 0 {
		return "  " + Muted("(no networks found)")
	}
	var sb strings.Builder
	sb.WriteString(Muted("select one of:"))
	for _, n := range networks {
		sb.WriteString("\n  " + Accent(n))
	}
	return sb.String()
}
