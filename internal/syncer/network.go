package syncer

import (
	"context"
	"slices"
	"strings"

	"dockhosts"
	"dockhosts/internal/inventory"
)

// SelectNetwork validates requested against the runtime's current networks.
// The returned errors carry the valid names so the caller can show them.
func SelectNetwork(ctx context.Context, rt inventory.Runtime, requested string) (string, error) {
	networks, err := rt.ListNetworks(ctx)
	if err != nil {
		return "", &dockhosts.RuntimeQueryError{Op: "list networks", Err: err}
	}
	slices.Sort(networks)

	requested = strings.TrimSpace(requested)
	if requested == "" {
		return "", &dockhosts.NetworkNotSelectedError{Networks: networks}
	}
	if !slices.Contains(networks, requested) {
		return "", &dockhosts.NetworkInvalidChoiceError{Selected: requested, Networks: networks}
	}
	return requested, nil
}
