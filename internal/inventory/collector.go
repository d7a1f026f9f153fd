// Package inventory derives the set of host records from live container state.
package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"dockhosts"
)

// Collector reads running containers and their addresses on one network.
type Collector struct {
	runtime Runtime
}

func NewCollector(rt Runtime) *Collector {
	return &Collector{runtime: rt}
}

// Collect returns one record per running container that has a hostname and
// an address on network, in the runtime's listing order. Any runtime failure
// aborts the whole collection.
func (c *Collector) Collect(ctx context.Context, network string) ([]dockhosts.HostRecord, error) {
	ids, err := c.runtime.ListRunningContainers(ctx)
	if err != nil {
		return nil, &dockhosts.RuntimeQueryError{Op: "list containers", Err: err}
	}

	records := make([]dockhosts.HostRecord, 0, len(ids))
	for _, id := range ids {
		info, err := c.runtime.InspectContainer(ctx, id)
		if err != nil {
			return nil, &dockhosts.RuntimeQueryError{Op: fmt.Sprintf("inspect container %s", shortID(id)), Err: err}
		}

		rec, ok := dockhosts.NewHostRecord(info.Hostname, info.Networks[network])
		if !ok {
			slog.Debug("skip container", "component", "inventory", "container", shortID(id), "network", network)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
