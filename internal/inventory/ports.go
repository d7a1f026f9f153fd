package inventory

import "context"

// Runtime is the slice of the container runtime API the synchronizer needs.
// Production: adapter/docker.Runtime
// Testing: adapter/fake.Runtime
type Runtime interface {
	ListRunningContainers(ctx context.Context) ([]string, error)
	InspectContainer(ctx context.Context, id string) (ContainerInfo, error)
	ListNetworks(ctx context.Context) ([]string, error)
	// SubscribeEvents streams events matching filter until ctx is done or the
	// runtime drops the connection. The event channel is closed when the
	// stream ends; a stream failure is sent on the error channel first.
	SubscribeEvents(ctx context.Context, filter EventFilter) (<-chan Event, <-chan error)
}

// ContainerInfo is the inspected state of one container. Empty strings and
// missing map entries stand for metadata the runtime did not report.
type ContainerInfo struct {
	ID       string
	Name     string
	Hostname string
	// Networks maps a network name to the container's address on it.
	Networks map[string]string
}

// EventFilter selects runtime events by object type and action.
type EventFilter struct {
	Type    string
	Actions []string
}

// Event is a single runtime event. The synchronizer only logs its fields.
type Event struct {
	Type        string
	Action      string
	ContainerID string
	Name        string
}

// LifecycleFilter matches container start and stop events.
func LifecycleFilter() EventFilter {
	return EventFilter{Type: "container", Actions: []string{"start", "stop"}}
}
