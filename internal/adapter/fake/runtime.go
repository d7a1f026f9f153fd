package fake

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"dockhosts/internal/inventory"
)

var _ inventory.Runtime = (*Runtime)(nil)

type containerState struct {
	info    inventory.ContainerInfo
	running bool
}

// subscription hands events to one subscriber. Its pump goroutine owns the
// outgoing channels and is the only one to close them.
type subscription struct {
	filter inventory.EventFilter
	in     chan inventory.Event
	events chan inventory.Event
	errs   chan error
	stop   chan struct{}
	once   sync.Once
	err    error
}

// Runtime is an in-memory implementation of inventory.Runtime. Containers
// are listed in the order they were added.
type Runtime struct {
	CallRecorder
	mu         sync.Mutex
	order      []string
	containers map[string]*containerState
	networks   []string
	subs       []*subscription

	ListContainersErr func(ctx context.Context) error
	InspectErr        func(ctx context.Context, id string) error
	ListNetworksErr   func(ctx context.Context) error
}

// NewRuntime creates an empty Runtime.
func NewRuntime() *Runtime {
	return &Runtime{containers: make(map[string]*containerState)}
}

// AddNetwork registers a network name.
func (r *Runtime) AddNetwork(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.networks, name) {
		r.networks = append(r.networks, name)
	}
}

// RunContainer adds or replaces a running container and publishes a start
// event to matching subscribers.
func (r *Runtime) RunContainer(info inventory.ContainerInfo) {
	r.mu.Lock()
	if _, ok := r.containers[info.ID]; !ok {
		r.order = append(r.order, info.ID)
	}
	r.containers[info.ID] = &containerState{info: info, running: true}
	r.mu.Unlock()

	r.Publish(inventory.Event{Type: "container", Action: "start", ContainerID: info.ID, Name: info.Name})
}

// StopContainer marks a container stopped and publishes a stop event.
func (r *Runtime) StopContainer(id string) {
	r.mu.Lock()
	cs, ok := r.containers[id]
	if ok {
		cs.running = false
	}
	r.mu.Unlock()
	if !ok {
		return
	}

	r.Publish(inventory.Event{Type: "container", Action: "stop", ContainerID: id, Name: cs.info.Name})
}

// RemoveContainer deletes a container without emitting an event, as when it
// vanishes between a list and an inspect.
func (r *Runtime) RemoveContainer(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.containers, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
}

// Publish hands ev to every subscriber whose filter matches. It blocks until
// each subscriber's pump has taken it or the subscription ended.
func (r *Runtime) Publish(ev inventory.Event) {
	r.mu.Lock()
	subs := slices.Clone(r.subs)
	r.mu.Unlock()

	for _, sub := range subs {
		if !matches(sub.filter, ev) {
			continue
		}
		select {
		case sub.in <- ev:
		case <-sub.stop:
		}
	}
}

// CloseEvents ends every open subscription. A non-nil err is reported as a
// stream failure.
func (r *Runtime) CloseEvents(err error) {
	r.mu.Lock()
	subs := r.subs
	r.subs = nil
	r.mu.Unlock()

	for _, sub := range subs {
		sub.finish(err)
	}
}

// Subscribers returns the number of open event subscriptions.
func (r *Runtime) Subscribers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

func (r *Runtime) ListRunningContainers(ctx context.Context) ([]string, error) {
	r.record("ListRunningContainers")
	if r.ListContainersErr != nil {
		if err := r.ListContainersErr(ctx); err != nil {
			return nil, err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []string
	for _, id := range r.order {
		if r.containers[id].running {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *Runtime) InspectContainer(ctx context.Context, id string) (inventory.ContainerInfo, error) {
	r.record("InspectContainer", id)
	if r.InspectErr != nil {
		if err := r.InspectErr(ctx, id); err != nil {
			return inventory.ContainerInfo{}, err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cs, ok := r.containers[id]
	if !ok {
		return inventory.ContainerInfo{}, fmt.Errorf("no such container: %s", id)
	}
	info := cs.info
	info.Networks = make(map[string]string, len(cs.info.Networks))
	for k, v := range cs.info.Networks {
		info.Networks[k] = v
	}
	return info, nil
}

func (r *Runtime) ListNetworks(ctx context.Context) ([]string, error) {
	r.record("ListNetworks")
	if r.ListNetworksErr != nil {
		if err := r.ListNetworksErr(ctx); err != nil {
			return nil, err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.networks), nil
}

func (r *Runtime) SubscribeEvents(ctx context.Context, filter inventory.EventFilter) (<-chan inventory.Event, <-chan error) {
	r.record("SubscribeEvents", filter)
	sub := &subscription{
		filter: filter,
		in:     make(chan inventory.Event),
		events: make(chan inventory.Event),
		errs:   make(chan error, 1),
		stop:   make(chan struct{}),
	}
	r.mu.Lock()
	r.subs = append(r.subs, sub)
	r.mu.Unlock()

	go func() {
		sub.pump(ctx)
		r.mu.Lock()
		r.subs = slices.DeleteFunc(r.subs, func(s *subscription) bool { return s == sub })
		r.mu.Unlock()
	}()
	return sub.events, sub.errs
}

func (s *subscription) pump(ctx context.Context) {
	defer close(s.events)
	for {
		select {
		case <-ctx.Done():
			s.finish(nil)
			return
		case <-s.stop:
			if s.err != nil {
				s.errs <- s.err
			}
			return
		case ev := <-s.in:
			select {
			case s.events <- ev:
			case <-ctx.Done():
				s.finish(nil)
				return
			case <-s.stop:
				if s.err != nil {
					s.errs <- s.err
				}
				return
			}
		}
	}
}

func (s *subscription) finish(err error) {
	s.once.Do(func() {
		s.err = err
		close(s.stop)
	})
}

func matches(f inventory.EventFilter, ev inventory.Event) bool {
	if f.Type != "" && f.Type != ev.Type {
		return false
	}
	return len(f.Actions) == 0 || slices.Contains(f.Actions, ev.Action)
}
