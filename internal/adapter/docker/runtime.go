package docker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"dockhosts/internal/inventory"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/events"
	dockerfilters "github.com/docker/docker/api/types/filters"
	dockernetwork "github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/tlsconfig"
)

var _ inventory.Runtime = (*Runtime)(nil)

// Options override the connection settings taken from the environment
// (DOCKER_HOST, DOCKER_CERT_PATH, ...).
type Options struct {
	Host    string
	TLSCA   string
	TLSCert string
	TLSKey  string
}

// Runtime implements inventory.Runtime using the Docker Engine API.
type Runtime struct {
	cli *client.Client
}

// NewRuntime creates a Runtime with a Docker client configured from the
// environment and opts.
func NewRuntime(opts Options) (*Runtime, error) {
	clientOpts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if opts.TLSCA != "" || opts.TLSCert != "" || opts.TLSKey != "" {
		tlsCfg, err := tlsconfig.Client(tlsconfig.Options{
			CAFile:             opts.TLSCA,
			CertFile:           opts.TLSCert,
			KeyFile:            opts.TLSKey,
			ExclusiveRootPools: true,
		})
		if err != nil {
			return nil, fmt.Errorf("load docker tls config: %w", err)
		}
		clientOpts = append(clientOpts, client.WithHTTPClient(&http.Client{
			Transport:     &http.Transport{TLSClientConfig: tlsCfg},
			CheckRedirect: client.CheckRedirect,
		}))
		// The host option configures the transport, so it must follow the
		// replacement HTTP client.
		if opts.Host == "" {
			clientOpts = append(clientOpts, client.WithHostFromEnv())
		}
	}
	if opts.Host != "" {
		clientOpts = append(clientOpts, client.WithHost(opts.Host))
	}

	cli, err := client.NewClientWithOpts(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return &Runtime{cli: cli}, nil
}

// NewRuntimeFromClient wraps an existing Docker client.
func NewRuntimeFromClient(cli *client.Client) *Runtime {
	return &Runtime{cli: cli}
}

func (r *Runtime) WaitReady(ctx context.Context) error {
	return WaitReady(ctx, r.cli)
}

func (r *Runtime) ListRunningContainers(ctx context.Context) ([]string, error) {
	containers, err := r.cli.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, describe(fmt.Errorf("list containers: %w", err))
	}
	ids := make([]string, 0, len(containers))
	for _, c := range containers {
		if c.ID != "" {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (r *Runtime) InspectContainer(ctx context.Context, id string) (inventory.ContainerInfo, error) {
	info, err := r.cli.ContainerInspect(ctx, id)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return inventory.ContainerInfo{}, fmt.Errorf("container %q vanished before inspect: %w", id, err)
		}
		return inventory.ContainerInfo{}, describe(fmt.Errorf("inspect container %q: %w", id, err))
	}
	return containerInfo(id, info), nil
}

func (r *Runtime) ListNetworks(ctx context.Context) ([]string, error) {
	networks, err := r.cli.NetworkList(ctx, dockernetwork.ListOptions{})
	if err != nil {
		return nil, describe(fmt.Errorf("list networks: %w", err))
	}
	names := make([]string, 0, len(networks))
	for _, n := range networks {
		if n.Name != "" {
			names = append(names, n.Name)
		}
	}
	return names, nil
}

func (r *Runtime) SubscribeEvents(ctx context.Context, filter inventory.EventFilter) (<-chan inventory.Event, <-chan error) {
	out := make(chan inventory.Event)
	errc := make(chan error, 1)
	msgs, errs := r.cli.Events(ctx, events.ListOptions{Filters: filterArgs(filter)})

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-errs:
				if err != nil && ctx.Err() == nil {
					errc <- describe(fmt.Errorf("event stream: %w", err))
				}
				return
			case msg := <-msgs:
				select {
				case out <- eventFromMessage(msg):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, errc
}

func (r *Runtime) Close() error {
	return r.cli.Close()
}

func containerInfo(id string, resp container.InspectResponse) inventory.ContainerInfo {
	info := inventory.ContainerInfo{ID: id, Networks: make(map[string]string)}
	if resp.ContainerJSONBase != nil {
		info.Name = strings.TrimPrefix(resp.Name, "/")
	}
	if resp.Config != nil {
		info.Hostname = resp.Config.Hostname
	}
	if resp.NetworkSettings != nil {
		for name, ep := range resp.NetworkSettings.Networks {
			if ep != nil && ep.IPAddress != "" {
				info.Networks[name] = ep.IPAddress
			}
		}
	}
	return info
}

func filterArgs(f inventory.EventFilter) dockerfilters.Args {
	args := dockerfilters.NewArgs()
	if f.Type != "" {
		args.Add("type", f.Type)
	}
	for _, action := range f.Actions {
		args.Add("event", action)
	}
	return args
}

func eventFromMessage(msg events.Message) inventory.Event {
	return inventory.Event{
		Type:        string(msg.Type),
		Action:      string(msg.Action),
		ContainerID: msg.Actor.ID,
		Name:        msg.Actor.Attributes["name"],
	}
}

// describe adds a hint when the daemon could not be reached at all.
func describe(err error) error {
	if client.IsErrConnectionFailed(err) || errdefs.IsUnavailable(err) {
		return fmt.Errorf("docker daemon unreachable: %w", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("docker daemon timed out: %w", err)
	}
	return err
}
