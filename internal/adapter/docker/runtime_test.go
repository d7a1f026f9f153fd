package docker

import (
	"encoding/json"
	"slices"
	"testing"

	"dockhosts/internal/inventory"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/events"
	"github.com/google/go-cmp/cmp"
)

func inspectFromJSON(t *testing.T, raw string) container.InspectResponse {
	t.Helper()
	var resp container.InspectResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal inspect response: %v", err)
	}
	return resp
}

func TestContainerInfo(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want inventory.ContainerInfo
	}{
		{
			name: "full",
			raw: `{"Id":"abc","Name":"/web","Config":{"Hostname":"web"},
				"NetworkSettings":{"Networks":{"app":{"IPAddress":"172.18.0.2"},"bridge":{"IPAddress":"172.17.0.2"}}}}`,
			want: inventory.ContainerInfo{
				ID:       "abc",
				Name:     "web",
				Hostname: "web",
				Networks: map[string]string{"app": "172.18.0.2", "bridge": "172.17.0.2"},
			},
		},
		{
			name: "no network settings yet",
			raw:  `{"Id":"abc","Name":"/starting","Config":{"Hostname":"starting"}}`,
			want: inventory.ContainerInfo{ID: "abc", Name: "starting", Hostname: "starting", Networks: map[string]string{}},
		},
		{
			name: "no config and empty address",
			raw:  `{"Id":"abc","NetworkSettings":{"Networks":{"app":{"IPAddress":""},"none":null}}}`,
			want: inventory.ContainerInfo{ID: "abc", Networks: map[string]string{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := containerInfo("abc", inspectFromJSON(t, tt.raw))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("containerInfo() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterArgs(t *testing.T) {
	args := filterArgs(inventory.LifecycleFilter())

	if !args.ExactMatch("type", "container") {
		t.Error("expected type=container filter")
	}
	got := args.Get("event")
	if diff := cmp.Diff([]string{"start", "stop"}, slices.Sorted(slices.Values(got))); diff != "" {
		t.Errorf("event filter mismatch (-want +got):\n%s", diff)
	}
}

func TestEventFromMessage(t *testing.T) {
	msg := events.Message{
		Type:   events.ContainerEventType,
		Action: events.ActionStart,
		Actor:  events.Actor{ID: "abc", Attributes: map[string]string{"name": "web"}},
	}
	got := eventFromMessage(msg)
	want := inventory.Event{Type: "container", Action: "start", ContainerID: "abc", Name: "web"}
	if got != want {
		t.Errorf("eventFromMessage() = %+v, want %+v", got, want)
	}
}
