package inventory_test

import (
	"context"
	"errors"
	"testing"

	"dockhosts"
	"dockhosts/internal/adapter/fake"
	"dockhosts/internal/inventory"

	"github.com/google/go-cmp/cmp"
)

func TestCollect_SkipsIncompleteContainers(t *testing.T) {
	rt := fake.NewRuntime()
	rt.RunContainer(inventory.ContainerInfo{ID: "a", Hostname: "web", Networks: map[string]string{"app": "172.18.0.2"}})
	rt.RunContainer(inventory.ContainerInfo{ID: "b", Hostname: "", Networks: map[string]string{"app": "172.18.0.3"}})
	rt.RunContainer(inventory.ContainerInfo{ID: "c", Hostname: "other", Networks: map[string]string{"bridge": "172.17.0.2"}})
	rt.RunContainer(inventory.ContainerInfo{ID: "d", Hostname: "pending", Networks: map[string]string{"app": ""}})
	rt.RunContainer(inventory.ContainerInfo{ID: "e", Hostname: "db", Networks: map[string]string{"app": "172.18.0.5", "bridge": "172.17.0.5"}})

	got, err := inventory.NewCollector(rt).Collect(t.Context(), "app")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []dockhosts.HostRecord{
		{Hostname: "web", IPAddress: "172.18.0.2"},
		{Hostname: "db", IPAddress: "172.18.0.5"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Collect() mismatch (-want +got):\n%s", diff)
	}
	if n := rt.Count("InspectContainer"); n != 5 {
		t.Errorf("expected 5 inspections, got %d", n)
	}
}

func TestCollect_OnlyRunning(t *testing.T) {
	rt := fake.NewRuntime()
	rt.RunContainer(inventory.ContainerInfo{ID: "a", Hostname: "web", Networks: map[string]string{"app": "10.0.0.2"}})
	rt.RunContainer(inventory.ContainerInfo{ID: "b", Hostname: "old", Networks: map[string]string{"app": "10.0.0.3"}})
	rt.StopContainer("b")

	got, err := inventory.NewCollector(rt).Collect(t.Context(), "app")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 1 || got[0].Hostname != "web" {
		t.Fatalf("Collect() = %v, want only web", got)
	}
}

func TestCollect_Empty(t *testing.T) {
	got, err := inventory.NewCollector(fake.NewRuntime()).Collect(t.Context(), "app")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Collect() = %v, want none", got)
	}
}

func TestCollect_ListFailure(t *testing.T) {
	rt := fake.NewRuntime()
	boom := errors.New("socket unavailable")
	rt.ListContainersErr = func(context.Context) error { return boom }

	_, err := inventory.NewCollector(rt).Collect(t.Context(), "app")
	var qErr *dockhosts.RuntimeQueryError
	if !errors.As(err, &qErr) {
		t.Fatalf("Collect error = %v, want RuntimeQueryError", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected cause in chain, got %v", err)
	}
}

func TestCollect_InspectFailureAbortsCollection(t *testing.T) {
	rt := fake.NewRuntime()
	rt.RunContainer(inventory.ContainerInfo{ID: "a", Hostname: "web", Networks: map[string]string{"app": "10.0.0.2"}})
	rt.RunContainer(inventory.ContainerInfo{ID: "b", Hostname: "db", Networks: map[string]string{"app": "10.0.0.3"}})
	rt.RunContainer(inventory.ContainerInfo{ID: "c", Hostname: "cache", Networks: map[string]string{"app": "10.0.0.4"}})
	rt.InspectErr = func(_ context.Context, id string) error {
		if id == "b" {
			return errors.New("no such container")
		}
		return nil
	}

	got, err := inventory.NewCollector(rt).Collect(t.Context(), "app")
	var qErr *dockhosts.RuntimeQueryError
	if !errors.As(err, &qErr) {
		t.Fatalf("Collect error = %v, want RuntimeQueryError", err)
	}
	if got != nil {
		t.Errorf("expected no partial result, got %v", got)
	}
	if n := rt.Count("InspectContainer"); n != 2 {
		t.Errorf("expected collection to stop after the failed inspect, got %d inspections", n)
	}
}
