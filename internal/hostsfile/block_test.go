package hostsfile

import (
	"testing"

	"dockhosts"

	"github.com/google/go-cmp/cmp"
)

const (
	begin = DefaultBeginMarker
	end   = DefaultEndMarker
)

func rec(hostname, ip string) dockhosts.HostRecord {
	return dockhosts.HostRecord{Hostname: hostname, IPAddress: ip}
}

func TestReconcile_AppendsWhenNoBlock(t *testing.T) {
	in := []string{"a", "b", "c"}
	records := []dockhosts.HostRecord{rec("host1", "1.2.3.4"), rec("host2", "1.2.3.4")}

	got := Reconcile(in, records, DefaultMarkers())
	want := []string{"a", "b", "c", begin, "1.2.3.4         host1", "1.2.3.4         host2", end}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Reconcile() mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_ReplacesExistingBlock(t *testing.T) {
	in := []string{"a", "b", "c", begin, "1.1.1.1         host1", "2.2.2.2         host2", end, "d", "e"}
	records := []dockhosts.HostRecord{rec("host3", "3.3.3.3"), rec("host4", "4.4.4.4")}

	got := Reconcile(in, records, DefaultMarkers())
	want := []string{"a", "b", "c", "d", "e", begin, "3.3.3.3         host3", "4.4.4.4         host4", end}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Reconcile() mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_DoesNotModifyInput(t *testing.T) {
	in := []string{"a", begin, "old", end, "b"}
	orig := append([]string(nil), in...)

	_ = Reconcile(in, []dockhosts.HostRecord{rec("h", "10.0.0.2")}, DefaultMarkers())
	if diff := cmp.Diff(orig, in); diff != "" {
		t.Fatalf("input modified (-want +got):\n%s", diff)
	}
}

func TestReconcile_Deterministic(t *testing.T) {
	in := []string{"127.0.0.1 localhost", "", begin, "x", end}
	records := []dockhosts.HostRecord{rec("web", "172.18.0.2"), rec("db", "172.18.0.3")}

	first := Reconcile(in, records, DefaultMarkers())
	second := Reconcile(in, records, DefaultMarkers())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Reconcile() not deterministic:\n%s", diff)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	records := []dockhosts.HostRecord{rec("host1", "1.2.3.4"), rec("host2", "1.2.3.4")}

	once := Reconcile([]string{"a", "b", "c"}, records, DefaultMarkers())
	twice := Reconcile(once, records, DefaultMarkers())
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("second pass changed output (-want +got):\n%s", diff)
	}
}

func TestReconcile_RelocatesBlockToEnd(t *testing.T) {
	records := []dockhosts.HostRecord{rec("host1", "1.2.3.4")}
	block := Block(records, DefaultMarkers())

	in := append(append([]string{"a"}, block...), "z")
	got := Reconcile(in, records, DefaultMarkers())
	want := append([]string{"a", "z"}, block...)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Reconcile() mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_EmptyRecords(t *testing.T) {
	got := Reconcile([]string{"a", begin, "1.1.1.1         gone", end}, nil, DefaultMarkers())
	want := []string{"a", begin, end}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Reconcile() mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_MalformedMarkers(t *testing.T) {
	records := []dockhosts.HostRecord{rec("new", "9.9.9.9")}
	newBlock := []string{begin, "9.9.9.9         new", end}

	tests := []struct {
		name string
		in   []string
		keep []string
	}{
		{
			name: "inverted markers remove nothing",
			in:   []string{"a", end, "b", "c", begin, "d"},
			keep: []string{"a", end, "b", "c", begin, "d"},
		},
		{
			name: "begin without end is kept",
			in:   []string{"a", begin, "b"},
			keep: []string{"a", begin, "b"},
		},
		{
			name: "end without begin is kept",
			in:   []string{"a", end, "b"},
			keep: []string{"a", end, "b"},
		},
		{
			name: "only the first block is replaced",
			in:   []string{"a", begin, "x", end, "b", begin, "y", end, "c"},
			keep: []string{"a", "b", begin, "y", end, "c"},
		},
		{
			name: "stray end before a valid block is kept",
			in:   []string{end, "a", begin, "x", end, "b"},
			keep: []string{end, "a", "b"},
		},
		{
			name: "stray begin before a valid block is kept",
			in:   []string{"a", begin, "b", begin, "x", end},
			keep: []string{"a", begin, "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.in, records, DefaultMarkers())
			want := append(append([]string(nil), tt.keep...), newBlock...)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("Reconcile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReconcile_LoneMarkerConverges(t *testing.T) {
	records := []dockhosts.HostRecord{rec("h", "1.1.1.1")}

	for _, in := range [][]string{
		{"a", begin, "b"},
		{"a", end, "b"},
		{"a", end, "b", begin, "c"},
	} {
		once := Reconcile(in, records, DefaultMarkers())
		twice := Reconcile(once, records, DefaultMarkers())
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("second pass over %q changed output (-want +got):\n%s", in, diff)
		}
		if diff := cmp.Diff(in, once[:len(in)]); diff != "" {
			t.Errorf("original lines of %q not kept (-want +got):\n%s", in, diff)
		}
	}
}

func TestReconcile_CustomMarkers(t *testing.T) {
	m := Markers{Begin: "## compose start", End: "## compose end"}
	in := []string{"a", m.Begin, "old", m.End, begin, "kept", end}

	got := Reconcile(in, []dockhosts.HostRecord{rec("h", "10.1.1.1")}, m)
	want := []string{"a", begin, "kept", end, m.Begin, "10.1.1.1        h", m.End}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Reconcile() mismatch (-want +got):\n%s", diff)
	}
}
