package dockhosts

import "testing"

func TestNewHostRecord_Absent(t *testing.T) {
	tests := []struct {
		name     string
		hostname string
		ip       string
	}{
		{name: "no hostname", hostname: "", ip: "1.2.3.4"},
		{name: "no ip", hostname: "host1", ip: ""},
		{name: "neither", hostname: "", ip: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if r, ok := NewHostRecord(tt.hostname, tt.ip); ok {
				t.Fatalf("NewHostRecord(%q, %q) = %+v, want absent", tt.hostname, tt.ip, r)
			}
		})
	}
}

func TestNewHostRecord_KeepsValuesVerbatim(t *testing.T) {
	r, ok := NewHostRecord("Web.Local ", "not-an-ip")
	if !ok {
		t.Fatal("expected record")
	}
	if r.Hostname != "Web.Local " || r.IPAddress != "not-an-ip" {
		t.Errorf("got %+v", r)
	}
}

func TestNewHostRecord_OnlyEmptyIsAbsent(t *testing.T) {
	if _, ok := NewHostRecord(" ", "10.0.0.2"); !ok {
		t.Error("a blank but non-empty hostname is a value, not absent")
	}
	if _, ok := NewHostRecord("web", " "); !ok {
		t.Error("a blank but non-empty address is a value, not absent")
	}
}

func TestHostRecordLine(t *testing.T) {
	tests := []struct {
		record HostRecord
		want   string
	}{
		{HostRecord{Hostname: "host1", IPAddress: "1.2.3.4"}, "1.2.3.4         host1"},
		{HostRecord{Hostname: "db", IPAddress: "172.18.0.12"}, "172.18.0.12     db"},
		{HostRecord{Hostname: "v6", IPAddress: "fd00:dead:beef::1234"}, "fd00:dead:beef::1234v6"},
	}
	for _, tt := range tests {
		if got := tt.record.Line(); got != tt.want {
			t.Errorf("Line() = %q, want %q", got, tt.want)
		}
	}
}
