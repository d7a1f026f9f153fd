package dockhosts

import "fmt"

// ipColumnWidth is the minimum width of the address column in a hosts line.
const ipColumnWidth = 16

// HostRecord maps one container hostname to its address on the selected network.
// Both fields are always non-empty; use NewHostRecord to build one.
type HostRecord struct {
	Hostname  string
	IPAddress string
}

// NewHostRecord returns a record for the given pair. The empty string stands
// for "absent": the bool is false when either value is empty, which is how
// partially populated container metadata is skipped.
func NewHostRecord(hostname, ipAddress string) (HostRecord, bool) {
	if hostname == "" || ipAddress == "" {
		return HostRecord{}, false
	}
	return HostRecord{Hostname: hostname, IPAddress: ipAddress}, true
}

// Line renders the record in the two-column hosts file layout. Addresses
// longer than the column are not truncated.
func (r HostRecord) Line() string {
	return fmt.Sprintf("%-*s%s", ipColumnWidth, r.IPAddress, r.Hostname)
}

func (r HostRecord) String() string {
	return r.Hostname + " -> " + r.IPAddress
}
