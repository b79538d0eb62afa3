package model

// ProbeStatus is the reachability classification of a URL.
type ProbeStatus string

const (
	ProbeStatusOnline  ProbeStatus = "online"
	ProbeStatusOffline ProbeStatus = "offline"
	ProbeStatusUnknown ProbeStatus = "unknown" // Not probed, or not probeable.
)

// Label returns the capitalized status for display ("Online", "Offline", "Unknown").
func (s ProbeStatus) Label() string {
	switch s {
	case ProbeStatusOnline:
		return "Online"
	case ProbeStatusOffline:
		return "Offline"
	default:
		return "Unknown"
	}
}
