package domain

// ConnectionState is the lifecycle state of the live channel.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
	// Exhausted is terminal: no further automatic reconnects happen until
	// the process is restarted.
	Exhausted
)

// String returns the lowercase name of the state.
func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}
