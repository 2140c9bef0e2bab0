package port

// Transition is an edge event on the connectivity signal. Subscribers get
// one event per physical transition, never two for the same edge.
type Transition int

const (
	TransitionOffline Transition = iota
	TransitionOnline
)

func (t Transition) String() string {
	if t == TransitionOnline {
		return "online"
	}
	return "offline"
}

// ConnectivityMonitor exposes the binary reachability signal and its edges.
type ConnectivityMonitor interface {
	IsOnline() bool

	// Subscribe returns a channel of transition edges. The channel is
	// buffered; slow consumers lose stale edges but always see the latest
	// state, and the monitor never blocks.
	Subscribe() <-chan Transition
}
