package appctx

// State is the lifecycle state of a Context.
type State int

const (
	StateUnrefreshed State = iota
	StateRefreshing
	StateActive
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnrefreshed:
		return "unrefreshed"
	case StateRefreshing:
		return "refreshing"
	case StateActive:
		return "active"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
