package iterthreads

// State is the worker lifecycle state.
type State int32

const (
	NotStarted State = iota
	Running
	Finished
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
