package timeline

// Status is the timeline state.
type Status int

const (
	Idle Status = iota
	Running
	Complete
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether no further steps can run.
func (s Status) Terminal() bool {
	return s == Complete || s == Failed
}
