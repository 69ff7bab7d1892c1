package engine

type State int

const (
	Idle State = iota
	Streaming
	Complete
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Streaming:
		return "streaming"
	case Complete:
		return "complete"
	case Errored:
		return "errored"
	}
	return "<unknown state>"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
