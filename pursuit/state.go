package pursuit

// State is the agent's behavior mode.
type State uint8

const (
	StateIdle State = iota
	StatePursuing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePursuing:
		return "pursuing"
	default:
		return "unknown"
	}
}
