package pursuit

import "gonum.org/v1/gonum/spatial/r3"

// EventKind identifies a notable agent transition.
type EventKind uint8

const (
	EventDetect EventKind = iota // Idle -> Pursuing
	EventLose                    // Pursuing -> Idle
	EventReplan                  // path recomputed, Value = waypoint count
	EventAttack                  // impact landed, Value = damage dealt
	EventSlide                   // blocked move resolved along a surface
	EventStall                   // blocked move with no valid slide
)

func (k EventKind) String() string {
	switch k {
	case EventDetect:
		return "detect"
	case EventLose:
		return "lose"
	case EventReplan:
		return "replan"
	case EventAttack:
		return "attack"
	case EventSlide:
		return "slide"
	case EventStall:
		return "stall"
	default:
		return "unknown"
	}
}

// Event is delivered synchronously from inside Agent.Update.
type Event struct {
	Kind     EventKind
	Agent    uint32
	Position r3.Vec
	Value    float64
}

// Listener receives agent events.
type Listener interface {
	OnPursuitEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) OnPursuitEvent(e Event) { f(e) }
