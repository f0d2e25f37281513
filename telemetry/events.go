// Package telemetry provides pursuit statistics, event logs and run snapshots.
package telemetry

import "github.com/pthm-cable/pursuit/pursuit"

// EventRecord is one row of events.csv.
type EventRecord struct {
	Tick  int32   `csv:"tick"`
	Agent uint32  `csv:"agent"`
	Kind  string  `csv:"kind"`
	X     float64 `csv:"x"`
	Z     float64 `csv:"z"`
	Value float64 `csv:"value"`
}

// NewEventRecord stamps an agent event with the tick it occurred on.
func NewEventRecord(tick int32, e pursuit.Event) EventRecord {
	return EventRecord{
		Tick:  tick,
		Agent: e.Agent,
		Kind:  e.Kind.String(),
		X:     e.Position.X,
		Z:     e.Position.Z,
		Value: e.Value,
	}
}

// logged reports whether an event kind goes to events.csv. Slides happen
// almost every tick against a wall and are only counted.
func logged(k pursuit.EventKind) bool {
	return k != pursuit.EventSlide
}
