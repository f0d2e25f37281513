package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/pursuit/components"
	"github.com/pthm-cable/pursuit/pursuit"
)

// PursuitSystem ticks every hunter's agent and mirrors its pose back onto
// the entity.
type PursuitSystem struct {
	filter ecs.Filter3[components.Position, components.Heading, components.Hunter]
}

// NewPursuitSystem creates a new pursuit system.
func NewPursuitSystem(w *ecs.World) *PursuitSystem {
	return &PursuitSystem{
		filter: *ecs.NewFilter3[components.Position, components.Heading, components.Hunter](w),
	}
}

// Update advances all agents by dt and returns how many are pursuing.
func (s *PursuitSystem) Update(dt float64) int {
	pursuing := 0
	query := s.filter.Query()
	for query.Next() {
		pos, heading, hunter := query.Get()
		if hunter.Agent == nil {
			continue
		}
		hunter.Agent.Update(dt)
		pos.Set(hunter.Agent.Position())
		heading.Yaw = hunter.Agent.Yaw()
		if hunter.Agent.State() == pursuit.StatePursuing {
			pursuing++
		}
	}
	return pursuing
}

// Snapshots appends a snapshot of every agent to dst.
func (s *PursuitSystem) Snapshots(dst []pursuit.Snapshot) []pursuit.Snapshot {
	query := s.filter.Query()
	for query.Next() {
		_, _, hunter := query.Get()
		if hunter.Agent != nil {
			dst = append(dst, hunter.Agent.Snapshot())
		}
	}
	return dst
}
