package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/pursuit/components"
)

// Bounds represents the square arena on the ground plane.
type Bounds struct {
	HalfSize float64
	GroundY  float64
}

// DroneSystem flies drones along their patrol loops at a fixed altitude.
type DroneSystem struct {
	filter ecs.Filter5[components.Position, components.Heading, components.Drone, components.Battery, components.Patrol]
	bounds Bounds
}

// NewDroneSystem creates a new drone system.
func NewDroneSystem(w *ecs.World, bounds Bounds) *DroneSystem {
	return &DroneSystem{
		filter: *ecs.NewFilter5[components.Position, components.Heading, components.Drone, components.Battery, components.Patrol](w),
		bounds: bounds,
	}
}

// Update advances every drone by dt seconds. Drained drones hold position.
func (s *DroneSystem) Update(dt float64) {
	query := s.filter.Query()
	for query.Next() {
		pos, heading, drone, battery, patrol := query.Get()
		drone.Moving = false
		pos.Y = s.bounds.GroundY + drone.Altitude

		if battery.Drained() {
			continue
		}
		wp, ok := patrol.Current()
		if !ok {
			continue
		}

		dx, dz := wp.X-pos.X, wp.Z-pos.Z
		dist := math.Hypot(dx, dz)
		step := drone.Speed * dt
		if dist <= step {
			pos.X, pos.Z = wp.X, wp.Z
			patrol.Advance()
		} else {
			pos.X += dx / dist * step
			pos.Z += dz / dist * step
		}
		if dist > 0 {
			heading.Yaw = normalizeAngle(math.Atan2(dx, dz))
			drone.Moving = true
		}

		pos.X = clamp(pos.X, -s.bounds.HalfSize, s.bounds.HalfSize)
		pos.Z = clamp(pos.Z, -s.bounds.HalfSize, s.bounds.HalfSize)
	}
}
