// Package components defines ECS components for the sandbox.
package components

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/pursuit/pursuit"
)

// Position represents an entity's world position. Y is up.
type Position struct {
	X, Y, Z float64
}

// Vec returns the position as a vector.
func (p Position) Vec() r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

// Set copies v into the position.
func (p *Position) Set(v r3.Vec) { p.X, p.Y, p.Z = v.X, v.Y, v.Z }

// Heading is the facing angle about +Y in radians, 0 facing +Z.
type Heading struct {
	Yaw float64
}

// Hunter links an entity to the pursuit agent driving it.
type Hunter struct {
	ID    uint32
	Body  pursuit.BodyID // collision body, 0 if none
	Agent *pursuit.Agent
}

// Drone holds flight parameters of a patrolling target.
type Drone struct {
	ID       uint32
	Speed    float64 // horizontal speed while patrolling
	Altitude float64 // height above ground
	Moving   bool    // moved on the last tick
}

// Battery is the drone resource hunters drain. It implements
// pursuit.Depletable through a pointer.
type Battery struct {
	Level float64
	Max   float64
}

// Current returns the remaining charge.
func (b *Battery) Current() float64 { return b.Level }

// SetCurrent stores v clamped to [0, Max].
func (b *Battery) SetCurrent(v float64) {
	switch {
	case v < 0:
		v = 0
	case b.Max > 0 && v > b.Max:
		v = b.Max
	}
	b.Level = v
}

// Drained reports whether the battery is empty.
func (b *Battery) Drained() bool { return b.Level <= 0 }

// Fraction returns the charge as a fraction of Max.
func (b *Battery) Fraction() float64 {
	if b.Max <= 0 {
		return 0
	}
	return b.Level / b.Max
}

// Patrol is a closed loop of waypoints a drone flies.
type Patrol struct {
	Waypoints []r3.Vec
	Index     int
}

// Current returns the waypoint being approached.
func (p *Patrol) Current() (r3.Vec, bool) {
	if len(p.Waypoints) == 0 {
		return r3.Vec{}, false
	}
	return p.Waypoints[p.Index%len(p.Waypoints)], true
}

// Advance moves on to the next waypoint, wrapping around.
func (p *Patrol) Advance() {
	if len(p.Waypoints) == 0 {
		return
	}
	p.Index = (p.Index + 1) % len(p.Waypoints)
}
