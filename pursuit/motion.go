package pursuit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// arriveEpsilon is the distance below which the agent holds still.
	arriveEpsilon = 0.05
	// minSlideLength rejects slides along a surface hit nearly head-on.
	minSlideLength = 0.1
)

// steer moves toward the first waypoint, or straight at the target when
// there is no path. A blocked step is retried once along the blocking
// surface. If that also fails the agent stays put and replans next tick.
func (a *Agent) steer(dt float64, targetPos r3.Vec) {
	a.moving = false

	following := len(a.path) > 0
	goal := targetPos
	if following {
		goal = a.path[0]
	}

	delta := r3.Vec{X: goal.X - a.position.X, Z: goal.Z - a.position.Z}
	dist := r3.Norm(delta)
	if dist < arriveEpsilon {
		if following {
			a.path = a.path[1:]
		}
		return
	}
	dir := r3.Scale(1/dist, delta)
	step := math.Min(dist, a.cfg.RunSpeed*dt)

	next := a.stepToward(dir, step)
	if hits := a.probe(next); len(hits) > 0 {
		if !a.slide(hits[0], dir, step) {
			a.stall(hits[0])
		}
		return
	}
	a.commit(next, dir)

	if following && dist-step < a.cfg.PathCellSize*0.5 {
		a.path = a.path[1:]
	}
}

// slide projects dir onto the plane of the blocking surface and tries the
// step along it.
func (a *Agent) slide(hit Hit, dir r3.Vec, step float64) bool {
	normal := r3.Vec{X: hit.Normal.X, Z: hit.Normal.Z}
	if l := r3.Norm(normal); l > 0 {
		normal = r3.Scale(1/l, normal)
	}
	tangent := r3.Sub(dir, r3.Scale(r3.Dot(dir, normal), normal))
	length := r3.Norm(tangent)
	if length < minSlideLength {
		return false
	}
	slideDir := r3.Scale(1/length, tangent)

	next := a.stepToward(slideDir, step)
	if len(a.probe(next)) > 0 {
		return false
	}
	a.commit(next, slideDir)
	a.counters.Slides++
	a.emit(EventSlide, float64(hit.Body))
	return true
}

func (a *Agent) stall(hit Hit) {
	a.pathTimer = 0
	a.counters.Stalls++
	a.log.Debug("move blocked", "body", hit.Body, "tag", hit.Tag.String())
	a.emit(EventStall, float64(hit.Body))
}

func (a *Agent) stepToward(dir r3.Vec, step float64) r3.Vec {
	return r3.Vec{
		X: a.position.X + dir.X*step,
		Y: a.groundY,
		Z: a.position.Z + dir.Z*step,
	}
}

func (a *Agent) commit(next, dir r3.Vec) {
	a.position = next
	a.yaw = math.Atan2(dir.X, dir.Z)
	a.moving = true
}

func (a *Agent) probe(p r3.Vec) []Hit {
	if a.env.Collider == nil {
		return nil
	}
	return a.env.Collider.CheckCollisions(p, a.cfg.ColliderRadius, a.excludeHit)
}
