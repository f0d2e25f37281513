package pursuit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

// testBox is an axis-aligned obstacle footprint, unbounded in height.
type testBox struct {
	id                     BodyID
	minX, minZ, maxX, maxZ float64
}

// boxWorld is an in-memory collider made of boxes plus a ground plane at y=0.
type boxWorld struct {
	boxes   []testBox
	queries []r3.Vec
	updates map[BodyID]r3.Vec
}

func (w *boxWorld) CheckCollisions(p r3.Vec, r float64, exclude ExcludeFunc) []Hit {
	w.queries = append(w.queries, p)
	var hits []Hit
	for _, b := range w.boxes {
		cx := math.Max(b.minX, math.Min(p.X, b.maxX))
		cz := math.Max(b.minZ, math.Min(p.Z, b.maxZ))
		dx, dz := p.X-cx, p.Z-cz
		d := math.Hypot(dx, dz)
		if d >= r {
			continue
		}
		var normal r3.Vec
		if d > 0 {
			normal = r3.Vec{X: dx / d, Z: dz / d}
		} else {
			normal = insideNormal(b, p)
		}
		h := Hit{Body: b.id, Tag: TagObstacle, Normal: normal, Depth: r - d}
		if exclude != nil && exclude(h) {
			continue
		}
		hits = append(hits, h)
	}
	if p.Y < r {
		h := Hit{Tag: TagGround, Normal: r3.Vec{Y: 1}, Depth: r - p.Y}
		if exclude == nil || !exclude(h) {
			hits = append(hits, h)
		}
	}
	return hits
}

func (w *boxWorld) UpdateBody(id BodyID, p r3.Vec) {
	if w.updates == nil {
		w.updates = make(map[BodyID]r3.Vec)
	}
	w.updates[id] = p
}

// insideNormal points out through the nearest face.
func insideNormal(b testBox, p r3.Vec) r3.Vec {
	best := p.X - b.minX
	n := r3.Vec{X: -1}
	if d := b.maxX - p.X; d < best {
		best, n = d, r3.Vec{X: 1}
	}
	if d := p.Z - b.minZ; d < best {
		best, n = d, r3.Vec{Z: -1}
	}
	if d := b.maxZ - p.Z; d < best {
		n = r3.Vec{Z: 1}
	}
	return n
}

// funcCollider answers queries with a function.
type funcCollider func(p r3.Vec, r float64) []Hit

func (f funcCollider) CheckCollisions(p r3.Vec, r float64, exclude ExcludeFunc) []Hit {
	var out []Hit
	for _, h := range f(p, r) {
		if exclude != nil && exclude(h) {
			continue
		}
		out = append(out, h)
	}
	return out
}

func (funcCollider) UpdateBody(BodyID, r3.Vec) {}

// drone is a target carrying its own battery.
type drone struct {
	pos     r3.Vec
	battery float64
}

func (d *drone) Position() r3.Vec     { return d.pos }
func (d *drone) Resource() Depletable { return d }
func (d *drone) Current() float64     { return d.battery }
func (d *drone) SetCurrent(v float64) { d.battery = v }

func fixedTarget(d *drone) TargetLocator {
	return LocatorFunc(func(r3.Vec) (Target, bool) { return d, true })
}

type eventLog struct {
	events []Event
	tick   int
	ticks  []int
}

func (l *eventLog) OnPursuitEvent(e Event) {
	l.events = append(l.events, e)
	l.ticks = append(l.ticks, l.tick)
}

func (l *eventLog) count(kind EventKind) int {
	n := 0
	for _, e := range l.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// ticksOf returns the ticks on which events of kind fired.
func (l *eventLog) ticksOf(kind EventKind) []int {
	var out []int
	for i, e := range l.events {
		if e.Kind == kind {
			out = append(out, l.ticks[i])
		}
	}
	return out
}

// run advances the agent n ticks of dt, stamping events with the tick number.
func run(a *Agent, log *eventLog, n int, dt float64) {
	for i := 0; i < n; i++ {
		if log != nil {
			log.tick = i
		}
		a.Update(dt)
	}
}
