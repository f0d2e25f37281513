// Package collision is the sandbox's collision query provider. Bodies live in
// a Chipmunk2D space laid out on the horizontal plane: world (x, z) maps to
// space (x, y). Heights are tracked per body and the ground is an implicit
// plane at GroundY.
package collision

import (
	"cmp"
	"slices"

	"github.com/jakecoffman/cp"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/pursuit/pursuit"
)

// Box is an axis-aligned obstacle footprint. Height 0 means unbounded.
type Box struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
	Height     float64
}

type body struct {
	id     pursuit.BodyID
	tag    pursuit.Tag
	shape  *cp.Shape
	height float64

	// Circles only.
	circle bool
	radius float64

	// Boxes only, relative to the center.
	halfX, halfZ float64
}

// World implements pursuit.Collider over a cp space.
type World struct {
	space   *cp.Space
	groundY float64
	bodies  map[pursuit.BodyID]*body
	nextID  pursuit.BodyID
}

// NewWorld creates an empty world with the ground at groundY.
func NewWorld(groundY float64) *World {
	return &World{
		space:   cp.NewSpace(),
		groundY: groundY,
		bodies:  make(map[pursuit.BodyID]*body),
	}
}

// GroundY returns the ground plane height.
func (w *World) GroundY() float64 { return w.groundY }

// Len returns the number of bodies.
func (w *World) Len() int { return len(w.bodies) }

// AddBox inserts a static box and returns its id.
func (w *World) AddBox(b Box, tag pursuit.Tag) pursuit.BodyID {
	if b.MinX > b.MaxX {
		b.MinX, b.MaxX = b.MaxX, b.MinX
	}
	if b.MinZ > b.MaxZ {
		b.MinZ, b.MaxZ = b.MaxZ, b.MinZ
	}
	w.nextID++
	bd := &body{
		id:     w.nextID,
		tag:    tag,
		height: b.Height,
		halfX:  (b.MaxX - b.MinX) / 2,
		halfZ:  (b.MaxZ - b.MinZ) / 2,
	}
	bd.shape = cp.NewBox2(w.space.StaticBody, cp.BB{L: b.MinX, B: b.MinZ, R: b.MaxX, T: b.MaxZ}, 0)
	w.insert(bd)
	return bd.id
}

// AddCircle inserts a circular body, such as an agent, centered at position.
func (w *World) AddCircle(position r3.Vec, radius, height float64, tag pursuit.Tag) pursuit.BodyID {
	w.nextID++
	bd := &body{
		id:     w.nextID,
		tag:    tag,
		height: height,
		circle: true,
		radius: radius,
	}
	bd.shape = cp.NewCircle(w.space.StaticBody, radius, cp.Vector{X: position.X, Y: position.Z})
	w.insert(bd)
	return bd.id
}

func (w *World) insert(bd *body) {
	bd.shape.UserData = bd
	w.space.AddShape(bd.shape)
	w.bodies[bd.id] = bd
}

// Remove deletes a body. Unknown ids are ignored.
func (w *World) Remove(id pursuit.BodyID) {
	bd, ok := w.bodies[id]
	if !ok {
		return
	}
	w.space.RemoveShape(bd.shape)
	delete(w.bodies, id)
}

// UpdateBody moves a body so its footprint is centered at position. The
// shape is rebuilt and reinserted so the spatial index sees the new bounds.
func (w *World) UpdateBody(id pursuit.BodyID, position r3.Vec) {
	bd, ok := w.bodies[id]
	if !ok {
		return
	}
	w.space.RemoveShape(bd.shape)
	center := cp.Vector{X: position.X, Y: position.Z}
	if bd.circle {
		bd.shape = cp.NewCircle(w.space.StaticBody, bd.radius, center)
	} else {
		bd.shape = cp.NewBox2(w.space.StaticBody, cp.NewBBForExtents(center, bd.halfX, bd.halfZ), 0)
	}
	w.insert(bd)
}

// CheckCollisions returns the bodies overlapping the sphere at point, deepest
// first. The ground plane is reported as a TagGround hit with body 0.
func (w *World) CheckCollisions(point r3.Vec, radius float64, exclude pursuit.ExcludeFunc) []pursuit.Hit {
	var hits []pursuit.Hit
	center := cp.Vector{X: point.X, Y: point.Z}

	w.space.BBQuery(cp.NewBBForCircle(center, radius), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		bd, ok := shape.UserData.(*body)
		if !ok {
			return
		}
		// Sphere entirely above a bounded body.
		if bd.height > 0 && point.Y-radius >= w.groundY+bd.height {
			return
		}
		info := shape.PointQuery(center)
		if info.Distance >= radius {
			return
		}
		hit := pursuit.Hit{
			Body:   bd.id,
			Tag:    bd.tag,
			Normal: r3.Vec{X: info.Gradient.X, Z: info.Gradient.Y},
			Depth:  radius - info.Distance,
		}
		if exclude != nil && exclude(hit) {
			return
		}
		hits = append(hits, hit)
	}, nil)

	if d := point.Y - w.groundY; d < radius {
		hit := pursuit.Hit{Tag: pursuit.TagGround, Normal: r3.Vec{Y: 1}, Depth: radius - d}
		if exclude == nil || !exclude(hit) {
			hits = append(hits, hit)
		}
	}

	// Deepest first, then by body.
	slices.SortFunc(hits, func(a, b pursuit.Hit) int {
		if c := cmp.Compare(b.Depth, a.Depth); c != 0 {
			return c
		}
		return cmp.Compare(a.Body, b.Body)
	})
	return hits
}
