package pursuit

import "gonum.org/v1/gonum/spatial/r3"

// BodyID identifies a collider body. Zero means "no body".
type BodyID uint32

// Tag classifies what a collider body represents.
type Tag uint8

const (
	TagObstacle Tag = iota
	TagGround
	TagAgent
	TagTarget
)

func (t Tag) String() string {
	switch t {
	case TagObstacle:
		return "obstacle"
	case TagGround:
		return "ground"
	case TagAgent:
		return "agent"
	case TagTarget:
		return "target"
	default:
		return "unknown"
	}
}

// Hit is one collider overlapping a query sphere.
type Hit struct {
	Body   BodyID
	Tag    Tag
	Normal r3.Vec  // unit vector pointing out of the obstacle
	Depth  float64 // penetration depth, > 0 for an overlap
}

// ExcludeFunc reports whether a hit should be dropped from a query result.
type ExcludeFunc func(Hit) bool

// Collider answers sphere overlap queries against the world.
//
// CheckCollisions returns every body overlapping the sphere at point with
// the given radius, minus the hits for which exclude returns true. A nil
// exclude keeps everything. UpdateBody moves the agent's own body so other
// agents see it.
type Collider interface {
	CheckCollisions(point r3.Vec, radius float64, exclude ExcludeFunc) []Hit
	UpdateBody(id BodyID, position r3.Vec)
}
