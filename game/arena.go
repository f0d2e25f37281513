package game

import (
	"math"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/pursuit/collision"
	"github.com/pthm-cable/pursuit/config"
	"github.com/pthm-cable/pursuit/pursuit"
)

// wallThickness is the depth of the perimeter walls outside the arena.
const wallThickness = 1.0

// Arena is the static obstacle layout on the ground plane.
type Arena struct {
	HalfSize  float64
	GroundY   float64
	Obstacles []collision.Box
}

// BuildArena lays out walls, explicit boxes and the crate field. Crates are
// placed on a lattice where simplex noise exceeds the threshold, skipping
// sites within the clear zone of any point in keepClear.
func BuildArena(cfg config.ArenaConfig, seed int64, keepClear []r3.Vec) *Arena {
	a := &Arena{HalfSize: cfg.HalfSize, GroundY: cfg.GroundY}
	h := cfg.HalfSize

	if cfg.Walls {
		a.Obstacles = append(a.Obstacles,
			collision.Box{MinX: -h - wallThickness, MinZ: -h - wallThickness, MaxX: h + wallThickness, MaxZ: -h},
			collision.Box{MinX: -h - wallThickness, MinZ: h, MaxX: h + wallThickness, MaxZ: h + wallThickness},
			collision.Box{MinX: -h - wallThickness, MinZ: -h, MaxX: -h, MaxZ: h},
			collision.Box{MinX: h, MinZ: -h, MaxX: h + wallThickness, MaxZ: h},
		)
	}

	for _, b := range cfg.Boxes {
		a.Obstacles = append(a.Obstacles, collision.Box{
			MinX: b.MinX, MinZ: b.MinZ, MaxX: b.MaxX, MaxZ: b.MaxZ, Height: b.Height,
		})
	}

	crates := cfg.Crates
	if crates.Spacing <= 0 || crates.Size <= 0 {
		return a
	}
	noise := opensimplex.NewNormalized(seed)
	half := crates.Size / 2
	clearSq := crates.ClearZone * crates.ClearZone
	for x := -h + crates.Spacing/2; x < h; x += crates.Spacing {
	sites:
		for z := -h + crates.Spacing/2; z < h; z += crates.Spacing {
			if noise.Eval2(x*crates.Scale, z*crates.Scale) <= crates.Threshold {
				continue
			}
			for _, p := range keepClear {
				dx, dz := p.X-x, p.Z-z
				if dx*dx+dz*dz < clearSq {
					continue sites
				}
			}
			a.Obstacles = append(a.Obstacles, collision.Box{
				MinX: x - half, MinZ: z - half, MaxX: x + half, MaxZ: z + half, Height: crates.Height,
			})
		}
	}
	return a
}

// Populate inserts every obstacle into w.
func (a *Arena) Populate(w *collision.World) []pursuit.BodyID {
	ids := make([]pursuit.BodyID, 0, len(a.Obstacles))
	for _, b := range a.Obstacles {
		ids = append(ids, w.AddBox(b, pursuit.TagObstacle))
	}
	return ids
}

// Blocked reports whether a disc of radius at (x, z) overlaps an obstacle
// or leaves the arena.
func (a *Arena) Blocked(x, z, radius float64) bool {
	if math.Abs(x) > a.HalfSize-radius || math.Abs(z) > a.HalfSize-radius {
		return true
	}
	for _, b := range a.Obstacles {
		if x+radius > b.MinX && x-radius < b.MaxX && z+radius > b.MinZ && z-radius < b.MaxZ {
			return true
		}
	}
	return false
}

// Clamp keeps a point inside the arena with margin to spare.
func (a *Arena) Clamp(p r3.Vec, margin float64) r3.Vec {
	limit := a.HalfSize - margin
	p.X = math.Max(-limit, math.Min(limit, p.X))
	p.Z = math.Max(-limit, math.Min(limit, p.Z))
	return p
}
