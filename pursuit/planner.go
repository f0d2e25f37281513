package pursuit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// MaxGridNodes caps the planning grid. Larger grids are refused outright.
const MaxGridNodes = 576

// probeLift keeps cell probes clear of the ground plane.
const probeLift = 0.1

// neighborOffsets is the expansion order. It fixes the tie-break between
// equal-cost paths.
var neighborOffsets = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

type cellState uint8

const (
	cellUnknown cellState = iota
	cellFree
	cellBlocked
)

// grid is the square planning window centered on the search start.
type grid struct {
	originX, originZ float64
	cellSize         float64
	side             int
}

func (g grid) locate(p r3.Vec) (ix, iz int, ok bool) {
	ix = int(math.Floor((p.X-g.originX)/g.cellSize + 0.5))
	iz = int(math.Floor((p.Z-g.originZ)/g.cellSize + 0.5))
	ok = ix >= 0 && iz >= 0 && ix < g.side && iz < g.side
	return ix, iz, ok
}

func (g grid) index(ix, iz int) int { return ix + iz*g.side }

func (g grid) center(idx int) (x, z float64) {
	return g.originX + float64(idx%g.side)*g.cellSize, g.originZ + float64(idx/g.side)*g.cellSize
}

// Planner runs A* over a bounded 4-connected grid. Cells are probed lazily
// through the collider, at most once per search. A Planner is owned by one
// agent and is not safe for concurrent use.
type Planner struct {
	cellSize    float64
	radius      float64
	probeRadius float64
	groundY     float64
	collider    Collider
	exclude     ExcludeFunc

	// Scratch, reused across searches.
	gScore   []float64
	fScore   []float64
	cameFrom []int
	inOpen   []bool
	cells    []cellState
	open     []int

	probes int
}

// NewPlanner builds a planner for cfg. groundY is the height waypoints are
// placed at. collider may be nil, in which case every cell is free.
func NewPlanner(cfg Config, groundY float64, collider Collider, exclude ExcludeFunc) *Planner {
	return &Planner{
		cellSize:    cfg.PathCellSize,
		radius:      cfg.PathSearchRadius,
		probeRadius: cfg.ColliderRadius,
		groundY:     groundY,
		collider:    collider,
		exclude:     exclude,
		gScore:      make([]float64, MaxGridNodes),
		fScore:      make([]float64, MaxGridNodes),
		cameFrom:    make([]int, MaxGridNodes),
		inOpen:      make([]bool, MaxGridNodes),
		cells:       make([]cellState, MaxGridNodes),
		open:        make([]int, 0, MaxGridNodes),
	}
}

// Probes returns how many collision queries the last FindPath issued.
func (p *Planner) Probes() int { return p.probes }

// FindPath returns the waypoints from start to target, excluding the start
// cell and including the target cell. It returns nil when the grid is too
// large, either point lies outside the grid, or the target is unreachable.
func (p *Planner) FindPath(start, target r3.Vec) []r3.Vec {
	p.probes = 0
	if !(p.cellSize > 0) {
		return nil
	}
	g := grid{
		originX:  start.X - p.radius,
		originZ:  start.Z - p.radius,
		cellSize: p.cellSize,
		side:     int(math.Ceil(2*p.radius/p.cellSize)) + 1,
	}
	n := g.side * g.side
	if g.side <= 0 || n > MaxGridNodes {
		return nil
	}
	sx, sz, ok := g.locate(start)
	if !ok {
		return nil
	}
	tx, tz, ok := g.locate(target)
	if !ok {
		return nil
	}

	p.reset(n)
	startIdx := g.index(sx, sz)
	goal := g.index(tx, tz)
	heuristic := func(idx int) float64 {
		ix, iz := idx%g.side, idx/g.side
		return float64(abs(ix-tx) + abs(iz-tz))
	}

	p.gScore[startIdx] = 0
	p.fScore[startIdx] = heuristic(startIdx)
	p.open = append(p.open, startIdx)
	p.inOpen[startIdx] = true

	for len(p.open) > 0 {
		// Lowest f wins, earliest inserted on ties.
		best := 0
		bestF := p.fScore[p.open[0]]
		for i := 1; i < len(p.open); i++ {
			if f := p.fScore[p.open[i]]; f < bestF {
				best, bestF = i, f
			}
		}
		current := p.open[best]
		p.open = append(p.open[:best], p.open[best+1:]...)
		p.inOpen[current] = false

		if current == goal {
			return p.reconstruct(g, current)
		}

		cx, cz := current%g.side, current/g.side
		for _, d := range neighborOffsets {
			nx, nz := cx+d[0], cz+d[1]
			if nx < 0 || nz < 0 || nx >= g.side || nz >= g.side {
				continue
			}
			next := g.index(nx, nz)
			if p.blocked(g, next) {
				continue
			}
			tentative := p.gScore[current] + 1
			if tentative < p.gScore[next] {
				p.cameFrom[next] = current
				p.gScore[next] = tentative
				p.fScore[next] = tentative + heuristic(next)
				if !p.inOpen[next] {
					p.open = append(p.open, next)
					p.inOpen[next] = true
				}
			}
		}
	}
	return nil
}

func (p *Planner) reset(n int) {
	inf := math.Inf(1)
	for i := 0; i < n; i++ {
		p.gScore[i] = inf
		p.fScore[i] = inf
		p.cameFrom[i] = -1
		p.inOpen[i] = false
		p.cells[i] = cellUnknown
	}
	p.open = p.open[:0]
}

// blocked probes a cell the first time it is asked about and remembers the
// answer for the rest of the search.
func (p *Planner) blocked(g grid, idx int) bool {
	switch p.cells[idx] {
	case cellFree:
		return false
	case cellBlocked:
		return true
	}
	if p.collider == nil {
		p.cells[idx] = cellFree
		return false
	}
	x, z := g.center(idx)
	probe := r3.Vec{X: x, Y: p.groundY + p.probeRadius + probeLift, Z: z}
	p.probes++
	if len(p.collider.CheckCollisions(probe, p.probeRadius, p.exclude)) > 0 {
		p.cells[idx] = cellBlocked
		return true
	}
	p.cells[idx] = cellFree
	return false
}

func (p *Planner) reconstruct(g grid, goal int) []r3.Vec {
	var steps int
	for cur := goal; p.cameFrom[cur] != -1; cur = p.cameFrom[cur] {
		steps++
	}
	if steps == 0 {
		return nil
	}
	path := make([]r3.Vec, steps)
	cur := goal
	for i := steps - 1; i >= 0; i-- {
		x, z := g.center(cur)
		path[i] = r3.Vec{X: x, Y: p.groundY, Z: z}
		cur = p.cameFrom[cur]
	}
	return path
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
