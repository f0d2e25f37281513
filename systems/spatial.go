// Package systems provides ECS systems for the sandbox.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/pursuit/components"
	"github.com/pthm-cable/pursuit/pursuit"
)

// droneTarget exposes a drone entity to the pursuit agents.
type droneTarget struct {
	pos     r3.Vec
	battery *components.Battery
}

func (t droneTarget) Position() r3.Vec { return t.pos }

func (t droneTarget) Resource() pursuit.Depletable {
	if t.battery == nil {
		return nil
	}
	return t.battery
}

type gridEntry struct {
	e   ecs.Entity
	pos r3.Vec
}

// TargetGrid buckets live drones on the ground plane for nearest-target
// lookups. It is rebuilt every tick after the drones move.
type TargetGrid struct {
	cellSize float64
	originX  float64
	originZ  float64
	cols     int
	rows     int
	radius   float64
	cells    [][]gridEntry

	filter  ecs.Filter3[components.Position, components.Drone, components.Battery]
	battery *ecs.Map1[components.Battery]
}

// NewTargetGrid creates a grid covering [-halfSize, halfSize] on x and z.
// Lookups only return drones within radius of the query point.
func NewTargetGrid(world *ecs.World, halfSize, cellSize, radius float64) *TargetGrid {
	span := 2 * halfSize
	cols := int(span/cellSize) + 1
	rows := cols

	cells := make([][]gridEntry, cols*rows)
	for i := range cells {
		cells[i] = make([]gridEntry, 0, 4)
	}

	return &TargetGrid{
		cellSize: cellSize,
		originX:  -halfSize,
		originZ:  -halfSize,
		cols:     cols,
		rows:     rows,
		radius:   radius,
		cells:    cells,
		filter:   *ecs.NewFilter3[components.Position, components.Drone, components.Battery](world),
		battery:  ecs.NewMap1[components.Battery](world),
	}
}

// Clear removes all entries from the grid.
func (g *TargetGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Update rebuilds the grid from every drone with charge left.
func (g *TargetGrid) Update() {
	g.Clear()
	query := g.filter.Query()
	for query.Next() {
		pos, _, bat := query.Get()
		if bat.Drained() {
			continue
		}
		g.Insert(query.Entity(), pos.Vec())
	}
}

// Insert adds an entity at the given position.
func (g *TargetGrid) Insert(e ecs.Entity, pos r3.Vec) {
	col, row := g.cell(pos)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], gridEntry{e: e, pos: pos})
}

// Len returns the number of indexed entities.
func (g *TargetGrid) Len() int {
	n := 0
	for _, c := range g.cells {
		n += len(c)
	}
	return n
}

// Nearest returns the indexed entity closest to from on the ground plane,
// within the grid's radius. Ties go to the lower entity ID.
func (g *TargetGrid) Nearest(from r3.Vec) (ecs.Entity, r3.Vec, bool) {
	cellRadius := int(g.radius/g.cellSize) + 1
	centerCol, centerRow := g.cell(from)
	radiusSq := g.radius * g.radius

	var (
		best     ecs.Entity
		bestPos  r3.Vec
		bestDist = math.Inf(1)
		found    bool
	)
	for dc := -cellRadius; dc <= cellRadius; dc++ {
		col := centerCol + dc
		if col < 0 || col >= g.cols {
			continue
		}
		for dr := -cellRadius; dr <= cellRadius; dr++ {
			row := centerRow + dr
			if row < 0 || row >= g.rows {
				continue
			}
			for _, entry := range g.cells[row*g.cols+col] {
				dx, dz := entry.pos.X-from.X, entry.pos.Z-from.Z
				distSq := dx*dx + dz*dz
				if distSq > radiusSq {
					continue
				}
				if distSq < bestDist || (distSq == bestDist && entry.e.ID() < best.ID()) {
					best, bestPos, bestDist, found = entry.e, entry.pos, distSq, true
				}
			}
		}
	}
	return best, bestPos, found
}

// Locate implements pursuit.TargetLocator.
func (g *TargetGrid) Locate(from r3.Vec) (pursuit.Target, bool) {
	e, pos, ok := g.Nearest(from)
	if !ok {
		return nil, false
	}
	return droneTarget{pos: pos, battery: g.battery.Get(e)}, true
}

// cell returns the clamped column and row for a position.
func (g *TargetGrid) cell(p r3.Vec) (col, row int) {
	col = int(math.Floor((p.X - g.originX) / g.cellSize))
	row = int(math.Floor((p.Z - g.originZ) / g.cellSize))

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}
