package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/pursuit/components"
	"github.com/pthm-cable/pursuit/pursuit"
)

// maxPlacementTries bounds random spawn placement before giving up.
const maxPlacementTries = 64

// spawnPopulation creates configured and random hunters and drones.
func (g *Game) spawnPopulation() {
	cfg := g.cfg
	radius := cfg.Pursuit.ColliderRadius

	for _, sp := range cfg.Hunters.Spawns {
		g.spawnHunter(r3.Vec{X: sp.X, Y: cfg.Arena.GroundY, Z: sp.Z}, sp.Yaw)
	}
	for i := 0; i < cfg.Hunters.Count; i++ {
		pos, ok := g.randomOpenPoint(radius)
		if !ok {
			g.logger.Warn("no free spot for hunter", "index", i)
			continue
		}
		g.spawnHunter(pos, (g.rng.Float64()*2-1)*math.Pi)
	}

	centers := make([]r3.Vec, 0, max(cfg.Drones.Count, len(cfg.Drones.Spawns)))
	for _, sp := range cfg.Drones.Spawns {
		centers = append(centers, r3.Vec{X: sp.X, Y: cfg.Arena.GroundY, Z: sp.Z})
	}
	for len(centers) < cfg.Drones.Count {
		pos, ok := g.randomOpenPoint(0)
		if !ok {
			g.logger.Warn("no free spot for drone", "index", len(centers))
			break
		}
		centers = append(centers, pos)
	}
	for _, c := range centers {
		g.spawnDrone(c)
	}
}

// spawnHunter creates a hunter entity with its own collision body and agent.
func (g *Game) spawnHunter(pos r3.Vec, yaw float64) ecs.Entity {
	g.nextID++
	id := g.nextID

	body := g.collision.AddCircle(pos, g.cfg.Pursuit.ColliderRadius, g.cfg.Hunters.BodyHeight, pursuit.TagAgent)
	agent := pursuit.NewAgent(g.cfg.Pursuit, pursuit.Spawn{
		ID:       id,
		Position: pos,
		Yaw:      yaw,
		Body:     body,
	}, pursuit.Environment{
		Targets:   g.targets,
		Collider:  g.collision,
		Audio:     g.feedback,
		Particles: g.feedback,
		Listener:  g.collector,
		Logger:    g.logger,
	})

	p := components.Position{}
	p.Set(pos)
	heading := components.Heading{Yaw: yaw}
	hunter := components.Hunter{ID: id, Body: body, Agent: agent}
	e := g.hunterMapper.NewEntity(&p, &heading, &hunter)

	g.collector.Hunters().Register(id, g.tick)
	g.numHunters++
	return e
}

// spawnDrone creates a drone patrolling a loop around center.
func (g *Game) spawnDrone(center r3.Vec) ecs.Entity {
	g.nextID++
	cfg := g.cfg.Drones

	waypoints := patrolLoop(center, cfg.PatrolRadius, cfg.PatrolPoints, g.rng.Float64()*2*math.Pi)
	for i := range waypoints {
		waypoints[i] = g.arena.Clamp(waypoints[i], 1)
	}

	pos := components.Position{X: center.X, Y: g.cfg.Arena.GroundY + cfg.Altitude, Z: center.Z}
	heading := components.Heading{}
	drone := components.Drone{ID: g.nextID, Speed: cfg.Speed, Altitude: cfg.Altitude}
	battery := components.Battery{Level: cfg.MaxBattery, Max: cfg.MaxBattery}
	patrol := components.Patrol{Waypoints: waypoints}
	e := g.droneMapper.NewEntity(&pos, &heading, &drone, &battery, &patrol)
	g.numDrones++
	return e
}

// patrolLoop returns n points evenly spaced on a circle, starting at phase.
func patrolLoop(center r3.Vec, radius float64, n int, phase float64) []r3.Vec {
	points := make([]r3.Vec, n)
	for i := range points {
		a := phase + float64(i)*2*math.Pi/float64(n)
		points[i] = r3.Vec{X: center.X + radius*math.Sin(a), Y: center.Y, Z: center.Z + radius*math.Cos(a)}
	}
	return points
}

// randomOpenPoint samples a ground point clear of obstacles.
func (g *Game) randomOpenPoint(radius float64) (r3.Vec, bool) {
	h := g.arena.HalfSize
	for i := 0; i < maxPlacementTries; i++ {
		x := (g.rng.Float64()*2 - 1) * h
		z := (g.rng.Float64()*2 - 1) * h
		if !g.arena.Blocked(x, z, radius) {
			return r3.Vec{X: x, Y: g.arena.GroundY, Z: z}, true
		}
	}
	return r3.Vec{}, false
}
