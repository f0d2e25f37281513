package pursuit

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	idleSwayRate      = 1.5  // rad/s of the idle phase
	idleSwayAmplitude = 0.05 // rad either side of the spawn heading
)

// Spawn places a new agent.
type Spawn struct {
	ID       uint32  // reported in events
	Position r3.Vec  // Y fixes the agent's ground height
	Yaw      float64 // radians, 0 faces +Z
	Body     BodyID  // the agent's own collider body, 0 if none
}

// Counters accumulate over the agent's lifetime.
type Counters struct {
	Plans   int
	Attacks int
	Slides  int
	Stalls  int
}

// Snapshot is a read-only view of an agent after an update.
type Snapshot struct {
	ID          uint32
	State       State
	Position    r3.Vec
	Yaw         float64
	Moving      bool
	PathLen     int
	ChaseTimer  float64
	PathTimer   float64
	AttackTimer float64
	Counters    Counters
}

// Agent is a single pursuing hunter. It is driven by Update from one
// goroutine and holds no locks.
type Agent struct {
	id      uint32
	cfg     Config
	env     Environment
	log     *slog.Logger
	planner *Planner
	body    BodyID
	groundY float64

	position r3.Vec
	yaw      float64
	baseYaw  float64

	state       State
	chaseTimer  float64
	pathTimer   float64
	attackTimer float64
	path        []r3.Vec
	lastSample  r3.Vec
	moving      bool
	idlePhase   float64

	counters Counters
}

// NewAgent creates an Idle agent at spawn. The attack is ready immediately.
func NewAgent(cfg Config, spawn Spawn, env Environment) *Agent {
	logger := env.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &Agent{
		id:       spawn.ID,
		cfg:      cfg,
		env:      env,
		log:      logger.With("agent", spawn.ID),
		body:     spawn.Body,
		groundY:  spawn.Position.Y,
		position: spawn.Position,
		yaw:      spawn.Yaw,
		baseYaw:  spawn.Yaw,
	}
	a.planner = NewPlanner(cfg, a.groundY, env.Collider, a.excludeHit)
	return a
}

// excludeHit drops the ground plane and the agent's own body.
func (a *Agent) excludeHit(h Hit) bool {
	if h.Tag == TagGround {
		return true
	}
	return a.body != 0 && h.Body == a.body
}

// Update advances the agent by dt seconds.
func (a *Agent) Update(dt float64) {
	target, ok := a.locate()
	if !ok {
		if a.state == StatePursuing {
			a.stopPursuit("target lost")
		}
		a.idleTurn(dt)
		a.syncBody()
		return
	}

	targetPos := target.Position()
	a.updateState(dt, horizontalDistance(a.position, targetPos))

	if a.state == StatePursuing {
		a.refreshPath(dt, targetPos)
		a.steer(dt, targetPos)
	} else {
		a.idleTurn(dt)
	}

	a.attack(dt, target, targetPos)
	a.syncBody()
}

func (a *Agent) locate() (Target, bool) {
	if a.env.Targets == nil {
		return nil, false
	}
	t, ok := a.env.Targets.Locate(a.position)
	if !ok || t == nil {
		return nil, false
	}
	return t, true
}

// updateState runs detection, then the chase countdown. The countdown
// includes the detection tick, so a chase can end on the tick it starts.
func (a *Agent) updateState(dt, dist float64) {
	if a.state == StateIdle {
		if dist > a.cfg.DetectionRange {
			return
		}
		a.state = StatePursuing
		a.chaseTimer = a.cfg.ChaseDuration
		a.pathTimer = 0
		a.log.Debug("target detected", "distance", dist)
		a.emit(EventDetect, dist)
	}

	a.chaseTimer -= dt
	switch {
	case dist > a.cfg.ChaseDistance:
		a.stopPursuit("out of range")
	case a.chaseTimer <= 0:
		a.stopPursuit("chase expired")
	}
}

func (a *Agent) stopPursuit(reason string) {
	a.state = StateIdle
	a.path = nil
	a.moving = false
	a.log.Debug("pursuit ended", "reason", reason)
	a.emit(EventLose, 0)
}

// refreshPath replans when the refresh timer runs out or the target moved
// more than a cell since the last plan.
func (a *Agent) refreshPath(dt float64, targetPos r3.Vec) {
	a.pathTimer -= dt
	moved := r3.Norm2(r3.Sub(targetPos, a.lastSample)) > a.cfg.PathCellSize*a.cfg.PathCellSize
	if a.pathTimer > 0 && !moved {
		return
	}
	a.pathTimer = a.cfg.PathRefresh
	a.lastSample = targetPos
	a.path = a.planner.FindPath(a.position, targetPos)
	a.counters.Plans++
	a.emit(EventReplan, float64(len(a.path)))
}

func (a *Agent) idleTurn(dt float64) {
	a.moving = false
	a.idlePhase += dt * idleSwayRate
	a.yaw = a.baseYaw + math.Sin(a.idlePhase)*idleSwayAmplitude
}

func (a *Agent) syncBody() {
	if a.env.Collider == nil || a.body == 0 {
		return
	}
	a.env.Collider.UpdateBody(a.body, a.position)
}

func (a *Agent) emit(kind EventKind, value float64) {
	if a.env.Listener == nil {
		return
	}
	a.env.Listener.OnPursuitEvent(Event{Kind: kind, Agent: a.id, Position: a.position, Value: value})
}

// ID returns the identifier given at spawn.
func (a *Agent) ID() uint32 { return a.id }

// State returns the current behavior mode.
func (a *Agent) State() State { return a.state }

// Position returns the agent's position.
func (a *Agent) Position() r3.Vec { return a.position }

// Yaw returns the agent's heading in radians.
func (a *Agent) Yaw() float64 { return a.yaw }

// Moving reports whether the agent moved on the last update.
func (a *Agent) Moving() bool { return a.moving }

// Config returns the agent's tuning.
func (a *Agent) Config() Config { return a.cfg }

// Counters returns the lifetime counters.
func (a *Agent) Counters() Counters { return a.counters }

// Path returns a copy of the remaining waypoints.
func (a *Agent) Path() []r3.Vec {
	if len(a.path) == 0 {
		return nil
	}
	out := make([]r3.Vec, len(a.path))
	copy(out, a.path)
	return out
}

// Snapshot captures the agent's current state.
func (a *Agent) Snapshot() Snapshot {
	return Snapshot{
		ID:          a.id,
		State:       a.state,
		Position:    a.position,
		Yaw:         a.yaw,
		Moving:      a.moving,
		PathLen:     len(a.path),
		ChaseTimer:  a.chaseTimer,
		PathTimer:   a.pathTimer,
		AttackTimer: a.attackTimer,
		Counters:    a.counters,
	}
}

func horizontalDistance(a, b r3.Vec) float64 {
	return math.Hypot(a.X-b.X, a.Z-b.Z)
}
