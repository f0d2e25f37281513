package pursuit

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"
)

// Depletable is a numeric resource an attack drains, such as a battery.
type Depletable interface {
	Current() float64
	SetCurrent(v float64)
}

// Target is something an agent can chase. Resource may return nil when the
// target carries nothing to drain.
type Target interface {
	Position() r3.Vec
	Resource() Depletable
}

// TargetLocator returns the target an agent at from should chase, if any.
type TargetLocator interface {
	Locate(from r3.Vec) (Target, bool)
}

// LocatorFunc adapts a function to TargetLocator.
type LocatorFunc func(from r3.Vec) (Target, bool)

func (f LocatorFunc) Locate(from r3.Vec) (Target, bool) { return f(from) }

// ImpactPlayer plays the attack sound.
type ImpactPlayer interface {
	PlayImpact()
}

// ParticleEmitter spawns a burst of count particles at position.
type ParticleEmitter interface {
	Emit(position r3.Vec, count int, color uint32)
}

// Environment bundles the collaborators an agent reads from and reports to.
// Every field is optional.
type Environment struct {
	Targets   TargetLocator
	Collider  Collider
	Audio     ImpactPlayer
	Particles ParticleEmitter
	Listener  Listener
	Logger    *slog.Logger
}
