package game

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"
)

// Feedback is the headless stand-in for the impact sound and particle
// bursts. It counts what would have been played and logs at debug level.
type Feedback struct {
	logger    *slog.Logger
	impacts   int
	bursts    int
	particles int
}

// NewFeedback creates a feedback sink logging to logger.
func NewFeedback(logger *slog.Logger) *Feedback {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Feedback{logger: logger}
}

// PlayImpact implements pursuit.ImpactPlayer.
func (f *Feedback) PlayImpact() {
	f.impacts++
}

// Emit implements pursuit.ParticleEmitter.
func (f *Feedback) Emit(position r3.Vec, count int, color uint32) {
	f.bursts++
	f.particles += count
	f.logger.Debug("particles",
		"x", position.X,
		"y", position.Y,
		"z", position.Z,
		"count", count,
		"color", fmt.Sprintf("#%06x", color),
	)
}

// Impacts returns the number of impact sounds played.
func (f *Feedback) Impacts() int { return f.impacts }

// Particles returns the number of bursts and total particles emitted.
func (f *Feedback) Particles() (bursts, particles int) { return f.bursts, f.particles }
