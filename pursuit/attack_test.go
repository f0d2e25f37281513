package pursuit

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

type impactRecorder struct {
	sounds    int
	positions []r3.Vec
	counts    []int
	colors    []uint32
}

func (r *impactRecorder) PlayImpact() { r.sounds++ }

func (r *impactRecorder) Emit(p r3.Vec, count int, color uint32) {
	r.positions = append(r.positions, p)
	r.counts = append(r.counts, count)
	r.colors = append(r.colors, color)
}

type inertTarget struct{ pos r3.Vec }

func (t inertTarget) Position() r3.Vec     { return t.pos }
func (t inertTarget) Resource() Depletable { return nil }

func TestAttackCadence(t *testing.T) {
	d := &drone{battery: 100}
	log := &eventLog{}
	a := NewAgent(DefaultConfig(), Spawn{Position: r3.Vec{X: 1}}, Environment{Targets: fixedTarget(d), Listener: log})
	run(a, log, 45, 0.1)

	if got := a.Counters().Attacks; got != 3 {
		t.Errorf("Attacks = %d, want 3", got)
	}
	if !approx(d.battery, 76) {
		t.Errorf("battery = %f, want %f", d.battery, 76.0)
	}
}

func TestAttackCooldownSpacing(t *testing.T) {
	cfg := DefaultConfig()
	const dt = 0.1
	d := &drone{battery: 1000}
	log := &eventLog{}
	a := NewAgent(cfg, Spawn{Position: r3.Vec{X: 1}}, Environment{Targets: fixedTarget(d), Listener: log})
	run(a, log, 200, dt)

	ticks := log.ticksOf(EventAttack)
	if len(ticks) < 2 {
		t.Fatalf("attacks = %d, want several", len(ticks))
	}
	for i := 1; i < len(ticks); i++ {
		if gap := float64(ticks[i]-ticks[i-1]) * dt; gap < cfg.AttackCooldown-eps {
			t.Errorf("attacks %d and %d only %.2fs apart", i-1, i, gap)
		}
	}
}

func TestAttackClampsResource(t *testing.T) {
	tests := []struct {
		name      string
		battery   float64
		want      float64
		wantDealt float64
	}{
		{"full", 100, 92, 8},
		{"exact", 8, 0, 8},
		{"nearly empty", 5, 0, 5},
		{"empty", 0, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := &drone{battery: tc.battery}
			log := &eventLog{}
			a := NewAgent(DefaultConfig(), Spawn{Position: r3.Vec{X: 1}}, Environment{Targets: fixedTarget(d), Listener: log})
			a.Update(0.1)
			if !approx(d.battery, tc.want) {
				t.Errorf("battery = %f, want %f", d.battery, tc.want)
			}
			for _, e := range log.events {
				if e.Kind == EventAttack && !approx(e.Value, tc.wantDealt) {
					t.Errorf("dealt = %f, want %f", e.Value, tc.wantDealt)
				}
			}
		})
	}
}

func TestAttackWhileIdle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DetectionRange = 0.5
	d := &drone{battery: 100}
	a := NewAgent(cfg, Spawn{Position: r3.Vec{X: 1}}, Environment{Targets: fixedTarget(d)})
	a.Update(0.1)
	if a.State() != StateIdle {
		t.Fatalf("State = %v, want %v", a.State(), StateIdle)
	}
	if !approx(d.battery, 92) {
		t.Errorf("battery = %f, want %f", d.battery, 92.0)
	}
}

func TestAttackOutOfRange(t *testing.T) {
	d := &drone{pos: r3.Vec{X: 10}, battery: 100}
	rec := &impactRecorder{}
	a := NewAgent(DefaultConfig(), Spawn{}, Environment{Targets: fixedTarget(d), Audio: rec, Particles: rec})
	a.Update(0.1)
	if d.battery != 100 {
		t.Errorf("battery = %f, want 100", d.battery)
	}
	if rec.sounds != 0 || len(rec.positions) != 0 {
		t.Error("feedback fired out of range")
	}
}

func TestAttackFeedback(t *testing.T) {
	target := r3.Vec{X: 0.5, Y: 2, Z: -0.5}
	d := &drone{pos: target, battery: 100}
	rec := &impactRecorder{}
	a := NewAgent(DefaultConfig(), Spawn{}, Environment{Targets: fixedTarget(d), Audio: rec, Particles: rec})
	a.Update(0.1)

	if rec.sounds != 1 {
		t.Errorf("sounds = %d, want 1", rec.sounds)
	}
	if len(rec.positions) != 1 {
		t.Fatalf("bursts = %d, want 1", len(rec.positions))
	}
	if rec.positions[0] != target {
		t.Errorf("burst at %v, want %v", rec.positions[0], target)
	}
	if rec.counts[0] != 6 {
		t.Errorf("burst count = %d, want 6", rec.counts[0])
	}
	if rec.colors[0] != 0xff4444 {
		t.Errorf("burst color = %#x, want %#x", rec.colors[0], 0xff4444)
	}
}

func TestAttackWithoutResource(t *testing.T) {
	loc := LocatorFunc(func(r3.Vec) (Target, bool) { return inertTarget{pos: r3.Vec{X: 1}}, true })
	a := NewAgent(DefaultConfig(), Spawn{}, Environment{Targets: loc})
	a.Update(0.1)
	if got := a.Counters().Attacks; got != 1 {
		t.Errorf("Attacks = %d, want 1", got)
	}
}
