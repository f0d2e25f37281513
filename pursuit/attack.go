package pursuit

import "gonum.org/v1/gonum/spatial/r3"

const (
	impactParticles = 6
	impactColor     = 0xff4444
)

// attack runs in every state. The cooldown keeps counting down while the
// target is out of reach, so the next hit lands as soon as it is in range.
func (a *Agent) attack(dt float64, target Target, targetPos r3.Vec) {
	a.attackTimer -= dt
	if a.attackTimer > 0 {
		return
	}
	if horizontalDistance(a.position, targetPos) > a.cfg.AttackRange {
		return
	}
	a.attackTimer = a.cfg.AttackCooldown

	if a.env.Audio != nil {
		a.env.Audio.PlayImpact()
	}
	if a.env.Particles != nil {
		a.env.Particles.Emit(targetPos, impactParticles, impactColor)
	}

	dealt := 0.0
	if res := target.Resource(); res != nil {
		before := res.Current()
		after := before - a.cfg.BatteryDamage
		if after < 0 {
			after = 0
		}
		res.SetCurrent(after)
		dealt = before - after
	}
	a.counters.Attacks++
	a.log.Debug("impact", "damage", dealt)
	a.emit(EventAttack, dealt)
}
