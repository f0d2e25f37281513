package telemetry

import "github.com/pthm-cable/pursuit/pursuit"

// Collector accumulates agent events within time windows and produces
// WindowStats. It implements pursuit.Listener; call SetTick before the
// agents update so events carry the right tick.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32
	tick            int32

	counts   [pursuit.EventStall + 1]int
	damage   float64
	empty    int
	planLens []float64
	contacts []float64

	hunters *HunterTracker
	pending []EventRecord
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		hunters:             NewHunterTracker(),
	}
}

// SetTick sets the tick stamped on subsequent events.
func (c *Collector) SetTick(tick int32) {
	c.tick = tick
}

// OnPursuitEvent implements pursuit.Listener.
func (c *Collector) OnPursuitEvent(e pursuit.Event) {
	if int(e.Kind) < len(c.counts) {
		c.counts[e.Kind]++
	}
	switch e.Kind {
	case pursuit.EventReplan:
		if e.Value == 0 {
			c.empty++
		} else {
			c.planLens = append(c.planLens, e.Value)
		}
	case pursuit.EventAttack:
		c.damage += e.Value
	}

	if latency, ok := c.hunters.Record(c.tick, e); ok {
		c.contacts = append(c.contacts, float64(latency)*c.dt)
	}
	if logged(e.Kind) {
		c.pending = append(c.pending, NewEventRecord(c.tick, e))
	}
}

// Hunters returns the per-hunter tracker.
func (c *Collector) Hunters() *HunterTracker {
	return c.hunters
}

// DrainEvents returns buffered event records and clears the buffer.
func (c *Collector) DrainEvents() []EventRecord {
	out := c.pending
	c.pending = nil
	return out
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// WorldSample is the world state sampled at window end.
type WorldSample struct {
	Hunters   int
	Pursuing  int
	Batteries []float64 // charge fraction per drone
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample WorldSample) WindowStats {
	slides := c.counts[pursuit.EventSlide]
	stalls := c.counts[pursuit.EventStall]
	replans := c.counts[pursuit.EventReplan]

	var slideRate, replanRate float64
	if slides+stalls > 0 {
		slideRate = float64(slides) / float64(slides+stalls)
	}
	elapsed := float64(currentTick-c.windowStartTick) * c.dt
	if sample.Hunters > 0 && elapsed > 0 {
		replanRate = float64(replans) / float64(sample.Hunters) / elapsed
	}

	active, drained := 0, 0
	for _, b := range sample.Batteries {
		if b > 0 {
			active++
		} else {
			drained++
		}
	}

	plan := Summarize(c.planLens)
	contact := Summarize(c.contacts)
	battery := Summarize(sample.Batteries)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Hunters:       sample.Hunters,
		Pursuing:      sample.Pursuing,
		DronesActive:  active,
		DronesDrained: drained,

		Detections: c.counts[pursuit.EventDetect],
		Losses:     c.counts[pursuit.EventLose],
		Replans:    replans,
		EmptyPlans: c.empty,
		Attacks:    c.counts[pursuit.EventAttack],
		Slides:     slides,
		Stalls:     stalls,
		Damage:     c.damage,

		ReplanRate: replanRate,
		SlideRate:  slideRate,

		PlanLenMean: plan.Mean,
		PlanLenP50:  plan.P50,
		PlanLenP90:  plan.P90,

		ContactMean: contact.Mean,
		ContactP50:  contact.P50,
		ContactP90:  contact.P90,

		BatteryMean: battery.Mean,
		BatteryStd:  battery.Std,
		BatteryP10:  battery.P10,
		BatteryP50:  battery.P50,
		BatteryP90:  battery.P90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	clear(c.counts[:])
	c.damage = 0
	c.empty = 0
	c.planLens = c.planLens[:0]
	c.contacts = c.contacts[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
