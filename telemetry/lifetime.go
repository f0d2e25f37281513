package telemetry

import "github.com/pthm-cable/pursuit/pursuit"

// HunterStats tracks per-hunter statistics over a run.
type HunterStats struct {
	SpawnTick int32 `json:"spawn_tick"`

	Detections int     `json:"detections"`
	Losses     int     `json:"losses"`
	Replans    int     `json:"replans"`
	Attacks    int     `json:"attacks"`
	Slides     int     `json:"slides"`
	Stalls     int     `json:"stalls"`
	Damage     float64 `json:"damage"`

	PursuitTicks int32 `json:"pursuit_ticks"`

	chaseStart int32 // tick of the open detection, -1 when idle
	contacted  bool  // first impact of the open pursuit already seen
}

// HunterTracker manages per-hunter statistics.
type HunterTracker struct {
	stats map[uint32]*HunterStats
}

// NewHunterTracker creates a new hunter tracker.
func NewHunterTracker() *HunterTracker {
	return &HunterTracker{
		stats: make(map[uint32]*HunterStats),
	}
}

// Register creates stats for a hunter spawned at tick.
func (ht *HunterTracker) Register(id uint32, tick int32) {
	ht.stats[id] = &HunterStats{SpawnTick: tick, chaseStart: -1}
}

// Get returns the stats for a hunter, or nil if not found.
func (ht *HunterTracker) Get(id uint32) *HunterStats {
	return ht.stats[id]
}

// Remove removes a hunter's stats and returns them.
func (ht *HunterTracker) Remove(id uint32) *HunterStats {
	stats := ht.stats[id]
	delete(ht.stats, id)
	return stats
}

// Len returns the number of tracked hunters.
func (ht *HunterTracker) Len() int {
	return len(ht.stats)
}

// Record folds an event into the hunter's stats. When the event is the
// first impact since detection it returns the contact latency in ticks.
func (ht *HunterTracker) Record(tick int32, e pursuit.Event) (latency int32, contact bool) {
	s := ht.stats[e.Agent]
	if s == nil {
		return 0, false
	}
	switch e.Kind {
	case pursuit.EventDetect:
		s.Detections++
		s.chaseStart = tick
		s.contacted = false
	case pursuit.EventLose:
		s.Losses++
		if s.chaseStart >= 0 {
			s.PursuitTicks += tick - s.chaseStart
		}
		s.chaseStart = -1
	case pursuit.EventReplan:
		s.Replans++
	case pursuit.EventAttack:
		s.Attacks++
		s.Damage += e.Value
		if s.chaseStart >= 0 && !s.contacted {
			s.contacted = true
			return tick - s.chaseStart, true
		}
	case pursuit.EventSlide:
		s.Slides++
	case pursuit.EventStall:
		s.Stalls++
	}
	return 0, false
}

// Close accounts open pursuits up to tick, for end-of-run reporting.
func (ht *HunterTracker) Close(tick int32) {
	for _, s := range ht.stats {
		if s.chaseStart >= 0 {
			s.PursuitTicks += tick - s.chaseStart
			s.chaseStart = tick
		}
	}
}

// Sum totals the counters of every tracked hunter. SpawnTick is left zero.
func (ht *HunterTracker) Sum() HunterStats {
	var total HunterStats
	for _, s := range ht.stats {
		total.Detections += s.Detections
		total.Losses += s.Losses
		total.Replans += s.Replans
		total.Attacks += s.Attacks
		total.Slides += s.Slides
		total.Stalls += s.Stalls
		total.Damage += s.Damage
		total.PursuitTicks += s.PursuitTicks
	}
	return total
}
