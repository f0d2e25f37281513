package telemetry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/pursuit/pursuit"
)

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1, 0.1) // 10 ticks per window
	c.Hunters().Register(1, 0)
	c.Hunters().Register(2, 0)

	at := func(tick int32, kind pursuit.EventKind, agent uint32, value float64) {
		c.SetTick(tick)
		c.OnPursuitEvent(pursuit.Event{Kind: kind, Agent: agent, Position: r3.Vec{X: 1, Z: 2}, Value: value})
	}
	at(1, pursuit.EventDetect, 1, 12)
	at(1, pursuit.EventReplan, 1, 4)
	at(2, pursuit.EventReplan, 2, 0)
	at(3, pursuit.EventSlide, 1, 7)
	at(4, pursuit.EventStall, 1, 7)
	at(5, pursuit.EventSlide, 1, 7)
	at(6, pursuit.EventReplan, 1, 6)
	at(6, pursuit.EventAttack, 1, 8)
	at(9, pursuit.EventAttack, 1, 8)

	if c.ShouldFlush(9) {
		t.Error("ShouldFlush(9) = true before the window is full")
	}
	if !c.ShouldFlush(10) {
		t.Fatal("ShouldFlush(10) = false")
	}

	stats := c.Flush(10, WorldSample{Hunters: 2, Pursuing: 1, Batteries: []float64{0.84, 0, 1}})

	ints := []struct {
		name      string
		got, want int
	}{
		{"detections", stats.Detections, 1},
		{"replans", stats.Replans, 3},
		{"empty plans", stats.EmptyPlans, 1},
		{"attacks", stats.Attacks, 2},
		{"slides", stats.Slides, 2},
		{"stalls", stats.Stalls, 1},
		{"drones active", stats.DronesActive, 2},
		{"drones drained", stats.DronesDrained, 1},
	}
	for _, f := range ints {
		if f.got != f.want {
			t.Errorf("%s = %d, want %d", f.name, f.got, f.want)
		}
	}

	floats := []struct {
		name      string
		got, want float64
	}{
		{"damage", stats.Damage, 16},
		{"slide rate", stats.SlideRate, 2.0 / 3},
		{"replan rate", stats.ReplanRate, 1.5},
		{"plan mean", stats.PlanLenMean, 5},
		{"contact mean", stats.ContactMean, 0.5},
		{"sim time", stats.SimTimeSec, 1},
	}
	for _, f := range floats {
		if math.Abs(f.got-f.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", f.name, f.got, f.want)
		}
	}

	// Counters reset; the open pursuit does not record a second contact.
	c.SetTick(12)
	c.OnPursuitEvent(pursuit.Event{Kind: pursuit.EventAttack, Agent: 1, Value: 8})
	next := c.Flush(20, WorldSample{Hunters: 2})
	if next.Attacks != 1 || next.Detections != 0 || next.ContactMean != 0 {
		t.Errorf("second window = %+v", next)
	}
	if next.WindowStartTick != 10 {
		t.Errorf("WindowStartTick = %d, want 10", next.WindowStartTick)
	}
}

func TestCollectorEventRecords(t *testing.T) {
	c := NewCollector(1, 0.1)
	c.SetTick(7)
	c.OnPursuitEvent(pursuit.Event{Kind: pursuit.EventDetect, Agent: 3, Position: r3.Vec{X: 1, Y: 9, Z: 2}, Value: 20})
	c.OnPursuitEvent(pursuit.Event{Kind: pursuit.EventSlide, Agent: 3})

	records := c.DrainEvents()
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (slides are not logged)", len(records))
	}
	want := EventRecord{Tick: 7, Agent: 3, Kind: "detect", X: 1, Z: 2, Value: 20}
	if records[0] != want {
		t.Errorf("record = %+v, want %+v", records[0], want)
	}
	if again := c.DrainEvents(); len(again) != 0 {
		t.Errorf("DrainEvents after drain = %v", again)
	}
}

func TestHunterTracker(t *testing.T) {
	ht := NewHunterTracker()
	ht.Register(1, 0)

	ev := func(kind pursuit.EventKind, value float64) pursuit.Event {
		return pursuit.Event{Kind: kind, Agent: 1, Value: value}
	}
	ht.Record(5, ev(pursuit.EventDetect, 0))
	if lat, ok := ht.Record(8, ev(pursuit.EventAttack, 8)); !ok || lat != 3 {
		t.Errorf("first attack latency = %d, %v; want 3, true", lat, ok)
	}
	if _, ok := ht.Record(20, ev(pursuit.EventAttack, 8)); ok {
		t.Error("second attack reported a contact")
	}
	ht.Record(25, ev(pursuit.EventLose, 0))
	ht.Record(30, ev(pursuit.EventDetect, 0))
	ht.Close(34)

	s := ht.Get(1)
	if s.Detections != 2 || s.Losses != 1 || s.Attacks != 2 || s.Damage != 16 {
		t.Errorf("stats = %+v", *s)
	}
	if s.PursuitTicks != 24 {
		t.Errorf("PursuitTicks = %d, want 24", s.PursuitTicks)
	}

	if _, ok := ht.Record(1, pursuit.Event{Kind: pursuit.EventDetect, Agent: 99}); ok {
		t.Error("unregistered hunter recorded")
	}
	if got := ht.Remove(1); got != s || ht.Len() != 0 {
		t.Error("Remove did not return and drop the stats")
	}
}
