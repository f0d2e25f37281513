package components

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/pursuit/pursuit"
)

var _ pursuit.Depletable = (*Battery)(nil)

func TestBatterySetCurrent(t *testing.T) {
	tests := []struct {
		name string
		max  float64
		set  float64
		want float64
	}{
		{"within range", 100, 40, 40},
		{"below zero", 100, -5, 0},
		{"above max", 100, 150, 100},
		{"unbounded", 0, 150, 150},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := &Battery{Level: 50, Max: tc.max}
			b.SetCurrent(tc.set)
			if b.Current() != tc.want {
				t.Errorf("Current() = %f, want %f", b.Current(), tc.want)
			}
		})
	}
}

func TestBatteryDrained(t *testing.T) {
	b := &Battery{Level: 8, Max: 100}
	if b.Drained() {
		t.Error("Drained() = true with charge left")
	}
	if got := b.Fraction(); got != 0.08 {
		t.Errorf("Fraction() = %f, want 0.08", got)
	}
	b.SetCurrent(b.Current() - 8)
	if !b.Drained() {
		t.Error("Drained() = false at zero")
	}
}

func TestPatrolWraps(t *testing.T) {
	p := &Patrol{Waypoints: []r3.Vec{{X: 1}, {X: 2}, {X: 3}}}
	var got []float64
	for i := 0; i < 5; i++ {
		wp, ok := p.Current()
		if !ok {
			t.Fatal("Current() reported no waypoint")
		}
		got = append(got, wp.X)
		p.Advance()
	}
	want := []float64{1, 2, 3, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("waypoint %d = %f, want %f", i, got[i], want[i])
		}
	}

	empty := &Patrol{}
	if _, ok := empty.Current(); ok {
		t.Error("empty patrol reported a waypoint")
	}
	empty.Advance()
}
