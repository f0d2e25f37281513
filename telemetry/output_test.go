package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/pursuit/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// Every method is a no-op on a nil manager.
	if err := om.WriteStats(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteEvents([]EventRecord{{}}); err != nil {
		t.Error(err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Error(err)
	}
	if path, err := om.WriteSnapshot(&Snapshot{}); err != nil || path != "" {
		t.Errorf("WriteSnapshot = %q, %v", path, err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("nil manager reported a directory or close error")
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for _, end := range []int32{300, 600} {
		if err := om.WriteStats(WindowStats{WindowEndTick: end, Attacks: 2}); err != nil {
			t.Fatal(err)
		}
		if err := om.WritePerf(PerfStats{}, end); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteEvents([]EventRecord{{Tick: 3, Agent: 1, Kind: "detect"}, {Tick: 9, Agent: 1, Kind: "attack", Value: 8}}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteEvents(nil); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		file      string
		lines     int
		header    string
		lastField string
	}{
		{"pursuit.csv", 3, "window_end,sim_time,hunters", "600"},
		{"perf.csv", 3, "window_end,avg_tick_us", "600"},
		{"events.csv", 3, "tick,agent,kind,x,z,value", "9"},
	}
	for _, tc := range tests {
		t.Run(tc.file, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(dir, tc.file))
			if err != nil {
				t.Fatal(err)
			}
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if len(lines) != tc.lines {
				t.Fatalf("%d lines, want %d:\n%s", len(lines), tc.lines, data)
			}
			if !strings.HasPrefix(lines[0], tc.header) {
				t.Errorf("header = %q, want prefix %q", lines[0], tc.header)
			}
			if !strings.HasPrefix(lines[len(lines)-1], tc.lastField+",") {
				t.Errorf("last row = %q, want leading %s", lines[len(lines)-1], tc.lastField)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}
