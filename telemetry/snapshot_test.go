package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/pursuit/pursuit"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	lifetime := &HunterStats{SpawnTick: 0, Detections: 2, Attacks: 5, Damage: 40}
	snapshot := &Snapshot{
		Version: SnapshotVersion,
		Seed:    42,
		Tick:    900,
		Hunters: []HunterState{
			NewHunterState(pursuit.Snapshot{
				ID:          1,
				State:       pursuit.StatePursuing,
				Position:    r3.Vec{X: 3, Y: 0, Z: -4},
				Yaw:         1.2,
				PathLen:     3,
				ChaseTimer:  4.5,
				AttackTimer: 0.7,
			}, lifetime),
		},
		Drones: []DroneState{{ID: 7, X: 1, Y: 3, Z: 2, Battery: 0.6}},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if filepath.Base(path) != "snapshot_900.json" {
		t.Errorf("path = %s, want snapshot_900.json", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.Seed != 42 || loaded.Tick != 900 {
		t.Errorf("header = seed %d tick %d", loaded.Seed, loaded.Tick)
	}
	if len(loaded.Hunters) != 1 || len(loaded.Drones) != 1 {
		t.Fatalf("loaded %d hunters, %d drones", len(loaded.Hunters), len(loaded.Drones))
	}
	h := loaded.Hunters[0]
	if h.State != "pursuing" || h.X != 3 || h.Z != -4 || h.PathLen != 3 {
		t.Errorf("hunter = %+v", h)
	}
	if h.Lifetime == nil || h.Lifetime.Attacks != 5 || h.Lifetime.Damage != 40 {
		t.Errorf("lifetime = %+v", h.Lifetime)
	}
	if loaded.Drones[0] != snapshot.Drones[0] {
		t.Errorf("drone = %+v, want %+v", loaded.Drones[0], snapshot.Drones[0])
	}
}

func TestSnapshotJSONKeys(t *testing.T) {
	data, err := json.Marshal(Snapshot{Version: SnapshotVersion, Hunters: []HunterState{{ID: 1, State: "idle"}}})
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"version"`, `"hunters"`, `"path_len"`, `"attack_timer"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON missing %s: %s", key, data)
		}
	}
	if strings.Contains(string(data), `"lifetime"`) {
		t.Errorf("nil lifetime serialized: %s", data)
	}
}

func TestLoadSnapshotErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad json", "{", "unmarshal snapshot"},
		{"wrong version", `{"version": 99}`, "unsupported snapshot version"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tc.name, " ", "_")+".json")
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadSnapshot(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("LoadSnapshot error = %v, want %q", err, tc.want)
			}
		})
	}

	if _, err := LoadSnapshot(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadSnapshot of a missing file succeeded")
	}
}
