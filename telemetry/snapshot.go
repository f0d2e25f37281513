package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/pursuit/pursuit"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the end-of-run state of the arena.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	Tick    int32 `json:"tick"`

	Hunters []HunterState `json:"hunters"`
	Drones  []DroneState  `json:"drones"`
}

// HunterState holds one hunter's agent state.
type HunterState struct {
	ID    uint32  `json:"id"`
	State string  `json:"state"`
	X     float64 `json:"x"`
	Z     float64 `json:"z"`
	Yaw   float64 `json:"yaw"`

	PathLen     int     `json:"path_len"`
	ChaseTimer  float64 `json:"chase_timer"`
	AttackTimer float64 `json:"attack_timer"`

	Lifetime *HunterStats `json:"lifetime,omitempty"`
}

// DroneState holds one drone's position and charge.
type DroneState struct {
	ID      uint32  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Battery float64 `json:"battery"`
}

// NewHunterState converts an agent snapshot, attaching its tracked stats.
func NewHunterState(s pursuit.Snapshot, lifetime *HunterStats) HunterState {
	return HunterState{
		ID:          s.ID,
		State:       s.State.String(),
		X:           s.Position.X,
		Z:           s.Position.Z,
		Yaw:         s.Yaw,
		PathLen:     s.PathLen,
		ChaseTimer:  s.ChaseTimer,
		AttackTimer: s.AttackTimer,
		Lifetime:    lifetime,
	}
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Tick))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snapshot.Version)
	}
	return &snapshot, nil
}
