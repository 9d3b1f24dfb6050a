package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Scenario describes one stress run. Every field has a default so the tool
// runs without a config file; a TOML file overrides selected knobs.
type Scenario struct {
	Pool  PoolScenario  `toml:"pool"`
	Churn ChurnScenario `toml:"churn"`
}

type PoolScenario struct {
	Capacity int `toml:"capacity"`
}

type ChurnScenario struct {
	SpawnWeight   int `toml:"spawn_weight"`
	DestroyWeight int `toml:"destroy_weight"`
	AttachWeight  int `toml:"attach_weight"`
	DeferWeight   int `toml:"defer_weight"`
	FlushEvery    int `toml:"flush_every"`
	SnapshotEvery int `toml:"snapshot_every"`
	OpsPerFrame   int `toml:"ops_per_frame"`
}

func defaultScenario() Scenario {
	return Scenario{
		Pool: PoolScenario{Capacity: 4096},
		Churn: ChurnScenario{
			SpawnWeight:   5,
			DestroyWeight: 3,
			AttachWeight:  2,
			DeferWeight:   2,
			FlushEvery:    1,
			SnapshotEvery: 120,
			OpsPerFrame:   512,
		},
	}
}

// loadScenario reads a TOML scenario file over the defaults.
func loadScenario(path string) (Scenario, error) {
	scenario := defaultScenario()
	if path == "" {
		return scenario, nil
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return scenario, fmt.Errorf("read scenario: %w", err)
	}
	if err := toml.Unmarshal(blob, &scenario); err != nil {
		return scenario, fmt.Errorf("parse scenario: %w", err)
	}
	if scenario.Pool.Capacity <= 0 {
		return scenario, fmt.Errorf("scenario capacity must be positive, got %d", scenario.Pool.Capacity)
	}
	return scenario, nil
}
