package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/AyanamiKaine/louds/pool"
)

// Agent is the stress payload: big enough to make snapshot I/O honest,
// with a kind byte up front and an embedded target ref.
type Agent struct {
	Kind   pool.Kind
	Health int32
	PX, PY float32
	VX, VY float32
	Target pool.Ref
	Filler [40]byte
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	capacity := flag.Int("capacity", 0, "Pool capacity; overrides the scenario file when positive.")
	scenarioPath := flag.String("config", "", "Optional TOML scenario file.")
	seed := flag.Int64("seed", 1, "PRNG seed for the churn mix.")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	scenario, err := loadScenario(*scenarioPath)
	if err != nil {
		log.Fatal("scenario rejected", zap.Error(err))
	}
	if *capacity > 0 {
		scenario.Pool.Capacity = *capacity
	}

	log.Info("starting pool stress test",
		zap.Int("capacity", scenario.Pool.Capacity),
		zap.Duration("duration", *duration))

	world := pool.New[Agent](scenario.Pool.Capacity, pool.WithLogger[Agent](log))
	rng := rand.New(rand.NewSource(*seed))

	snapshotDir, err := os.MkdirTemp("", "pool-stress")
	if err != nil {
		log.Fatal("snapshot dir", zap.Error(err))
	}
	defer os.RemoveAll(snapshotDir)
	snapshotPath := filepath.Join(snapshotDir, "world.bin")

	report := &Report{
		Duration: *duration,
		Capacity: scenario.Pool.Capacity,
		Scenario: scenario,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	churn := newChurn(world, scenario.Churn, rng)
	startTime := time.Now()
	var frames int64

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			frameStart := time.Now()
			churn.frame()
			report.FrameTime.Samples = append(report.FrameTime.Samples, time.Since(frameStart))
			frames++

			if scenario.Churn.SnapshotEvery > 0 && frames%int64(scenario.Churn.SnapshotEvery) == 0 {
				snapStart := time.Now()
				if err := world.SaveToFile(snapshotPath); err != nil {
					log.Fatal("snapshot save", zap.Error(err))
				}
				if err := world.LoadFromFile(snapshotPath); err != nil {
					log.Fatal("snapshot load", zap.Error(err))
				}
				report.SnapshotTime.Samples = append(report.SnapshotTime.Samples, time.Since(snapStart))
				report.Snapshots++
			}
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalFrames = frames
	report.FinalStats = world.CollectStats()
	report.TotalDestroyed = churn.destroyed
	report.FrameTime.Finalize()
	report.SnapshotTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Info("stress run finished",
		zap.Int64("frames", frames),
		zap.Int("alive", report.FinalStats.Alive),
		zap.Int64("destroyed", churn.destroyed))

	fmt.Println("\n--- Pool Stress Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatal("report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")
}

// churn drives one randomised frame of pool traffic.
type churn struct {
	world     *pool.Pool[Agent]
	cfg       ChurnScenario
	rng       *rand.Rand
	live      []pool.Ref
	frames    int64
	destroyed int64
}

func newChurn(world *pool.Pool[Agent], cfg ChurnScenario, rng *rand.Rand) *churn {
	return &churn{
		world: world,
		cfg:   cfg,
		rng:   rng,
		live:  make([]pool.Ref, 0, world.Cap()),
	}
}

func (c *churn) frame() {
	total := c.cfg.SpawnWeight + c.cfg.DestroyWeight + c.cfg.AttachWeight + c.cfg.DeferWeight
	for op := 0; op < c.cfg.OpsPerFrame; op++ {
		roll := c.rng.Intn(total)
		switch {
		case roll < c.cfg.SpawnWeight:
			c.spawn()
		case roll < c.cfg.SpawnWeight+c.cfg.DestroyWeight:
			c.destroy()
		case roll < c.cfg.SpawnWeight+c.cfg.DestroyWeight+c.cfg.AttachWeight:
			c.attach()
		default:
			c.deferDestroy()
		}
	}

	c.frames++
	if c.cfg.FlushEvery > 0 && c.frames%int64(c.cfg.FlushEvery) == 0 {
		c.destroyed += int64(c.world.FlushDestroyLater())
		c.compactLive()
	}
}

func (c *churn) spawn() {
	r := c.world.Spawn()
	if r.IsNil() {
		return
	}
	agent := c.world.Get(r)
	agent.Kind = pool.Kind(c.rng.Intn(4))
	agent.Health = int32(c.rng.Intn(100))
	c.live = append(c.live, r)
}

func (c *churn) destroy() {
	r, ok := c.randomLive()
	if !ok {
		return
	}
	if c.world.IsValid(r) {
		c.world.Destroy(r)
		c.destroyed++
	}
}

func (c *churn) attach() {
	parent, ok1 := c.randomLive()
	child, ok2 := c.randomLive()
	if !ok1 || !ok2 || parent == child {
		return
	}
	// Only attach roots to keep the forest cycle-free under random churn.
	if c.world.Parent(child).IsNil() && c.world.Parent(parent).IsNil() {
		c.world.AttachChild(parent, child)
	}
}

func (c *churn) deferDestroy() {
	if r, ok := c.randomLive(); ok {
		c.world.DestroyLater(r)
	}
}

func (c *churn) randomLive() (pool.Ref, bool) {
	if len(c.live) == 0 {
		return pool.NilRef, false
	}
	return c.live[c.rng.Intn(len(c.live))], true
}

// compactLive drops refs invalidated by destroys and flushes.
func (c *churn) compactLive() {
	kept := c.live[:0]
	for _, r := range c.live {
		if c.world.IsValid(r) {
			kept = append(kept, r)
		}
	}
	c.live = kept
}
