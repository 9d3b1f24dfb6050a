package pool_test

import (
	"fmt"

	"github.com/AyanamiKaine/louds/pool"
)

type decaySystem struct {
	Enemies pool.KindQuery[Thing]
}

func (s *decaySystem) Execute(frame *pool.Frame[Thing]) {
	for _, thing := range s.Enemies.Iter() {
		thing.Health -= 10
	}
}

type reaperSystem struct{}

func (reaperSystem) Execute(frame *pool.Frame[Thing]) {
	frame.Pool.QueueDestroyIf(func(_ pool.Ref, thing *Thing) bool {
		return thing.Health <= 0
	})
}

// ExampleScheduler wires systems over one pool. KindQuery fields are
// initialized during Register, and the deferred-destroy queue is flushed
// automatically at the end of every frame, so systems can queue
// destruction freely while iterating.
func ExampleScheduler() {
	world := pool.New[Thing](32)

	for i := 0; i < 3; i++ {
		r := world.Spawn()
		world.Get(r).Kind = KindEnemy
		world.Get(r).Health = int32(10 * (i + 1))
	}

	scheduler := pool.NewScheduler(world)
	scheduler.Register(&decaySystem{Enemies: pool.KindQuery[Thing]{Kind: KindEnemy}})
	scheduler.Register(reaperSystem{})

	for frame := 1; frame <= 3; frame++ {
		scheduler.Once(1.0 / 60.0)
		fmt.Printf("frame %d: %d alive\n", frame, world.Len())
	}
	// Output:
	// frame 1: 2 alive
	// frame 2: 1 alive
	// frame 3: 0 alive
}
