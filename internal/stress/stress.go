// Package stress drives randomized concurrent workloads against the
// resource manager: a pool of resources, a squad of workers doing
// acquire/connect/disconnect/free rounds, and counters that let callers
// assert liveness and fairness. Used by cmd/stickystress and the
// package's own tests.
package stress

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/michaelbradley91/StickySharedResources/core"
	"github.com/michaelbradley91/StickySharedResources/groups"
)

// Config holds workload parameters. The mapstructure tags let the CLI
// decode it straight from a viper config file.
type Config struct {
	// Workers is the number of concurrent goroutines.
	Workers int `mapstructure:"workers"`

	// Resources is the size of the shared resource pool.
	Resources int `mapstructure:"resources"`

	// Rounds is how many acquire/mutate/free rounds each worker runs.
	Rounds int `mapstructure:"rounds"`

	// Seed makes a run reproducible; worker i derives Seed+i.
	Seed int64 `mapstructure:"seed"`

	// RestartBudget overrides the groups default when positive.
	RestartBudget int `mapstructure:"restart_budget"`
}

// DefaultConfig returns a workload small enough for a laptop test run
// and contended enough to force restarts.
func DefaultConfig() Config {
	return Config{
		Workers:   8,
		Resources: 32,
		Rounds:    500,
		Seed:      1,
	}
}

// Result aggregates what a run observed.
type Result struct {
	Rounds       int64         // completed worker rounds
	Connects     int64         // successful Connect calls
	Disconnects  int64         // successful Disconnect calls
	Restarts     int64         // acquisition restarts, summed over groups
	MaxRestarts  int           // worst single acquisition
	GateClosures int64         // fairness-gate closures observed
	Elapsed      time.Duration // wall-clock for the whole run
}

func (r Result) String() string {
	return fmt.Sprintf(
		"rounds=%d connects=%d disconnects=%d restarts=%d maxRestarts=%d gateClosures=%d elapsed=%s",
		r.Rounds, r.Connects, r.Disconnects, r.Restarts, r.MaxRestarts, r.GateClosures, r.Elapsed,
	)
}

// Run executes the workload in a private world and returns once every
// worker has finished its rounds, which, by the deadlock-freedom
// property, it always does. Callers wanting a hard liveness assertion
// wrap Run with their own timeout.
func Run(cfg Config) (Result, error) {
	if cfg.Workers < 1 || cfg.Resources < 2 || cfg.Rounds < 1 {
		return Result{}, fmt.Errorf("stress: invalid config %+v", cfg)
	}

	world := core.NewWorld()
	pool := make([]*core.Resource, cfg.Resources)
	for i := range pool {
		pool[i] = world.NewResource()
	}

	opts := []groups.Option{groups.WithWorld(world)}
	if cfg.RestartBudget > 0 {
		opts = append(opts, groups.WithRestartBudget(cfg.RestartBudget))
	}

	var (
		mu    sync.Mutex
		res   Result
		wg    sync.WaitGroup
		start = time.Now()
	)

	wg.Add(cfg.Workers)
	for w := 0; w < cfg.Workers; w++ {
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			var local Result

			for round := 0; round < cfg.Rounds; round++ {
				// Pick up to three distinct pool members.
				picks := pick(rng, pool, 1+rng.Intn(3))

				g, err := groups.Acquire(picks, opts...)
				if err != nil {
					// Unreachable with a valid pool; bail loudly.
					panic(err)
				}

				// Mutate the connectivity graph while holding it.
				if len(picks) >= 2 {
					a, b := picks[0], picks[1]
					if rng.Intn(2) == 0 {
						if g.Connect(a, b) == nil {
							local.Connects++
						}
					} else {
						if g.Disconnect(a, b) == nil {
							local.Disconnects++
						}
					}
				}

				stats := g.Stats()
				local.Restarts += int64(stats.Restarts)
				local.GateClosures += int64(stats.GateClosures)
				if stats.Restarts > local.MaxRestarts {
					local.MaxRestarts = stats.Restarts
				}
				local.Rounds++

				if err = g.Free(); err != nil {
					panic(err)
				}
			}

			mu.Lock()
			res.Rounds += local.Rounds
			res.Connects += local.Connects
			res.Disconnects += local.Disconnects
			res.Restarts += local.Restarts
			res.GateClosures += local.GateClosures
			if local.MaxRestarts > res.MaxRestarts {
				res.MaxRestarts = local.MaxRestarts
			}
			mu.Unlock()
		}(cfg.Seed + int64(w))
	}
	wg.Wait()
	res.Elapsed = time.Since(start)

	return res, nil
}

// pick returns n distinct resources from pool, chosen by rng.
func pick(rng *rand.Rand, pool []*core.Resource, n int) []*core.Resource {
	if n > len(pool) {
		n = len(pool)
	}
	idx := rng.Perm(len(pool))[:n]
	out := make([]*core.Resource, n)
	for i, j := range idx {
		out[i] = pool[j]
	}

	return out
}
