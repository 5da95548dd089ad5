package stress

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/michaelbradley91/StickySharedResources/core"
	"github.com/michaelbradley91/StickySharedResources/groups"
)

// FairnessResult reports what a fairness run observed. The property
// under test: once a group exhausts its restart budget it closes the
// gate, so no single acquisition restarts more than budget plus the
// number of gated completions that overlapped it.
type FairnessResult struct {
	Acquisitions   int64 // completed gated acquisitions
	ChurnRounds    int64 // connect/disconnect rounds by the churn worker
	MaxRestarts    int   // worst single acquisition
	GateClosures   int64 // total gate closures
	BudgetExceeded int64 // acquisitions that restarted past their budget
	Elapsed        time.Duration
}

func (r FairnessResult) String() string {
	return fmt.Sprintf(
		"acquisitions=%d churnRounds=%d maxRestarts=%d gateClosures=%d budgetExceeded=%d elapsed=%s",
		r.Acquisitions, r.ChurnRounds, r.MaxRestarts, r.GateClosures, r.BudgetExceeded, r.Elapsed,
	)
}

// Fairness pits acquirer workers, all wanting the same overlapping
// resource set, against one churn worker that keeps merging and
// splitting those resources' classes to invalidate in-flight
// acquisitions. Runs in a private world; cfg.Workers-1 of the workers
// are acquirers and each completes cfg.Rounds acquisitions.
func Fairness(cfg Config) (FairnessResult, error) {
	if cfg.Workers < 2 || cfg.Resources < 4 || cfg.Rounds < 1 {
		return FairnessResult{}, fmt.Errorf("stress: invalid fairness config %+v", cfg)
	}

	world := core.NewWorld()
	pool := make([]*core.Resource, cfg.Resources)
	for i := range pool {
		pool[i] = world.NewResource()
	}

	opts := []groups.Option{groups.WithWorld(world)}
	budget := groups.DefaultRestartBudget
	if cfg.RestartBudget > 0 {
		budget = cfg.RestartBudget
		opts = append(opts, groups.WithRestartBudget(cfg.RestartBudget))
	}

	var (
		res      FairnessResult
		mu       sync.Mutex
		wg       sync.WaitGroup
		churning atomic.Bool
		start    = time.Now()
	)
	churning.Store(true)

	// Churn worker: connect then disconnect random pairs, forever, until
	// the acquirers are done.
	wg.Add(1)
	go func() {
		defer wg.Done()
		rng := rand.New(rand.NewSource(cfg.Seed))
		for churning.Load() {
			pair := pick(rng, pool, 2)
			g, err := groups.Acquire(pair, opts...)
			if err != nil {
				panic(err)
			}
			if g.Connect(pair[0], pair[1]) == nil {
				_ = g.Disconnect(pair[0], pair[1])
			}
			if err = g.Free(); err != nil {
				panic(err)
			}
			mu.Lock()
			res.ChurnRounds++
			mu.Unlock()
		}
	}()

	// Acquirer workers: everyone wants the first half of the pool.
	want := pool[:cfg.Resources/2]
	acquirers := cfg.Workers - 1
	wg.Add(acquirers)
	for w := 0; w < acquirers; w++ {
		go func() {
			defer wg.Done()
			var local FairnessResult
			for round := 0; round < cfg.Rounds; round++ {
				g, err := groups.Acquire(want, opts...)
				if err != nil {
					panic(err)
				}
				stats := g.Stats()
				if stats.Restarts > local.MaxRestarts {
					local.MaxRestarts = stats.Restarts
				}
				if stats.Restarts > budget {
					local.BudgetExceeded++
				}
				local.GateClosures += int64(stats.GateClosures)
				local.Acquisitions++
				if err = g.Free(); err != nil {
					panic(err)
				}
			}

			mu.Lock()
			res.Acquisitions += local.Acquisitions
			res.GateClosures += local.GateClosures
			res.BudgetExceeded += local.BudgetExceeded
			if local.MaxRestarts > res.MaxRestarts {
				res.MaxRestarts = local.MaxRestarts
			}
			mu.Unlock()
		}()
	}

	// Stop the churn once every acquirer has finished its rounds, then
	// wait the whole squad out.
	for {
		mu.Lock()
		finished := res.Acquisitions >= int64(acquirers*cfg.Rounds)
		mu.Unlock()
		if finished {
			break
		}
		time.Sleep(time.Millisecond)
	}
	churning.Store(false)
	wg.Wait()
	res.Elapsed = time.Since(start)

	return res, nil
}
