package main

import (
	"errors"
	"flag"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"worldgen/internal/heightmap"
	"worldgen/pkg/core"
)

type paramSet struct {
	granularity float64
	target      float64
	tolerance   float64
}

func (p paramSet) String() string {
	return fmt.Sprintf("granularity=%.2f target=%.2f tolerance=%.3f", p.granularity, p.target, p.tolerance)
}

type scenarioResult struct {
	params     paramSet
	runs       int
	converged  int
	meanPasses float64
	maxPasses  int
	meanLevel  float64
}

func (r scenarioResult) rate() float64 {
	if r.runs == 0 {
		return 0
	}
	return float64(r.converged) / float64(r.runs)
}

func main() {
	power := flag.Int("power", 6, "heightmap size exponent")
	entropy := flag.Float64("entropy", 100, "initial displacement magnitude")
	seeds := flag.Int("seeds", 16, "seeds per parameter set")
	passLimit := flag.Int("max-passes", heightmap.DefaultMaxPasses, "calibration pass limit")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	flag.Parse()

	size := heightmap.SizeForPower(*power)
	if err := heightmap.ValidateSize(size); err != nil {
		fmt.Println(err)
		return
	}

	granularityOptions := []float64{0.3, 0.5, 0.7, 0.9}
	targetOptions := []float64{0.1, 0.25, 0.5, 0.75}
	toleranceOptions := []float64{0.01, 0.05}

	var sets []paramSet
	for _, g := range granularityOptions {
		for _, target := range targetOptions {
			for _, tol := range toleranceOptions {
				sets = append(sets, paramSet{granularity: g, target: target, tolerance: tol})
			}
		}
	}

	fmt.Printf("Sweeping %d parameter sets (%d workers, %d seeds, size %d)\n", len(sets), *workers, *seeds, size)

	jobs := make(chan paramSet)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				results <- runScenario(size, *entropy, *passLimit, params, *seeds)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			jobs <- params
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	for res := range results {
		all = append(all, res)
		if res.converged < res.runs {
			fmt.Printf("Non-converging runs: %d/%d with %s\n", res.runs-res.converged, res.runs, res.params)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].rate() != all[j].rate() {
			return all[i].rate() > all[j].rate()
		}
		return all[i].meanPasses < all[j].meanPasses
	})
	elapsed := time.Since(start)

	fmt.Printf("\nResults (elapsed %s):\n", elapsed.Round(time.Millisecond))
	for i, res := range all {
		fmt.Printf("%2d) converged=%d/%d passes(mean=%.1f max=%d) level=%.2f %s\n",
			i+1, res.converged, res.runs, res.meanPasses, res.maxPasses, res.meanLevel, res.params)
	}
}

func runScenario(size int, entropy float64, maxPasses int, params paramSet, seeds int) scenarioResult {
	res := scenarioResult{params: params}
	cal := heightmap.Calibrator{Target: params.target, Tolerance: params.tolerance, MaxPasses: maxPasses}
	var passes, levels float64
	for seed := 1; seed <= seeds; seed++ {
		res.runs++
		grid, err := heightmap.Synthesize(size, entropy, params.granularity, core.NewRNG(int64(seed)))
		if err != nil {
			continue
		}
		out, err := cal.Calibrate(grid)
		if err != nil {
			var ce *heightmap.ConvergenceError
			if errors.As(err, &ce) {
				res.maxPasses = max(res.maxPasses, ce.Passes)
			}
			continue
		}
		res.converged++
		passes += float64(out.Passes)
		levels += out.SeaLevel
		res.maxPasses = max(res.maxPasses, out.Passes)
	}
	if res.converged > 0 {
		res.meanPasses = passes / float64(res.converged)
		res.meanLevel = levels / float64(res.converged)
	}
	return res
}
