// Planner benchmark - sweeps random obstacle densities and reports plan
// latency and success-rate statistics.
//
// Usage: go run ./cmd/planbench -grids 50 -output results.csv
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"slices"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/shapenav/systems"
)

// densityResult is one row of the benchmark output.
type densityResult struct {
	Density    float64 `csv:"density"`
	Grids      int     `csv:"grids"`
	Reached    int     `csv:"reached"`
	MeanUS     float64 `csv:"mean_us"`
	StdDevUS   float64 `csv:"stddev_us"`
	P50US      float64 `csv:"p50_us"`
	P90US      float64 `csv:"p90_us"`
	MeanLength float64 `csv:"mean_path_len"`
}

func main() {
	grids := flag.Int("grids", 50, "Random grids per density step")
	size := flag.Int("size", 40, "Grid width and height in cells")
	margin := flag.Int("margin", 1, "Safety margin")
	seed := flag.Int64("seed", 1, "RNG seed")
	output := flag.String("output", "", "CSV output path (empty = stdout table only)")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	bounds := systems.Bounds{Width: *size, Height: *size}
	topo := systems.DogTopology()

	// Single blocking class, matching the planner's worst case.
	policy := systems.NewCompatPolicy(1)
	policy.SetBlocks(0, topo.Kind())
	planner := systems.NewPathPlanner(bounds, policy, *margin)

	start := systems.Cell{X: 1, Y: 1}
	goal := systems.Cell{X: *size - 4, Y: *size - 4}

	densities := []float64{0.0, 0.02, 0.05, 0.10, 0.15, 0.20}
	results := make([]densityResult, 0, len(densities))

	for _, density := range densities {
		var durations []float64
		var reached, totalLen int

		for i := 0; i < *grids; i++ {
			field := systems.NewObstacleField()
			for c := 0; c < int(density*float64(bounds.Area())); c++ {
				cell := systems.Cell{X: rng.Intn(bounds.Width), Y: rng.Intn(bounds.Height)}
				if cell == start || cell == goal {
					continue
				}
				field.Set(cell, 0)
			}

			began := time.Now()
			res, err := planner.Plan(start, goal, field, topo)
			if err != nil {
				fmt.Fprintf(os.Stderr, "plan failed: %v\n", err)
				os.Exit(1)
			}
			durations = append(durations, float64(time.Since(began).Microseconds()))
			if res.Reached {
				reached++
				totalLen += len(res.Path)
			}
		}

		slices.Sort(durations)
		r := densityResult{
			Density:  density,
			Grids:    *grids,
			Reached:  reached,
			MeanUS:   stat.Mean(durations, nil),
			StdDevUS: stat.StdDev(durations, nil),
			P50US:    stat.Quantile(0.5, stat.Empirical, durations, nil),
			P90US:    stat.Quantile(0.9, stat.Empirical, durations, nil),
		}
		if reached > 0 {
			r.MeanLength = float64(totalLen) / float64(reached)
		}
		results = append(results, r)

		fmt.Printf("density %.2f: reached %d/%d, mean %.0fus, p90 %.0fus\n",
			density, reached, *grids, r.MeanUS, r.P90US)
	}

	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating output: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := gocsv.Marshal(results, f); err != nil {
			fmt.Fprintf(os.Stderr, "writing output: %v\n", err)
			os.Exit(1)
		}
	}
}
