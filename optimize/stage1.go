// Package optimize implements the two-stage optimizer: a
// reference-direction multi-objective population search (Stage 1) over
// candidate route indices, followed by a Tabu Search refinement pass
// (Stage 2) on each survivor.
package optimize

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"freightcore/pkg/config"
	"freightcore/pkg/domain"
	"freightcore/pkg/metrics"
	"freightcore/pkg/telemetry"
)

type objective struct {
	cost, time, goods float64
}

func objectiveOf(e domain.RouteEval) objective {
	return objective{cost: e.TotalCost, time: e.TotalTime, goods: e.GoodsScore}
}

func (o objective) vector() [3]float64 { return [3]float64{o.cost, o.time, o.goods} }

// Stage1 minimizes (total_cost, total_time, goods_score) over the integer
// index into the candidate route list, using Das-Dennis reference
// directions to niche a population of indices across generations.
type Stage1 struct {
	cfg config.OptimizerConfig
}

// NewStage1 returns a Stage1 search configured from cfg.
func NewStage1(cfg config.OptimizerConfig) *Stage1 {
	return &Stage1{cfg: cfg}
}

// Select runs the population search and returns the final population's
// distinct routes, unioned with every valid candidate absent from that final
// population, so the sampling process cannot silently discard a good route.
// Invalid candidates are dropped.
func (s *Stage1) Select(ctx context.Context, candidates []domain.RouteEval) []domain.RouteEval {
	start := time.Now()
	result, _ := telemetry.StageValue(ctx, "PopulationSearch", func(ctx context.Context) ([]domain.RouteEval, error) {
		valid := make([]domain.RouteEval, 0, len(candidates))
		for _, c := range candidates {
			if c.Valid {
				valid = append(valid, c)
			}
		}
		if len(valid) == 0 {
			return nil, nil
		}

		refDirs := dasDennis(3, s.cfg.ReferencePartitions)
		rng := rand.New(rand.NewSource(s.cfg.Seed))

		popSize := s.cfg.PopulationSize
		if popSize <= 0 {
			popSize = 1
		}
		if popSize > len(valid)*4 {
			popSize = len(valid) * 4
		}

		population := make([]int, popSize)
		for i := range population {
			population[i] = rng.Intn(len(valid))
		}

		for gen := 0; gen < s.cfg.Generations; gen++ {
			offspring := reproduce(population, len(valid), rng)
			combined := append(append([]int{}, population...), offspring...)
			population = selectNiched(combined, valid, refDirs, popSize)
		}

		seen := make(map[int]bool, popSize)
		out := make([]domain.RouteEval, 0, popSize)
		for _, idx := range population {
			if !seen[idx] {
				seen[idx] = true
				out = append(out, valid[idx])
			}
		}
		for i, c := range valid {
			if !seen[i] {
				out = append(out, c)
			}
		}
		return out, nil
	})
	metrics.Get().RecordOptimizerStage("population_search", s.cfg.Generations, time.Since(start))
	return result
}

// reproduce generates one offspring per population slot: mostly a random
// pick between two existing parents, occasionally a fresh random index to
// keep the search from converging onto a single basin early.
func reproduce(population []int, n int, rng *rand.Rand) []int {
	offspring := make([]int, len(population))
	for i := range offspring {
		if rng.Float64() < 0.3 {
			offspring[i] = rng.Intn(n)
			continue
		}
		a := population[rng.Intn(len(population))]
		b := population[rng.Intn(len(population))]
		if rng.Float64() < 0.5 {
			offspring[i] = a
		} else {
			offspring[i] = b
		}
	}
	return offspring
}

// selectNiched runs fast non-dominated sorting over the combined index pool
// then fills popSize slots front by front, breaking ties within the last
// admitted front by nearest reference direction.
func selectNiched(combined []int, valid []domain.RouteEval, refDirs [][]float64, popSize int) []int {
	fronts := fastNonDominatedSort(combined, valid)
	ideal, nadir := idealNadir(combined, valid)

	selected := make([]int, 0, popSize)
	for _, front := range fronts {
		if len(selected)+len(front) <= popSize {
			selected = append(selected, front...)
			continue
		}
		remaining := popSize - len(selected)
		if remaining <= 0 {
			break
		}
		ranked := nicheRank(front, valid, refDirs, ideal, nadir)
		selected = append(selected, ranked[:remaining]...)
		break
	}
	return selected
}

func idealNadir(indices []int, valid []domain.RouteEval) (ideal, nadir [3]float64) {
	ideal = [3]float64{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}
	nadir = [3]float64{-math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64}
	for _, idx := range indices {
		v := objectiveOf(valid[idx]).vector()
		for d := 0; d < 3; d++ {
			if v[d] < ideal[d] {
				ideal[d] = v[d]
			}
			if v[d] > nadir[d] {
				nadir[d] = v[d]
			}
		}
	}
	return ideal, nadir
}

func nicheRank(front []int, valid []domain.RouteEval, refDirs [][]float64, ideal, nadir [3]float64) []int {
	type scored struct {
		idx  int
		dist float64
	}
	scoredList := make([]scored, len(front))
	for i, idx := range front {
		v := objectiveOf(valid[idx]).vector()
		var norm [3]float64
		for d := 0; d < 3; d++ {
			span := nadir[d] - ideal[d]
			if span < domain.Epsilon {
				norm[d] = 0
			} else {
				norm[d] = (v[d] - ideal[d]) / span
			}
		}
		scoredList[i] = scored{idx: idx, dist: closestRefDistance(norm, refDirs)}
	}
	sort.Slice(scoredList, func(i, j int) bool { return scoredList[i].dist < scoredList[j].dist })
	out := make([]int, len(scoredList))
	for i, sc := range scoredList {
		out[i] = sc.idx
	}
	return out
}

func closestRefDistance(point [3]float64, refDirs [][]float64) float64 {
	best := math.MaxFloat64
	for _, ref := range refDirs {
		if d := perpendicularDistance(point, ref); d < best {
			best = d
		}
	}
	return best
}

// perpendicularDistance returns the distance from point to the line through
// the origin in direction ref, following the NSGA-III association rule.
func perpendicularDistance(point [3]float64, ref []float64) float64 {
	var dot, refNormSq float64
	for d := 0; d < 3; d++ {
		dot += point[d] * ref[d]
		refNormSq += ref[d] * ref[d]
	}
	if refNormSq < domain.Epsilon {
		refNormSq = domain.Epsilon
	}
	t := dot / refNormSq
	var sumSq float64
	for d := 0; d < 3; d++ {
		diff := point[d] - t*ref[d]
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq)
}

// fastNonDominatedSort groups indices into Pareto fronts (front 0 is
// non-dominated), the classic NSGA-II/III procedure.
func fastNonDominatedSort(indices []int, valid []domain.RouteEval) [][]int {
	n := len(indices)
	dominatedBy := make([][]int, n)
	dominationCount := make([]int, n)

	objs := make([]objective, n)
	for i, idx := range indices {
		objs[i] = objectiveOf(valid[idx])
	}

	var fronts [][]int
	var front0 []int
	for p := 0; p < n; p++ {
		for q := 0; q < n; q++ {
			if p == q {
				continue
			}
			switch {
			case dominates(objs[p], objs[q]):
				dominatedBy[p] = append(dominatedBy[p], q)
			case dominates(objs[q], objs[p]):
				dominationCount[p]++
			}
		}
		if dominationCount[p] == 0 {
			front0 = append(front0, p)
		}
	}

	current := front0
	for len(current) > 0 {
		frontIdx := make([]int, len(current))
		for i, p := range current {
			frontIdx[i] = indices[p]
		}
		fronts = append(fronts, frontIdx)

		var next []int
		for _, p := range current {
			for _, q := range dominatedBy[p] {
				dominationCount[q]--
				if dominationCount[q] == 0 {
					next = append(next, q)
				}
			}
		}
		current = next
	}
	return fronts
}

func dominates(a, b objective) bool {
	av, bv := a.vector(), b.vector()
	better := false
	for d := 0; d < 3; d++ {
		if av[d] > bv[d] {
			return false
		}
		if av[d] < bv[d] {
			better = true
		}
	}
	return better
}

// dasDennis generates the uniform simplex of reference directions for
// numObjectives objectives partitioned into `partitions` divisions
// (Das & Dennis, 1998).
func dasDennis(numObjectives, partitions int) [][]float64 {
	var result [][]float64
	var rec func(remaining, left int, point []int)
	rec = func(remaining, left int, point []int) {
		if remaining == 1 {
			full := append(append([]int{}, point...), left)
			vec := make([]float64, len(full))
			for i, v := range full {
				vec[i] = float64(v) / float64(partitions)
			}
			result = append(result, vec)
			return
		}
		for i := 0; i <= left; i++ {
			rec(remaining-1, left-i, append(append([]int{}, point...), i))
		}
	}
	rec(numObjectives, partitions, nil)
	return result
}
