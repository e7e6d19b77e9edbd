package optimize

import (
	"context"
	"sort"
	"sync"
	"time"

	"freightcore/evaluate"
	"freightcore/pkg/config"
	"freightcore/pkg/domain"
	"freightcore/pkg/metrics"
	"freightcore/pkg/telemetry"
)

// Stage2 refines each Stage-1 survivor with a Tabu Search that swaps
// transit hubs of the same type to locally improve the priority-weighted
// objective.
type Stage2 struct {
	cfg       config.OptimizerConfig
	evaluator *evaluate.Evaluator
}

// NewStage2 returns a Stage2 search backed by evaluator for re-scoring
// candidate neighbor routes.
func NewStage2(cfg config.OptimizerConfig, evaluator *evaluate.Evaluator) *Stage2 {
	return &Stage2{cfg: cfg, evaluator: evaluator}
}

// Refine runs one Tabu Search per route under a bounded worker pool
// (mirroring roadrouter.FetchMany's fan-out shape), joining results
// deterministically by candidate index.
func (s *Stage2) Refine(ctx context.Context, g *domain.Graph, routes []domain.RouteEval, weightKg float64, goodsType domain.GoodsType, priority domain.Priority) []domain.RouteEval {
	start := time.Now()
	results, _ := telemetry.StageValue(ctx, "TabuSearch", func(ctx context.Context) ([]domain.RouteEval, error) {
		out := make([]domain.RouteEval, len(routes))
		if len(routes) == 0 {
			return out, nil
		}

		numWorkers := s.cfg.TabuWorkerPoolSize
		if numWorkers <= 0 {
			numWorkers = 1
		}
		if numWorkers > len(routes) {
			numWorkers = len(routes)
		}

		type task struct {
			idx   int
			route domain.RouteEval
		}
		tasks := make(chan task, len(routes))
		var wg sync.WaitGroup
		for w := 0; w < numWorkers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for t := range tasks {
					select {
					case <-ctx.Done():
						return
					default:
					}
					out[t.idx] = s.tabuSearchOne(g, t.route, weightKg, goodsType, priority)
				}
			}()
		}
		for i, r := range routes {
			tasks <- task{idx: i, route: r}
		}
		close(tasks)
		wg.Wait()
		return out, nil
	})
	metrics.Get().RecordOptimizerStage("tabu_search", s.cfg.TabuMaxIterations, time.Since(start))
	return results
}

func (s *Stage2) tabuSearchOne(g *domain.Graph, start domain.RouteEval, weightKg float64, goodsType domain.GoodsType, priority domain.Priority) domain.RouteEval {
	current := start
	best := start
	tabu := newTabuList(s.cfg.TabuSize)
	tabu.push(current.Route.Key())

	maxIter := s.cfg.TabuMaxIterations
	for iter := 0; iter < maxIter; iter++ {
		neighbors := s.neighbors(g, current.Route, weightKg, goodsType)

		candidates := neighbors[:0:0]
		for _, n := range neighbors {
			if !tabu.contains(n.Route.Key()) {
				candidates = append(candidates, n)
			}
		}
		if len(candidates) == 0 {
			break
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			return objectiveValue(candidates[i], priority) < objectiveValue(candidates[j], priority)
		})

		current = candidates[0]
		tabu.push(current.Route.Key())
		if objectiveValue(current, priority) < objectiveValue(best, priority) {
			best = current
		}
	}
	return best
}

// neighbors substitutes each intermediate node of type airport/seaport with
// every other node of the same type, keeping only substitutions where both
// resulting consecutive edges exist.
func (s *Stage2) neighbors(g *domain.Graph, route domain.Route, weightKg float64, goodsType domain.GoodsType) []domain.RouteEval {
	var out []domain.RouteEval
	nodes := route.Nodes

	for i := 1; i < len(nodes)-1; i++ {
		cur, ok := g.Location(nodes[i])
		if !ok || (cur.Type != domain.LocationAirport && cur.Type != domain.LocationSeaport) {
			continue
		}

		sameType := g.LocationsByType(cur.Type)
		sort.Slice(sameType, func(a, b int) bool { return sameType[a].Name < sameType[b].Name })

		for _, cand := range sameType {
			if cand.Name == nodes[i] {
				continue
			}
			if _, ok := g.Edge(nodes[i-1], cand.Name); !ok {
				continue
			}
			if _, ok := g.Edge(cand.Name, nodes[i+1]); !ok {
				continue
			}

			newNodes := append([]string(nil), nodes...)
			newNodes[i] = cand.Name
			eval := s.evaluator.Evaluate(g, domain.Route{Nodes: newNodes}, weightKg, goodsType)
			if eval.Valid {
				out = append(out, eval)
			}
		}
	}
	return out
}

// objectiveValue returns the scalar Tabu Search objective for priority:
// total_time alone when optimizing for time, otherwise total_cost plus
// total_time weighted by 1000 per hour.
func objectiveValue(e domain.RouteEval, priority domain.Priority) float64 {
	if priority == domain.PriorityTime {
		return e.TotalTime
	}
	return e.TotalCost + e.TotalTime*1000
}

// tabuList is a fixed-size FIFO of recently visited route keys.
type tabuList struct {
	size  int
	items []string
}

func newTabuList(size int) *tabuList {
	if size <= 0 {
		size = 1
	}
	return &tabuList{size: size}
}

func (t *tabuList) push(key string) {
	t.items = append(t.items, key)
	if len(t.items) > t.size {
		t.items = t.items[len(t.items)-t.size:]
	}
}

func (t *tabuList) contains(key string) bool {
	for _, k := range t.items {
		if k == key {
			return true
		}
	}
	return false
}
