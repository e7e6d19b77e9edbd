package optimize

import (
	"context"

	"freightcore/evaluate"
	"freightcore/pkg/config"
	"freightcore/pkg/domain"
)

// Optimizer chains the population search and Tabu Search stages.
type Optimizer struct {
	stage1 *Stage1
	stage2 *Stage2
}

// New returns an Optimizer configured from cfg, using evaluator to re-score
// Stage 2's neighbor routes.
func New(cfg config.OptimizerConfig, evaluator *evaluate.Evaluator) *Optimizer {
	return &Optimizer{
		stage1: NewStage1(cfg),
		stage2: NewStage2(cfg, evaluator),
	}
}

// Run selects a Pareto-niched subset of candidates (Stage 1) then locally
// refines each with Tabu Search (Stage 2), returning one RouteEval per
// Stage-1 survivor.
func (o *Optimizer) Run(ctx context.Context, g *domain.Graph, candidates []domain.RouteEval, weightKg float64, goodsType domain.GoodsType, priority domain.Priority) []domain.RouteEval {
	selected := o.stage1.Select(ctx, candidates)
	return o.stage2.Refine(ctx, g, selected, weightKg, goodsType, priority)
}
