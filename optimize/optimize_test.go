package optimize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightcore/evaluate"
	"freightcore/pkg/domain"
)

func TestOptimizer_Run_EndToEnd(t *testing.T) {
	g := buildHubGraph()
	ev := evaluate.New()

	candidates := []domain.RouteEval{
		ev.Evaluate(g, domain.NewRoute("Mumbai", "BOM", "IAH", "Houston"), 100, domain.GoodsStandard),
		ev.Evaluate(g, domain.NewRoute("Mumbai", "DEL", "IAH", "Houston"), 100, domain.GoodsStandard),
	}

	opt := New(testOptimizerConfig(), ev)
	out := opt.Run(context.Background(), g, candidates, 100, domain.GoodsStandard, domain.PriorityCost)

	require.NotEmpty(t, out)
	for _, r := range out {
		assert.True(t, r.Valid)
	}
}
