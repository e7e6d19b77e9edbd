package domain

import (
	"github.com/katalvlaran/lvlath/bfs"
	"github.com/katalvlaran/lvlath/core"
)

// ConnectivityReport summarizes how much of the graph is reachable from a
// source location, over an unweighted directed projection.
type ConnectivityReport struct {
	Source    string
	Reachable int
	Total     int
}

// CheckConnectivity builds a throwaway unweighted projection of g (string
// vertex IDs, no weights; this package's own Graph carries float
// per-mode costs that a unit-weight BFS cannot use) and runs a breadth-first
// reachability count from source. It is a diagnostic aid for the Network
// Builder, not part of feasibility or enumeration logic: an unreachable
// destination simply yields zero candidate routes downstream.
func CheckConnectivity(g *Graph, source string) (ConnectivityReport, error) {
	projection := core.NewGraph(core.WithDirected(true))

	names := g.AllLocationNames()
	for _, name := range names {
		if err := projection.AddVertex(name); err != nil {
			return ConnectivityReport{}, err
		}
	}
	for _, name := range names {
		for _, to := range g.Outgoing(name) {
			// The projection is unweighted; 0 is the only weight it accepts.
			if _, err := projection.AddEdge(name, to, 0); err != nil {
				return ConnectivityReport{}, err
			}
		}
	}

	if _, ok := g.Location(source); !ok {
		return ConnectivityReport{Source: source, Total: len(names)}, nil
	}

	result, err := bfs.BFS(projection, source)
	if err != nil {
		return ConnectivityReport{}, err
	}

	return ConnectivityReport{
		Source:    source,
		Reachable: len(result.Order),
		Total:     len(names),
	}, nil
}
