package domain

import "strings"

// Route is an ordered sequence of location names, first = source,
// last = destination. Created during enumeration; immutable thereafter.
type Route struct {
	Nodes []string
}

// NewRoute returns a Route over the given node sequence.
func NewRoute(nodes ...string) Route {
	return Route{Nodes: append([]string(nil), nodes...)}
}

// Key returns the "→"-joined route string used for deduplication.
func (r Route) Key() string {
	return strings.Join(r.Nodes, "→")
}

// Len returns the number of nodes in the route.
func (r Route) Len() int {
	return len(r.Nodes)
}

// Pairs iterates over consecutive (from, to) node pairs, calling fn for each.
func (r Route) Pairs(fn func(from, to string)) {
	for i := 0; i+1 < len(r.Nodes); i++ {
		fn(r.Nodes[i], r.Nodes[i+1])
	}
}

// Equal reports whether two routes visit the same nodes in the same order.
func (r Route) Equal(other Route) bool {
	if len(r.Nodes) != len(other.Nodes) {
		return false
	}
	for i := range r.Nodes {
		if r.Nodes[i] != other.Nodes[i] {
			return false
		}
	}
	return true
}
