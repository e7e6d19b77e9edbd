// Package container selects the smallest container class that can hold a
// shipment's weight for a given transport mode.
package container

import (
	"sort"

	"freightcore/ingest"
	"freightcore/pkg/domain"
)

// Classification is the result of classifying a weight against a container
// table: the chosen row, and whether its capacity was exceeded.
type Classification struct {
	Container ingest.ContainerRow
	Exceeded  bool
}

// Classifier has no state: every call is a pure function of the table
// passed to Classify.
type Classifier struct{}

// New returns a Classifier.
func New() *Classifier {
	return &Classifier{}
}

// Classify filters table by mode, sorts by ascending capacity, and returns
// the first row whose capacity is at least weightKg. If none qualifies, it
// returns the maximum-capacity row with Exceeded set.
func (c *Classifier) Classify(table []ingest.ContainerRow, mode domain.Mode, weightKg float64) (Classification, bool) {
	matching := make([]ingest.ContainerRow, 0, len(table))
	for _, row := range table {
		if row.Mode == mode {
			matching = append(matching, row)
		}
	}
	if len(matching) == 0 {
		return Classification{}, false
	}

	sort.Slice(matching, func(i, j int) bool { return matching[i].CapacityKg < matching[j].CapacityKg })

	for _, row := range matching {
		if row.CapacityKg >= weightKg {
			return Classification{Container: row, Exceeded: false}, true
		}
	}

	largest := matching[len(matching)-1]
	return Classification{Container: largest, Exceeded: true}, true
}
