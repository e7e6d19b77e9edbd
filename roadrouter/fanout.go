package roadrouter

import (
	"context"
	"sync"
)

// Query is one road leg to resolve concurrently, keyed by the caller so
// results can be joined back to the graph node that requested them.
type Query struct {
	Key    string
	SrcLon float64
	SrcLat float64
	DstLon float64
	DstLat float64
}

// FetchMany dispatches queries across a bounded worker pool and returns
// only the successful results, keyed by Query.Key. Results are joined
// under a mutex; workers never touch the graph. A canceled ctx stops
// workers early, and partial results are still returned so the caller can
// decide whether to apply or discard them.
func (c *Client) FetchMany(ctx context.Context, queries []Query) map[string]Result {
	results := make(map[string]Result, len(queries))
	if len(queries) == 0 {
		return results
	}

	numWorkers := c.cfg.WorkerPoolSize
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if numWorkers > len(queries) {
		numWorkers = len(queries)
	}

	tasks := make(chan Query, len(queries))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for q := range tasks {
				select {
				case <-ctx.Done():
					return
				default:
				}

				res, err := c.Route(ctx, q.SrcLon, q.SrcLat, q.DstLon, q.DstLat)
				if err != nil || !res.Success {
					continue
				}

				mu.Lock()
				results[q.Key] = res
				mu.Unlock()
			}
		}()
	}

	for _, q := range queries {
		tasks <- q
	}
	close(tasks)

	wg.Wait()
	return results
}
