// Package par provides fork-join helpers for data-parallel loops and
// associative reductions over index ranges.
//
// Workers receive contiguous chunks of [0, n) and never share mutable
// state; reductions combine per-chunk partials in chunk order, which keeps
// results deterministic for a fixed worker count.
package par

import (
	"runtime"
	"sync"
)

// Workers resolves a requested worker count: zero or negative means one
// worker per CPU.
func Workers(requested int) int {
	if requested > 0 {
		return requested
	}
	return runtime.NumCPU()
}

// For executes fn over contiguous chunks covering [0, n) using the given
// number of workers. Each index is handed to exactly one chunk.
func For(n, workers int, fn func(start, end int)) {
	workers = Workers(workers)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		if n > 0 {
			fn(0, n)
		}
		return
	}

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		go func(s, e int) {
			defer wg.Done()
			if s < e {
				fn(s, e)
			}
		}(start, end)
	}
	wg.Wait()
}

// Sum reduces fn over [0, n) with per-worker partial sums combined in chunk
// order after all workers finish. fn must be free of side effects on shared
// state.
func Sum(n, workers int, fn func(start, end int) float64) float64 {
	workers = Workers(workers)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		if n == 0 {
			return 0
		}
		return fn(0, n)
	}

	chunk := (n + workers - 1) / workers
	partials := make([]float64, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		go func(w, s, e int) {
			defer wg.Done()
			if s < e {
				partials[w] = fn(s, e)
			}
		}(w, start, end)
	}
	wg.Wait()

	total := 0.0
	for _, p := range partials {
		total += p
	}
	return total
}
