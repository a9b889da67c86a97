// Package perf provides bounded concurrency helpers.
package perf

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// IndexError reports which input of a Map call failed.
type IndexError struct {
	Index int
	Err   error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("error at index %d: %v", e.Index, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

// Workers normalizes a worker count, mapping n <= 0 to the CPU count.
func Workers(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// Map applies fn to each element of items with at most concurrency calls in
// flight. Results keep the order of items regardless of completion order.
//
// The first failure cancels the remaining work. When several calls fail, the
// error of the lowest index is returned, so the outcome does not depend on
// scheduling.
func Map[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error), concurrency int) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]R, len(items))
	errs := make([]error, len(items))
	next := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range next {
				res, err := call(ctx, fn, items[idx])
				if err != nil {
					errs[idx] = err
					cancel()
					continue
				}
				results[idx] = res
			}
		}()
	}

feed:
	for i := range items {
		select {
		case next <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(next)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, &IndexError{Index: i, Err: err}
		}
	}
	if err := ctx.Err(); err != nil {
		// cancelled by the caller, not by a failing call
		return nil, err
	}
	return results, nil
}

// call runs fn, converting a panic into an error so one bad input cannot
// take down the pool.
func call[T, R any](ctx context.Context, fn func(context.Context, T) (R, error), item T) (res R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panic: %v", r)
		}
	}()
	return fn(ctx, item)
}
