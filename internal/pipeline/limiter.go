package pipeline

import (
	"context"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/zinc-sig/figbed/internal/output"
)

const (
	// DefaultConcurrency is the upload bound used when none is configured
	DefaultConcurrency = 3

	// ConcurrencyEnv names the environment variable holding the bound
	ConcurrencyEnv = "FIGBED_MAX_CONCURRENT"
)

// ParseConcurrency returns the positive integer in s, or DefaultConcurrency
// when s is empty, unparsable or not positive.
func ParseConcurrency(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return DefaultConcurrency
	}
	return n
}

// ConcurrencyFromEnv reads the bound from ConcurrencyEnv
func ConcurrencyFromEnv() int {
	return ParseConcurrency(os.Getenv(ConcurrencyEnv))
}

// RunFunc executes a single task. It reports failures through the returned
// outcome and must not panic.
type RunFunc func(ctx context.Context, task Task) output.Outcome

// RunAll runs every task with at most limit of them in flight. A slot is
// handed to the next queued task as soon as a running one returns. There is
// no fail-fast: RunAll returns once all tasks are done, with the outcomes
// ordered by task index.
func RunAll(ctx context.Context, limit int, tasks []Task, run RunFunc) []output.Outcome {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var (
		mu       sync.Mutex
		outcomes = make([]output.Outcome, 0, len(tasks))
	)

	// A plain Group: a WithContext group would cancel siblings on error.
	var g errgroup.Group
	g.SetLimit(limit)

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			outcome := run(ctx, task)

			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(outcomes, func(i, j int) bool {
		return outcomes[i].Index < outcomes[j].Index
	})
	return outcomes
}
