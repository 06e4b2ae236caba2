package status

import (
	"fmt"
	"math"
	"time"

	"github.com/loykin/apicheck/internal/task"
)

// ResultSet is the classified outcome of one run, in plan order.
type ResultSet struct {
	// RunID identifies the run in logs.
	RunID   string
	Results []task.Result
	// Elapsed is the wall-clock span from the first dispatch to the final join.
	Elapsed time.Duration

	passing []int
	failing []int
}

// Aggregate partitions classified results into passing and failing views.
// Both views keep the relative order of results.
func Aggregate(runID string, results []task.Result, elapsed time.Duration) *ResultSet {
	rs := &ResultSet{RunID: runID, Results: results, Elapsed: elapsed}
	for i := range results {
		if results[i].Passed {
			rs.passing = append(rs.passing, i)
		} else {
			rs.failing = append(rs.failing, i)
		}
	}
	return rs
}

func (rs *ResultSet) pick(idx []int) []task.Result {
	out := make([]task.Result, 0, len(idx))
	for _, i := range idx {
		out = append(out, rs.Results[i])
	}
	return out
}

// Passing returns the passing results in plan order.
func (rs *ResultSet) Passing() []task.Result { return rs.pick(rs.passing) }

// Failing returns the failing results in plan order.
func (rs *ResultSet) Failing() []task.Result { return rs.pick(rs.failing) }

func (rs *ResultSet) Total() int { return len(rs.Results) }
func (rs *ResultSet) PassedCount() int { return len(rs.passing) }
func (rs *ResultSet) FailedCount() int { return len(rs.failing) }

// HasFailures reports whether any result failed.
func (rs *ResultSet) HasFailures() bool { return len(rs.failing) > 0 }

// SumDuration adds up the per-request durations. With concurrent requests it
// usually exceeds Elapsed.
func (rs *ResultSet) SumDuration() time.Duration {
	var sum time.Duration
	for _, r := range rs.Results {
		sum += r.Duration
	}
	return sum
}

// FormatHuman returns a one-line summary for CLI output.
func (rs *ResultSet) FormatHuman() string {
	return fmt.Sprintf("total: %d passed: %d failed: %d elapsed: %s", rs.Total(), rs.PassedCount(), rs.FailedCount(), FormatDuration(rs.Elapsed))
}

// FormatDuration renders d with two decimals in the largest unit that keeps
// the value at or above one: 1.50s, 523.45ms, 12.00µs, 7.00ns.
func FormatDuration(d time.Duration) string {
	v := float64(d)
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", v/float64(time.Second))
	case d >= time.Millisecond:
		return fmt.Sprintf("%.2fms", v/float64(time.Millisecond))
	case d >= time.Microsecond:
		return fmt.Sprintf("%.2fµs", v/float64(time.Microsecond))
	default:
		return fmt.Sprintf("%.2fns", math.Max(v, 0))
	}
}
