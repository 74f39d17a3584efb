package scanner

import (
	"fmt"
	"sort"

	"github.com/dtnitsch/blank-page-detector/models"
)

// Summarize counts verdicts, errors and redirects across results.
func Summarize(results []models.ScanResult) models.Summary {
	sum := models.Summary{Total: len(results), Reasons: map[string]int{}}
	for _, r := range results {
		if r.IsBlankPage {
			sum.Blank++
			sum.Reasons[r.Reason()]++
		} else {
			sum.NotBlank++
		}
		if r.Error != "" {
			sum.Errored++
		}
		if r.Redirected {
			sum.Redirected++
		}
	}
	return sum
}

// TopReasons returns the n most frequent blank reasons formatted as
// "reason:count", most frequent first. Ties are ordered by reason.
func TopReasons(reasons map[string]int, n int) []string {
	type kv struct {
		Key   string
		Value int
	}

	ss := make([]kv, 0, len(reasons))
	for k, v := range reasons {
		ss = append(ss, kv{k, v})
	}
	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Value != ss[j].Value {
			return ss[i].Value > ss[j].Value
		}
		return ss[i].Key < ss[j].Key
	})

	limit := n
	if len(ss) < n {
		limit = len(ss)
	}
	if limit < 0 {
		limit = 0
	}

	top := make([]string, limit)
	for i := 0; i < limit; i++ {
		top[i] = fmt.Sprintf("%s:%d", ss[i].Key, ss[i].Value)
	}
	return top
}
