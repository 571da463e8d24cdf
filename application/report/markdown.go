package report

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RenderMarkdown produces the comparison document: one table per operation
// with a row per design, followed by a raw summary table.
func RenderMarkdown(summaries []Summary, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("# DynamoDB schema design comparison\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.UTC().Format(time.RFC3339))

	byOp := make(map[string][]Summary)
	var opOrder []string
	for _, s := range summaries {
		if _, ok := byOp[s.Operation]; !ok {
			opOrder = append(opOrder, s.Operation)
		}
		byOp[s.Operation] = append(byOp[s.Operation], s)
	}

	for _, op := range opOrder {
		rows := byOp[op]
		sort.Slice(rows, func(i, j int) bool { return rows[i].Design < rows[j].Design })

		fmt.Fprintf(&b, "## %s\n\n", op)
		b.WriteString("| Design | Runs | Failures | Avg (ms) | p50 (ms) | p95 (ms) | Avg items | Avg scanned | Avg requests | Total RCU |\n")
		b.WriteString("|--------|------|----------|----------|----------|----------|-----------|-------------|--------------|-----------|\n")
		for _, s := range rows {
			fmt.Fprintf(&b, "| %s | %d | %d | %.2f | %.2f | %.2f | %.1f | %.1f | %.1f | %.1f |\n",
				s.Design, s.Runs, s.Failures, s.AvgMs, s.P50Ms, s.P95Ms, s.AvgItems, s.AvgScan, s.AvgReqs, s.TotalRCU)
		}
		b.WriteString("\n")

		if note := comparisonNote(rows); note != "" {
			b.WriteString(note + "\n\n")
		}
	}

	var failed []Summary
	for _, s := range summaries {
		if s.Failures > 0 {
			failed = append(failed, s)
		}
	}
	if len(failed) > 0 {
		b.WriteString("## Failures\n\n")
		for _, s := range failed {
			fmt.Fprintf(&b, "- %s / %s: %d of %d runs failed (last error: %s)\n",
				s.Design, s.Operation, s.Failures, s.Runs, s.LastError)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// comparisonNote highlights the scanned-items gap between designs when both
// returned the same result set, the central point of the comparison.
func comparisonNote(rows []Summary) string {
	if len(rows) != 2 {
		return ""
	}
	a, z := rows[0], rows[1]
	if a.AvgScan == 0 || z.AvgScan == 0 || a.AvgItems != z.AvgItems {
		return ""
	}
	lo, hi := a, z
	if lo.AvgScan > hi.AvgScan {
		lo, hi = hi, lo
	}
	if hi.AvgScan <= lo.AvgScan {
		return ""
	}
	return fmt.Sprintf("Same result set (%.1f items on average), but %s scanned %.1fx more items than %s.",
		a.AvgItems, hi.Design, hi.AvgScan/lo.AvgScan, lo.Design)
}
