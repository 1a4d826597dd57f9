package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"filegate/internal/core/port"
)

type reportService struct {
	events port.EventReporter
	logger *slog.Logger
}

// NewReportService creates the metrics report generator over the audit log
func NewReportService(events port.EventReporter, logger *slog.Logger) port.ReportService {
	return &reportService{events: events, logger: logger}
}

// Generate renders a markdown metrics report: event counts, finalize latency
// by status, and the published count.
func (s *reportService) Generate(ctx context.Context, w io.Writer) error {
	counts, err := s.events.CountsByName(ctx)
	if err != nil {
		return fmt.Errorf("query event counts: %w", err)
	}

	samples, err := s.events.FinalizeSamples(ctx)
	if err != nil {
		return fmt.Errorf("query finalize samples: %w", err)
	}

	published, err := s.events.PublishedCount(ctx)
	if err != nil {
		return fmt.Errorf("query published count: %w", err)
	}

	byStatus := map[string][]int64{}
	var statuses []string
	var all []int64
	for _, sample := range samples {
		if _, seen := byStatus[sample.Status]; !seen {
			statuses = append(statuses, sample.Status)
		}
		byStatus[sample.Status] = append(byStatus[sample.Status], sample.DurationMS)
		all = append(all, sample.DurationMS)
	}

	fmt.Fprintf(w, "# Upload Pipeline Metrics\n\n")
	fmt.Fprintf(w, "- Generated at: %s\n\n", time.Now().UTC().Format(time.RFC3339))

	fmt.Fprintf(w, "## Event Counts\n\n")
	fmt.Fprintf(w, "| Event | Count |\n|---|---:|\n")
	for _, c := range counts {
		fmt.Fprintf(w, "| `%s` | %d |\n", c.Name, c.Count)
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "## Finalize Latency (ms) by Status\n\n")
	fmt.Fprintf(w, "| Status | N | avg | p50 | p95 | max |\n|---|---:|---:|---:|---:|---:|\n")
	for _, status := range statuses {
		durations := byStatus[status]
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
		fmt.Fprintf(w, "| `%s` | %d | %d | %d | %d | %d |\n",
			status,
			len(durations),
			avg(durations),
			percentile(durations, 50),
			percentile(durations, 95),
			durations[len(durations)-1],
		)
	}
	fmt.Fprintf(w, "\n")

	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	fmt.Fprintf(w, "## Overall Finalize Latency (ms)\n\n")
	fmt.Fprintf(w, "- N: %d\n", len(all))
	if len(all) > 0 {
		fmt.Fprintf(w, "- avg: %d\n", avg(all))
		fmt.Fprintf(w, "- p50: %d\n", percentile(all, 50))
		fmt.Fprintf(w, "- p95: %d\n", percentile(all, 95))
		fmt.Fprintf(w, "- max: %d\n", all[len(all)-1])
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "## Rescan Publish\n\n")
	fmt.Fprintf(w, "- upload.published count: %d\n", published)

	return nil
}

func avg(xs []int64) int64 {
	if len(xs) == 0 {
		return 0
	}
	var sum int64
	for _, x := range xs {
		sum += x
	}
	return sum / int64(len(xs))
}

// percentile expects xs sorted ascending
func percentile(xs []int64, p int) int64 {
	if len(xs) == 0 {
		return 0
	}
	idx := p * (len(xs) - 1) / 100
	return xs[idx]
}
