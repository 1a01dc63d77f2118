package metrics

import (
	"context"
	"log/slog"
	"sort"

	"github.com/hvacops/analytics-api/internal/models"
	"github.com/hvacops/analytics-api/internal/seed"
	"github.com/hvacops/analytics-api/internal/store"
)

// Period labels every summary payload; the seed window is 14 days.
const Period = "last_14_days"

// Summarize folds the records matching channel ("" means all) into
// totals. ROI is recomputed from the summed revenue and cost, never
// summed across records. Empty input yields the zero value.
func Summarize(records []models.CampaignMetric, channel string) models.ChannelSummary {
	var out models.ChannelSummary
	var cost float64
	for _, r := range records {
		if channel != "" && r.Channel != channel {
			continue
		}
		out.Leads += r.LeadsGenerated
		out.Booked += r.BookedJobs
		out.Revenue += r.Revenue
		cost += r.Cost
	}
	if cost > 0 {
		out.ROI = (out.Revenue - cost) / cost
	}
	return out
}

// Timeseries projects the matching records onto daily points sorted
// ascending by date. Dates are ISO YYYY-MM-DD strings, so string order
// is chronological order. Computed fresh per call.
func Timeseries(records []models.CampaignMetric, channel string) []models.SeriesPoint {
	pts := make([]models.SeriesPoint, 0, len(records))
	for _, r := range records {
		if channel != "" && r.Channel != channel {
			continue
		}
		pts = append(pts, models.SeriesPoint{
			Date:    r.Date,
			Leads:   r.LeadsGenerated,
			Booked:  r.BookedJobs,
			Revenue: r.Revenue,
		})
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].Date < pts[j].Date })
	return pts
}

type Service struct {
	st  store.Store
	log *slog.Logger
}

func NewService(st store.Store, log *slog.Logger) *Service {
	return &Service{st: st, log: log}
}

// Summary fetches the full metric set once and aggregates it three
// ways. A collection that comes back empty is re-seeded first, matching
// the original behavior when the database was wiped underneath a
// running process.
func (s *Service) Summary(ctx context.Context) (models.Summary, error) {
	if s.st == nil {
		return models.Summary{}, store.ErrUnavailable
	}
	recs, err := s.st.Metrics(ctx, "")
	if err != nil {
		return models.Summary{}, err
	}
	if len(recs) == 0 {
		if err := seed.New(s.st, s.log).Run(ctx); err != nil {
			return models.Summary{}, err
		}
		if recs, err = s.st.Metrics(ctx, ""); err != nil {
			return models.Summary{}, err
		}
	}
	return models.Summary{
		Period:   Period,
		Totals:   Summarize(recs, ""),
		Inbound:  Summarize(recs, models.ChannelInbound),
		Outbound: Summarize(recs, models.ChannelOutbound),
	}, nil
}

// Series returns the daily series, channel-filtered when channel is
// non-empty.
func (s *Service) Series(ctx context.Context, channel string) ([]models.SeriesPoint, error) {
	if s.st == nil {
		return nil, store.ErrUnavailable
	}
	recs, err := s.st.Metrics(ctx, channel)
	if err != nil {
		return nil, err
	}
	return Timeseries(recs, ""), nil
}
