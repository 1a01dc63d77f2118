package metrics

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hvacops/analytics-api/internal/models"
	"github.com/hvacops/analytics-api/internal/seed"
	"github.com/hvacops/analytics-api/internal/store"
)

var today = time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

func TestSummarizeAdditiveAcrossChannels(t *testing.T) {
	recs := seed.Metrics(today)

	totals := Summarize(recs, "")
	in := Summarize(recs, models.ChannelInbound)
	out := Summarize(recs, models.ChannelOutbound)

	require.Equal(t, in.Leads+out.Leads, totals.Leads)
	require.Equal(t, in.Booked+out.Booked, totals.Booked)
	require.InDelta(t, in.Revenue+out.Revenue, totals.Revenue, 1e-6)

	// roi is not additive; it must match a recompute over the summed
	// revenue and cost.
	var revenue, cost float64
	for _, r := range recs {
		revenue += r.Revenue
		cost += r.Cost
	}
	require.InDelta(t, (revenue-cost)/cost, totals.ROI, 1e-9)
}

func TestSummarizeZeroCostZeroROI(t *testing.T) {
	recs := []models.CampaignMetric{
		{Channel: models.ChannelInbound, Date: "2026-01-01", LeadsGenerated: 5, BookedJobs: 2, Revenue: 900, Cost: 0},
		{Channel: models.ChannelOutbound, Date: "2026-01-01", LeadsGenerated: 3, BookedJobs: 1, Revenue: 400, Cost: 0},
	}
	s := Summarize(recs, "")
	require.Equal(t, 8, s.Leads)
	require.Equal(t, 3, s.Booked)
	require.Equal(t, 0.0, s.ROI)
}

func TestSummarizeEmptyInput(t *testing.T) {
	require.Equal(t, models.ChannelSummary{}, Summarize(nil, ""))
	require.Equal(t, models.ChannelSummary{}, Summarize(nil, models.ChannelInbound))
}

func TestTimeseriesSortedForAnyInputOrder(t *testing.T) {
	recs := seed.Metrics(today)
	rnd := rand.New(rand.NewSource(1))
	rnd.Shuffle(len(recs), func(i, j int) { recs[i], recs[j] = recs[j], recs[i] })

	pts := Timeseries(recs, "")
	require.Len(t, pts, len(recs))
	require.True(t, sort.SliceIsSorted(pts, func(i, j int) bool { return pts[i].Date < pts[j].Date }))
}

func TestTimeseriesChannelFilter(t *testing.T) {
	recs := seed.Metrics(today)
	pts := Timeseries(recs, models.ChannelInbound)
	require.Len(t, pts, 14)
	for i := 1; i < len(pts); i++ {
		require.LessOrEqual(t, pts[i-1].Date, pts[i].Date)
	}
}

func TestServiceSummaryReseedsEmptyCollection(t *testing.T) {
	st := store.NewMemory()
	svc := NewService(st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	s, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, Period, s.Period)
	require.Greater(t, s.Totals.Leads, 0)
	require.Equal(t, s.Inbound.Leads+s.Outbound.Leads, s.Totals.Leads)

	n, _ := st.CountMetrics(ctx)
	require.EqualValues(t, 28, n)
}

func TestServiceUnavailableWithoutStore(t *testing.T) {
	svc := NewService(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.Summary(context.Background())
	require.ErrorIs(t, err, store.ErrUnavailable)

	_, err = svc.Series(context.Background(), "")
	require.ErrorIs(t, err, store.ErrUnavailable)
}

func TestServiceSeriesFiltersChannel(t *testing.T) {
	st := store.NewMemory()
	require.NoError(t, st.InsertMetrics(context.Background(), seed.Metrics(today)))
	svc := NewService(st, slog.New(slog.NewTextHandler(io.Discard, nil)))

	pts, err := svc.Series(context.Background(), models.ChannelOutbound)
	require.NoError(t, err)
	require.Len(t, pts, 14)
}
