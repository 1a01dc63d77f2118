package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/hvacops/analytics-api/internal/config"
	"github.com/hvacops/analytics-api/internal/metrics"
	"github.com/hvacops/analytics-api/internal/models"
	"github.com/hvacops/analytics-api/internal/pipeline"
	"github.com/hvacops/analytics-api/internal/seed"
	"github.com/hvacops/analytics-api/internal/store"
)

func newTestRouter(t *testing.T, st store.Store) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(log, config.Config{}, st, metrics.NewService(st, log), pipeline.NewService(st))
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestRootAndHealth(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := doJSON(t, h, http.MethodGet, "/", nil)
	require.Equal(t, 200, rec.Code)
	var body map[string]string
	decode(t, rec, &body)
	require.Equal(t, "HVAC AI Analytics API running", body["message"])

	rec = doJSON(t, h, http.MethodGet, "/healthz", nil)
	require.Equal(t, 200, rec.Code)
}

func TestDemoModeReads(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := doJSON(t, h, http.MethodGet, "/api/metrics/summary", nil)
	require.Equal(t, 200, rec.Code)
	var s models.Summary
	decode(t, rec, &s)
	require.Equal(t, 320, s.Totals.Leads)
	require.Equal(t, 3.1, s.Totals.ROI)

	rec = doJSON(t, h, http.MethodGet, "/api/metrics/timeseries", nil)
	require.Equal(t, 200, rec.Code)
	var ts seriesResponse
	decode(t, rec, &ts)
	require.Equal(t, "all", ts.Channel)
	require.Len(t, ts.Data, 2)

	rec = doJSON(t, h, http.MethodGet, "/api/contacts", nil)
	require.Equal(t, 200, rec.Code)
	var cs []models.Contact
	decode(t, rec, &cs)
	require.Len(t, cs, 2)

	rec = doJSON(t, h, http.MethodGet, "/api/contacts/"+bson.NewObjectID().Hex()+"/conversation", nil)
	require.Equal(t, 200, rec.Code)
	var conv models.Conversation
	decode(t, rec, &conv)
	require.NotEmpty(t, conv.Messages)
}

func TestDemoModeWritesReturn503(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := doJSON(t, h, http.MethodPost, "/api/metrics", createMetricRequest{
		Channel: models.ChannelInbound, Date: "2026-08-29",
	})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/contacts", createContactRequest{
		Name: "Ana Torres", Phone: "+1-555-0110", Channel: models.ChannelInbound,
	})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doJSON(t, h, http.MethodPatch, "/api/contacts/"+bson.NewObjectID().Hex()+"/stage",
		map[string]string{"stage": "engaged"})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMalformedIDIsRejectedBeforeStore(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := doJSON(t, h, http.MethodPatch, "/api/contacts/zzz/stage", map[string]string{"stage": "engaged"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/contacts/zzz/conversation", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidationFailures(t *testing.T) {
	h := newTestRouter(t, store.NewMemory())

	rec := doJSON(t, h, http.MethodGet, "/api/metrics/timeseries?channel=email", nil)
	require.Equal(t, 422, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/contacts?stage=lost", nil)
	require.Equal(t, 422, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/metrics", createMetricRequest{
		Channel: "email", Date: "2026-08-29",
	})
	require.Equal(t, 422, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/metrics", createMetricRequest{
		Channel: models.ChannelInbound, Date: "2026-08-29", CSAT: 9,
	})
	require.Equal(t, 422, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/metrics", createMetricRequest{
		Channel: models.ChannelInbound, Date: "08/29/2026",
	})
	require.Equal(t, 422, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/contacts", createContactRequest{
		Phone: "+1-555-0110", Channel: models.ChannelInbound,
	})
	require.Equal(t, 422, rec.Code)

	rec = doJSON(t, h, http.MethodPatch, "/api/contacts/"+bson.NewObjectID().Hex()+"/stage",
		map[string]string{"stage": "archived"})
	require.Equal(t, 422, rec.Code)
}

func TestSummaryAgainstSeededStore(t *testing.T) {
	st := store.NewMemory()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, seed.New(st, log).Run(context.Background()))
	h := newTestRouter(t, st)

	rec := doJSON(t, h, http.MethodGet, "/api/metrics/summary", nil)
	require.Equal(t, 200, rec.Code)
	var s models.Summary
	decode(t, rec, &s)
	require.Equal(t, metrics.Period, s.Period)
	require.Equal(t, s.Inbound.Leads+s.Outbound.Leads, s.Totals.Leads)
	require.Equal(t, s.Inbound.Booked+s.Outbound.Booked, s.Totals.Booked)

	rec = doJSON(t, h, http.MethodGet, "/api/metrics/timeseries?channel=inbound", nil)
	require.Equal(t, 200, rec.Code)
	var ts seriesResponse
	decode(t, rec, &ts)
	require.Equal(t, "inbound", ts.Channel)
	require.Len(t, ts.Data, 14)
	for i := 1; i < len(ts.Data); i++ {
		require.LessOrEqual(t, ts.Data[i-1].Date, ts.Data[i].Date)
	}
}

func TestCreateMetric(t *testing.T) {
	st := store.NewMemory()
	h := newTestRouter(t, st)

	rec := doJSON(t, h, http.MethodPost, "/api/metrics", createMetricRequest{
		Channel: models.ChannelInbound, Date: "2026-08-29",
		LeadsGenerated: 12, Conversations: 7, BookedJobs: 3, CompletedJobs: 3,
		ConversionRate: 0.25, AOV: 350, Revenue: 1050, Cost: 420, ROI: 1.5, CSAT: 4.8,
	})
	require.Equal(t, 200, rec.Code)
	var created map[string]string
	decode(t, rec, &created)
	require.NotEmpty(t, created["id"])

	n, err := st.CountMetrics(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestContactLifecycle(t *testing.T) {
	st := store.NewMemory()
	h := newTestRouter(t, st)

	rec := doJSON(t, h, http.MethodPost, "/api/contacts", createContactRequest{
		Name: "Ana Torres", Phone: "+1-555-0110", Channel: models.ChannelInbound,
	})
	require.Equal(t, 200, rec.Code)
	var created map[string]string
	decode(t, rec, &created)
	require.NotEmpty(t, created["id"])

	// stage defaulted to new
	rec = doJSON(t, h, http.MethodGet, "/api/contacts?stage=new", nil)
	require.Equal(t, 200, rec.Code)
	var cs []models.Contact
	decode(t, rec, &cs)
	require.Len(t, cs, 1)

	rec = doJSON(t, h, http.MethodPatch, "/api/contacts/"+created["id"]+"/stage",
		map[string]string{"stage": "booked"})
	require.Equal(t, 200, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/contacts?stage=booked", nil)
	decode(t, rec, &cs)
	require.Len(t, cs, 1)
	require.Equal(t, "booked", cs[0].Stage)

	rec = doJSON(t, h, http.MethodPatch, "/api/contacts/"+bson.NewObjectID().Hex()+"/stage",
		map[string]string{"stage": "booked"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConversationAgainstSeededStore(t *testing.T) {
	st := store.NewMemory()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, seed.New(st, log).Run(context.Background()))
	h := newTestRouter(t, st)

	rec := doJSON(t, h, http.MethodGet, "/api/contacts", nil)
	require.Equal(t, 200, rec.Code)
	var cs []models.Contact
	decode(t, rec, &cs)
	require.Len(t, cs, 5)

	rec = doJSON(t, h, http.MethodGet, "/api/contacts/"+cs[0].ID.Hex()+"/conversation", nil)
	require.Equal(t, 200, rec.Code)
	var conv models.Conversation
	decode(t, rec, &conv)
	require.Equal(t, cs[0].Name, conv.Contact.Name)
	require.Len(t, conv.Messages, 3)
	for i := 1; i < len(conv.Messages); i++ {
		require.True(t, !conv.Messages[i].Timestamp.Before(conv.Messages[i-1].Timestamp))
	}

	rec = doJSON(t, h, http.MethodGet, "/api/contacts/"+bson.NewObjectID().Hex()+"/conversation", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDiagnostics(t *testing.T) {
	// no store, nothing configured
	h := newTestRouter(t, nil)
	rec := doJSON(t, h, http.MethodGet, "/test", nil)
	require.Equal(t, 200, rec.Code)
	var body map[string]any
	decode(t, rec, &body)
	require.Equal(t, "running", body["backend"])
	require.Equal(t, "not available", body["database"])
	require.Equal(t, "not set", body["database_url"])
	require.Equal(t, "not set", body["database_name"])

	// connected store reports collections
	st := store.NewMemory()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, seed.New(st, log).Run(context.Background()))
	h = NewRouter(log, config.Config{DatabaseURL: "mongodb://x", DatabaseName: "hvac"}, st,
		metrics.NewService(st, log), pipeline.NewService(st))

	rec = doJSON(t, h, http.MethodGet, "/test", nil)
	decode(t, rec, &body)
	require.Equal(t, "connected", body["database"])
	require.Equal(t, "set", body["database_url"])
	require.Equal(t, "connected", body["connection_status"])
	require.NotEmpty(t, body["collections"])
}

func TestPrometheusEndpoint(t *testing.T) {
	h := newTestRouter(t, nil)
	doJSON(t, h, http.MethodGet, "/", nil)

	rec := doJSON(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "http_requests_total")
}
