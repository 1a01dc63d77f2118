package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hvacops/analytics-api/internal/config"
	"github.com/hvacops/analytics-api/internal/metrics"
	"github.com/hvacops/analytics-api/internal/models"
	"github.com/hvacops/analytics-api/internal/pipeline"
	"github.com/hvacops/analytics-api/internal/store"
)

type handlers struct {
	log      *slog.Logger
	cfg      config.Config
	st       store.Store
	metrics  *metrics.Service
	pipeline *pipeline.Service
}

func (h *handlers) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]string{"message": "HVAC AI Analytics API running"})
}

func (h *handlers) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.metrics.Summary(r.Context())
	if errors.Is(err, store.ErrUnavailable) {
		writeJSON(w, 200, demoSummary())
		return
	}
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, 200, s)
}

type seriesResponse struct {
	Channel string               `json:"channel"`
	Data    []models.SeriesPoint `json:"data"`
}

func (h *handlers) timeseries(w http.ResponseWriter, r *http.Request) {
	channel := r.URL.Query().Get("channel")
	if channel != "" && !models.ValidChannel(channel) {
		jsonError(w, 422, "channel must be inbound or outbound")
		return
	}
	label := channel
	if label == "" {
		label = "all"
	}
	pts, err := h.metrics.Series(r.Context(), channel)
	if errors.Is(err, store.ErrUnavailable) {
		writeJSON(w, 200, seriesResponse{Channel: label, Data: demoSeries()})
		return
	}
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, 200, seriesResponse{Channel: label, Data: pts})
}

type createMetricRequest struct {
	Channel         string  `json:"channel"`
	Date            string  `json:"date"`
	LeadsGenerated  int     `json:"leads_generated"`
	CallsHandled    int     `json:"calls_handled"`
	Conversations   int     `json:"conversations"`
	BookedJobs      int     `json:"booked_jobs"`
	CompletedJobs   int     `json:"completed_jobs"`
	ResponseTimeSec float64 `json:"response_time_sec"`
	ConversionRate  float64 `json:"conversion_rate"`
	ApptSetRate     float64 `json:"appt_set_rate"`
	NoShowRate      float64 `json:"no_show_rate"`
	AOV             float64 `json:"aov"`
	Revenue         float64 `json:"revenue"`
	Cost            float64 `json:"cost"`
	ROI             float64 `json:"roi"`
	CSAT            float64 `json:"csat"`
}

func (rq *createMetricRequest) validate() error {
	if !models.ValidChannel(rq.Channel) {
		return errors.New("channel must be inbound or outbound")
	}
	if _, err := time.Parse("2006-01-02", rq.Date); err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}
	for name, v := range map[string]int{
		"leads_generated": rq.LeadsGenerated,
		"calls_handled":   rq.CallsHandled,
		"conversations":   rq.Conversations,
		"booked_jobs":     rq.BookedJobs,
		"completed_jobs":  rq.CompletedJobs,
	} {
		if v < 0 {
			return fmt.Errorf("%s must be >= 0", name)
		}
	}
	for name, v := range map[string]float64{
		"response_time_sec": rq.ResponseTimeSec,
		"aov":               rq.AOV,
		"revenue":           rq.Revenue,
		"cost":              rq.Cost,
	} {
		if v < 0 {
			return fmt.Errorf("%s must be >= 0", name)
		}
	}
	for name, v := range map[string]float64{
		"conversion_rate": rq.ConversionRate,
		"appt_set_rate":   rq.ApptSetRate,
		"no_show_rate":    rq.NoShowRate,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0,1]", name)
		}
	}
	if rq.CSAT < 0 || rq.CSAT > 5 {
		return errors.New("csat must be in [0,5]")
	}
	return nil
}

func (h *handlers) createMetric(w http.ResponseWriter, r *http.Request) {
	var rq createMetricRequest
	if err := json.NewDecoder(r.Body).Decode(&rq); err != nil {
		jsonError(w, 422, "invalid request body")
		return
	}
	if err := rq.validate(); err != nil {
		jsonError(w, 422, err.Error())
		return
	}
	if h.st == nil {
		jsonError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}
	id, err := h.st.InsertMetric(r.Context(), models.CampaignMetric{
		Channel:         rq.Channel,
		Date:            rq.Date,
		LeadsGenerated:  rq.LeadsGenerated,
		CallsHandled:    rq.CallsHandled,
		Conversations:   rq.Conversations,
		BookedJobs:      rq.BookedJobs,
		CompletedJobs:   rq.CompletedJobs,
		ResponseTimeSec: rq.ResponseTimeSec,
		ConversionRate:  rq.ConversionRate,
		ApptSetRate:     rq.ApptSetRate,
		NoShowRate:      rq.NoShowRate,
		AOV:             rq.AOV,
		Revenue:         rq.Revenue,
		Cost:            rq.Cost,
		ROI:             rq.ROI,
		CSAT:            rq.CSAT,
	})
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, 200, map[string]string{"id": id})
}

func (h *handlers) listContacts(w http.ResponseWriter, r *http.Request) {
	stage := r.URL.Query().Get("stage")
	if stage != "" && !models.ValidStage(stage) {
		jsonError(w, 422, "unknown stage")
		return
	}
	cs, err := h.pipeline.ListContacts(r.Context(), stage)
	if errors.Is(err, store.ErrUnavailable) {
		writeJSON(w, 200, demoContacts())
		return
	}
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if cs == nil {
		cs = []models.Contact{}
	}
	writeJSON(w, 200, cs)
}

type createContactRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Channel string `json:"channel"`
	Stage   string `json:"stage"`
}

func (rq *createContactRequest) validate() error {
	if rq.Name == "" {
		return errors.New("name is required")
	}
	if rq.Phone == "" {
		return errors.New("phone is required")
	}
	if !models.ValidChannel(rq.Channel) {
		return errors.New("channel must be inbound or outbound")
	}
	if rq.Stage == "" {
		rq.Stage = "new"
	}
	if !models.ValidStage(rq.Stage) {
		return errors.New("unknown stage")
	}
	return nil
}

func (h *handlers) createContact(w http.ResponseWriter, r *http.Request) {
	var rq createContactRequest
	if err := json.NewDecoder(r.Body).Decode(&rq); err != nil {
		jsonError(w, 422, "invalid request body")
		return
	}
	if err := rq.validate(); err != nil {
		jsonError(w, 422, err.Error())
		return
	}
	id, err := h.pipeline.CreateContact(r.Context(), models.Contact{
		Name:    rq.Name,
		Phone:   rq.Phone,
		Channel: rq.Channel,
		Stage:   rq.Stage,
	})
	if errors.Is(err, store.ErrUnavailable) {
		jsonError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeJSON(w, 200, map[string]string{"id": id})
}

func (h *handlers) updateStage(w http.ResponseWriter, r *http.Request) {
	var rq struct {
		Stage string `json:"stage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&rq); err != nil {
		jsonError(w, 422, "invalid request body")
		return
	}
	if !models.ValidStage(rq.Stage) {
		jsonError(w, 422, "unknown stage")
		return
	}
	err := h.pipeline.UpdateStage(r.Context(), chi.URLParam(r, "id"), rq.Stage)
	switch {
	case errors.Is(err, pipeline.ErrInvalidID):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pipeline.ErrNotFound):
		jsonError(w, http.StatusNotFound, "contact not found")
	case errors.Is(err, store.ErrUnavailable):
		jsonError(w, http.StatusServiceUnavailable, "database not configured")
	case err != nil:
		h.storeError(w, r, err)
	default:
		writeJSON(w, 200, map[string]bool{"ok": true})
	}
}

func (h *handlers) conversation(w http.ResponseWriter, r *http.Request) {
	conv, err := h.pipeline.GetConversation(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, pipeline.ErrInvalidID):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pipeline.ErrNotFound):
		jsonError(w, http.StatusNotFound, "contact not found")
	case errors.Is(err, store.ErrUnavailable):
		writeJSON(w, 200, demoConversation())
	case err != nil:
		h.storeError(w, r, err)
	default:
		writeJSON(w, 200, conv)
	}
}

// diagnostics reports store connectivity without revealing connection
// values. Introspection errors are swallowed and truncated; this
// endpoint never fails.
func (h *handlers) diagnostics(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"backend":           "running",
		"database":          "not available",
		"database_url":      setOrNot(h.cfg.DatabaseURL != ""),
		"database_name":     setOrNot(h.cfg.DatabaseName != ""),
		"connection_status": "not connected",
		"collections":       []string{},
	}
	if h.st != nil {
		if err := h.st.Ping(r.Context()); err != nil {
			resp["database"] = "error: " + truncate(err.Error(), 50)
		} else {
			resp["database"] = "connected"
			resp["connection_status"] = "connected"
			if cols, err := h.st.Collections(r.Context()); err != nil {
				resp["database"] = "error: " + truncate(err.Error(), 50)
			} else {
				if len(cols) > 10 {
					cols = cols[:10]
				}
				resp["collections"] = cols
			}
		}
	}
	writeJSON(w, 200, resp)
}

// storeError covers store round-trip failures with no mapped status.
// The store is an upstream dependency here, hence 502.
func (h *handlers) storeError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("store error", slog.String("path", r.URL.Path), slog.String("err", err.Error()))
	jsonError(w, http.StatusBadGateway, "store error")
}

func setOrNot(set bool) string {
	if set {
		return "set"
	}
	return "not set"
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func jsonError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"detail": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
