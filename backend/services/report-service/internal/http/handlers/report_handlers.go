package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"fcreport/backend/services/report-service/internal/chart"
	"fcreport/backend/services/report-service/internal/models"
	"fcreport/backend/services/report-service/internal/pipeline"
	"fcreport/backend/services/report-service/internal/service"
)

const maxHistoryLimit = 200

type categoryDTO struct {
	Name      string  `json:"name"`
	EnergyKWh float64 `json:"energy_kwh"`
	Share     float64 `json:"share_pct"`
	Others    bool    `json:"others,omitempty"`
}

func categories(fig chart.Figure) []categoryDTO {
	out := make([]categoryDTO, 0, len(fig.Items))
	for _, it := range fig.Items {
		out = append(out, categoryDTO{
			Name:      it.Label,
			EnergyKWh: models.Round2(it.Value),
			Share:     models.Round2(it.Percent),
			Others:    it.Others,
		})
	}
	return out
}

// NewSummaryHandler returns GET /api/uploads/{id}/summary handler.
func NewSummaryHandler(svc *service.ReportService) http.HandlerFunc {
	type response struct {
		Date    string        `json:"date"`
		Dates   []string      `json:"dates"`
		KPIs    models.KPIs   `json:"kpis"`
		Drivers []categoryDTO `json:"drivers"`
		Hubs    []categoryDTO `json:"hubs"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		date, ok := dateParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}

		res, err := svc.Summary(r.Context(), r.PathValue("id"), date)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		figs := pipeline.Figures(res.Summary)
		writeJSON(w, http.StatusOK, response{
			Date:    res.Date,
			Dates:   res.Dates,
			KPIs:    res.Summary.KPIs,
			Drivers: categories(figs[0]),
			Hubs:    categories(figs[1]),
		})
	}
}

// NewChartsHandler returns GET /api/uploads/{id}/charts handler serving the interactive page.
func NewChartsHandler(svc *service.ReportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, ok := dateParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}

		var page bytes.Buffer
		if _, err := svc.Charts(r.Context(), &page, r.PathValue("id"), date); err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page.Bytes())
	}
}

// NewReportHandler returns GET /api/uploads/{id}/report handler serving the PDF download.
func NewReportHandler(svc *service.ReportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, ok := dateParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}

		res, err := svc.Report(r.Context(), r.PathValue("id"), date)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		doc := res.Document
		w.Header().Set("Content-Type", doc.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
		w.Header().Set("Content-Length", strconv.Itoa(len(doc.Bytes)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(doc.Bytes)
	}
}

// NewHistoryHandler returns GET /api/reports/history handler.
func NewHistoryHandler(svc *service.ReportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = min(parsed, maxHistoryLimit)
		}

		runs, err := svc.History(r.Context(), limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if runs == nil {
			runs = []models.ReportRun{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"runs": runs,
		})
	}
}
