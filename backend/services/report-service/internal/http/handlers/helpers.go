package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fcreport/backend/services/report-service/internal/ingest"
	"fcreport/backend/services/report-service/internal/models"
	"fcreport/backend/services/report-service/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps pipeline and service errors onto status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		formatErr  *ingest.FormatError
		missingErr *ingest.MissingColumnError
		emptyErr   *ingest.EmptySliceError
	)
	switch {
	case errors.As(err, &formatErr):
		writeError(w, http.StatusBadRequest, formatErr.Error())
	case errors.As(err, &missingErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   missingErr.Error(),
			"missing": missingErr.Columns,
		})
	case errors.As(err, &emptyErr):
		writeError(w, http.StatusNotFound, emptyErr.Error())
	case errors.Is(err, models.ErrUploadNotFound):
		writeError(w, http.StatusNotFound, "upload not found or expired")
	case errors.Is(err, service.ErrEmptyUpload):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrHistoryDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// dateParam returns the optional ?date= selector; empty means the first date of the upload.
func dateParam(r *http.Request) (string, bool) {
	date := r.URL.Query().Get("date")
	if date == "" {
		return "", true
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return "", false
	}
	return date, true
}
