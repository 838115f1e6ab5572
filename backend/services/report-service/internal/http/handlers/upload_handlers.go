package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"fcreport/backend/services/report-service/internal/models"
	"fcreport/backend/services/report-service/internal/service"
)

const multipartMemory = 8 << 20

// NewUploadHandler returns POST /api/uploads handler. The file arrives as multipart field "file";
// an optional "format" field overrides the extension.
func NewUploadHandler(svc *service.ReportService, maxBytes int64) http.HandlerFunc {
	type response struct {
		UploadID string           `json:"upload_id"`
		FileName string           `json:"file_name"`
		Format   string           `json:"format"`
		Dates    []string         `json:"dates"`
		Rows     int              `json:"rows"`
		Warnings []models.Warning `json:"warnings"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
				writeError(w, http.StatusRequestEntityTooLarge, "file too large")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file field is required")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read file")
			return
		}

		upload, err := svc.Upload(r.Context(), filepath.Base(header.Filename), r.FormValue("format"), data)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		warnings := upload.Warnings
		if warnings == nil {
			warnings = []models.Warning{}
		}
		writeJSON(w, http.StatusCreated, response{
			UploadID: upload.ID,
			FileName: upload.FileName,
			Format:   upload.Format,
			Dates:    upload.Dates,
			Rows:     upload.Rows,
			Warnings: warnings,
		})
	}
}

// NewDatesHandler returns GET /api/uploads/{id}/dates handler.
func NewDatesHandler(svc *service.ReportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dates, err := svc.Dates(r.Context(), r.PathValue("id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if dates == nil {
			dates = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"dates": dates,
		})
	}
}

// NewDeleteUploadHandler returns DELETE /api/uploads/{id} handler.
func NewDeleteUploadHandler(svc *service.ReportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), r.PathValue("id")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
