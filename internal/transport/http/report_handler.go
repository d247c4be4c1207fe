package http

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "gsrcli/internal/errors"
	"gsrcli/internal/services"
)

// ReportHandler accepts SWRCGSR report uploads and returns the parsed
// payload as JSON.
type ReportHandler struct {
	service        *services.ReportService
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewReportHandler creates a report handler. maxUploadBytes caps the request
// body; zero or negative disables the cap.
func NewReportHandler(service *services.ReportService, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		service:        service,
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("handler", "report")),
	}
}

// Routes returns the report endpoints, mounted under /api/reports.
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ParseReport)
	return r
}

// ParseReport handles POST /api/reports. The upload is a multipart form with
// the report file in the "report" field and an optional "department" value
// overriding the configured default.
func (h *ReportHandler) ParseReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	file, header, err := r.FormFile("report")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.logger.WarnContext(ctx, "upload rejected", slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r,
			apierrors.NewWithDetails(http.StatusBadRequest, "MISSING_PARAMETER",
				"Missing report upload", `expected a multipart form with a "report" file field`))
		return
	}
	defer file.Close()

	parsed, err := h.service.Parse(ctx, file, services.ParseRequest{
		Filename:   header.Filename,
		Department: r.FormValue("department"),
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, parsed)
}
