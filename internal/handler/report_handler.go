package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fot-analytics-api/internal/dto"
	"github.com/fot-analytics-api/internal/repository"
	"github.com/fot-analytics-api/internal/service"
	"github.com/go-playground/validator/v10"
)

// ReportHandler обслуживает отчётные эндпоинты
type ReportHandler struct {
	analytics service.AnalyticsService
	validator *validator.Validate
	logger    *slog.Logger
}

// NewReportHandler создаёт новый обработчик отчётов
func NewReportHandler(analytics service.AnalyticsService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		analytics: analytics,
		validator: newValidator(),
		logger:    logger,
	}
}

// DepartmentDelta обрабатывает GET /reports/department-delta
func (h *ReportHandler) DepartmentDelta(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	departmentID, err := strconv.ParseInt(q.Get("department_id"), 10, 64)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid department_id", err.Error())
		return
	}
	yearFrom, err := strconv.Atoi(q.Get("year_from"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid year_from", err.Error())
		return
	}
	yearTo, err := strconv.Atoi(q.Get("year_to"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid year_to", err.Error())
		return
	}

	report, err := h.analytics.DepartmentDelta(r.Context(), departmentID, yearFrom, yearTo)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, report)
}

// CustomReport обрабатывает POST /reports/custom
func (h *ReportHandler) CustomReport(w http.ResponseWriter, r *http.Request) {
	var req dto.CustomReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req.Filters); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	report, err := h.analytics.CustomReport(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, report)
}

// SalaryHistoryReport обрабатывает GET /reports/salary-history
func (h *ReportHandler) SalaryHistoryReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.HistoryFilter{}

	if v := q.Get("employee_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(w, h.logger, http.StatusBadRequest, "invalid employee_id", err.Error())
			return
		}
		filter.EmployeeID = &id
	}
	if v := q.Get("department_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(w, h.logger, http.StatusBadRequest, "invalid department_id", err.Error())
			return
		}
		filter.DepartmentID = &id
	}

	var err error
	if filter.DateFrom, err = parseDateParam(q.Get("date_from")); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid date_from", err.Error())
		return
	}
	if filter.DateTo, err = parseDateParam(q.Get("date_to")); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid date_to", err.Error())
		return
	}

	report, err := h.analytics.SalaryHistoryReport(r.Context(), filter)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, report)
}

// FOTSummary обрабатывает GET /reports/fot-summary
func (h *ReportHandler) FOTSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := parseDateParam(q.Get("date_from"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid date_from", err.Error())
		return
	}
	to, err := parseDateParam(q.Get("date_to"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid date_to", err.Error())
		return
	}

	report, err := h.analytics.FOTSummary(r.Context(), from, to)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, report)
}

func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
