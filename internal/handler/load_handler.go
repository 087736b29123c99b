package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fot-analytics-api/internal/dto"
	"github.com/fot-analytics-api/internal/service"
	"github.com/fot-analytics-api/internal/table"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// LoadHandler обслуживает загрузку табличных данных и интеграцию с трекером
type LoadHandler struct {
	loader            service.LoaderService
	importService     service.ImportService
	trackerService    service.TrackerService
	defaultProjectKey string
	validator         *validator.Validate
	logger            *slog.Logger
}

// NewLoadHandler создаёт новый обработчик загрузки
func NewLoadHandler(
	loader service.LoaderService,
	importService service.ImportService,
	trackerService service.TrackerService,
	defaultProjectKey string,
	logger *slog.Logger,
) *LoadHandler {
	return &LoadHandler{
		loader:            loader,
		importService:     importService,
		trackerService:    trackerService,
		defaultProjectKey: defaultProjectKey,
		validator:         newValidator(),
		logger:            logger,
	}
}

// LoadEntity обрабатывает POST /load/{entity} с CSV в теле запроса
func (h *LoadHandler) LoadEntity(w http.ResponseWriter, r *http.Request, entity string) {
	rows, err := table.ReadCSV(r.Body)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid csv data", err.Error())
		return
	}

	var result *dto.LoadResult
	switch entity {
	case "departments":
		result, err = h.loader.LoadDepartments(r.Context(), rows)
	case "divisions":
		result, err = h.loader.LoadDivisions(r.Context(), rows)
	case "groups":
		result, err = h.loader.LoadGroups(r.Context(), rows)
	case "employees":
		result, err = h.loader.LoadEmployees(r.Context(), rows)
	default:
		respondError(w, h.logger, http.StatusNotFound, "unknown entity", "")
		return
	}

	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// RegisterImport обрабатывает POST /import-files/ с CSV в теле запроса.
// Имя файла передаётся параметром file_name.
func (h *LoadHandler) RegisterImport(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("file_name")
	if fileName == "" {
		respondError(w, h.logger, http.StatusBadRequest, "file_name is required", "")
		return
	}

	rows, err := table.ReadCSV(r.Body)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid csv data", err.Error())
		return
	}

	file, err := h.importService.Register(r.Context(), fileName, rows)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, file)
}

// GetImport обрабатывает GET /import-files/{id}
func (h *LoadHandler) GetImport(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	file, err := h.importService.GetFile(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, file)
}

// ListImportRows обрабатывает GET /import-files/{id}/rows
func (h *LoadHandler) ListImportRows(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if _, err := h.importService.GetFile(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	rows, err := h.importService.ListRows(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, rows)
}

// CreateIssues обрабатывает POST /import-rows/issues
func (h *LoadHandler) CreateIssues(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateIssuesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	result, err := h.trackerService.CreateIssuesForRows(r.Context(), &req, h.defaultProjectKey)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}
