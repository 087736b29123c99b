package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fot-analytics-api/internal/dto"
	"github.com/fot-analytics-api/internal/service"
	"github.com/go-playground/validator/v10"
)

// DirectoryHandler обслуживает справочник оргструктуры
type DirectoryHandler struct {
	directory service.DirectoryService
	validator *validator.Validate
	logger    *slog.Logger
}

// NewDirectoryHandler создаёт новый обработчик оргструктуры
func NewDirectoryHandler(directory service.DirectoryService, logger *slog.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		directory: directory,
		validator: newValidator(),
		logger:    logger,
	}
}

// CreateDepartment обрабатывает POST /departments/.
// Повторный запрос с тем же именем возвращает существующий департамент.
func (h *DirectoryHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	dept, created, err := h.directory.GetOrCreateDepartment(r.Context(), req.Name)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	respondJSON(w, h.logger, status, dto.DepartmentResponse{
		ID:        dept.ID,
		Name:      dept.Name,
		ManagerID: dept.ManagerID,
		Created:   created,
	})
}

// GetDepartment обрабатывает GET /departments/{id}
func (h *DirectoryHandler) GetDepartment(w http.ResponseWriter, r *http.Request, id int64) {
	dept, err := h.directory.GetDepartment(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, dto.DepartmentResponse{
		ID:        dept.ID,
		Name:      dept.Name,
		ManagerID: dept.ManagerID,
	})
}

// DeleteDepartment обрабатывает DELETE /departments/{id}.
// Вложенные отделы и группы удаляются каскадно.
func (h *DirectoryHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.directory.DeleteDepartment(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AssignManager обрабатывает POST /{units}/{id}/manager для всех трёх уровней
func (h *DirectoryHandler) AssignManager(w http.ResponseWriter, r *http.Request, unit string, id int64) {
	var req dto.AssignManagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	var err error
	switch unit {
	case "departments":
		err = h.directory.AssignDepartmentManager(r.Context(), id, req.EmployeeID)
	case "divisions":
		err = h.directory.AssignDivisionManager(r.Context(), id, req.EmployeeID)
	case "groups":
		err = h.directory.AssignGroupManager(r.Context(), id, req.EmployeeID)
	default:
		notFound(w)
		return
	}
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
