package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fot-analytics-api/internal/domain"
	"github.com/fot-analytics-api/internal/dto"
	"github.com/fot-analytics-api/internal/repository"
	"github.com/fot-analytics-api/internal/service"
	"github.com/go-playground/validator/v10"
)

// EmployeeHandler обслуживает реестр сотрудников
type EmployeeHandler struct {
	employees service.EmployeeService
	validator *validator.Validate
	logger    *slog.Logger
}

// NewEmployeeHandler создаёт новый обработчик сотрудников
func NewEmployeeHandler(employees service.EmployeeService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		employees: employees,
		validator: newValidator(),
		logger:    logger,
	}
}

// Create обрабатывает POST /employees/
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid hire_date", err.Error())
		return
	}

	emp, err := h.employees.Create(r.Context(), service.CreateEmployeeInput{
		Login:        req.Login,
		FullName:     req.FullName,
		Position:     req.Position,
		HireDate:     hireDate,
		DepartmentID: req.DepartmentID,
		DivisionID:   req.DivisionID,
		GroupID:      req.GroupID,
		Compensation: domain.Compensation{
			Salary:         req.Compensation.Salary,
			QuarterlyBonus: req.Compensation.QuarterlyBonus,
			MonthlyBonus:   req.Compensation.MonthlyBonus,
			YearlyBonus:    req.Compensation.YearlyBonus,
		},
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, emp)
}

// GetByID обрабатывает GET /employees/{id}
func (h *EmployeeHandler) GetByID(w http.ResponseWriter, r *http.Request, id int64) {
	emp, err := h.employees.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, emp)
}

// List обрабатывает GET /employees/ с фильтрами в query-параметрах
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.EmployeeFilter{
		DepartmentID: queryInt64(r, "department_id"),
		DivisionID:   queryInt64(r, "division_id"),
		GroupID:      queryInt64(r, "group_id"),
		HireDateFrom: queryString(r, "hire_date_from"),
		HireDateTo:   queryString(r, "hire_date_to"),
	}

	switch r.URL.Query().Get("is_active") {
	case "true":
		active := true
		filter.IsActive = &active
	case "false":
		active := false
		filter.IsActive = &active
	}

	employees, err := h.employees.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, employees)
}

// UpdateCompensation обрабатывает PUT /employees/{id}/compensation
func (h *EmployeeHandler) UpdateCompensation(w http.ResponseWriter, r *http.Request, id int64) {
	var req dto.UpdateCompensationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	changeDate, err := time.Parse("2006-01-02", req.ChangeDate)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid change_date", err.Error())
		return
	}

	emp, err := h.employees.UpdateCompensation(r.Context(), id, domain.Compensation{
		Salary:         req.Compensation.Salary,
		QuarterlyBonus: req.Compensation.QuarterlyBonus,
		MonthlyBonus:   req.Compensation.MonthlyBonus,
		YearlyBonus:    req.Compensation.YearlyBonus,
	}, changeDate, req.Comment)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, emp)
}

// Deactivate обрабатывает POST /employees/{id}/deactivate
func (h *EmployeeHandler) Deactivate(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.employees.Deactivate(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func queryInt64(r *http.Request, name string) *int64 {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

func queryString(r *http.Request, name string) *string {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil
	}
	return &value
}

// Delete обрабатывает DELETE /employees/{id}
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.employees.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
