package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/fot-analytics-api/internal/domain"
	"github.com/fot-analytics-api/internal/dto"
	"github.com/fot-analytics-api/internal/tracker"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// newValidator создаёт валидатор с поддержкой decimal-полей
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func respondError(w http.ResponseWriter, logger *slog.Logger, status int, errMsg, details string) {
	w.WriteHeader(status)
	resp := dto.ErrorResponse{Error: errMsg}
	if details != "" {
		resp.Message = details
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode error response", slog.Any("error", err))
	}
}

// handleServiceError переводит бизнес-ошибки в HTTP-статусы
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var remoteErr *tracker.RemoteError

	switch {
	case errors.Is(err, domain.ErrDepartmentNotFound):
		respondError(w, logger, http.StatusNotFound, "department not found", "")
	case errors.Is(err, domain.ErrDivisionNotFound):
		respondError(w, logger, http.StatusNotFound, "division not found", "")
	case errors.Is(err, domain.ErrGroupNotFound):
		respondError(w, logger, http.StatusNotFound, "group not found", "")
	case errors.Is(err, domain.ErrEmployeeNotFound):
		respondError(w, logger, http.StatusNotFound, "employee not found", "")
	case errors.Is(err, domain.ErrImportFileNotFound):
		respondError(w, logger, http.StatusNotFound, "import file not found", "")
	case errors.Is(err, domain.ErrImportRowNotFound):
		respondError(w, logger, http.StatusNotFound, "import rows not found", "")
	case errors.Is(err, domain.ErrLoginRequired):
		respondError(w, logger, http.StatusBadRequest, "employee login is required", "")
	case errors.Is(err, domain.ErrDuplicateLogin):
		respondError(w, logger, http.StatusConflict, "employee with this login already exists", "")
	case errors.Is(err, tracker.ErrNotConfigured):
		respondError(w, logger, http.StatusServiceUnavailable, "issue tracker is not configured", "")
	case errors.As(err, &remoteErr):
		respondError(w, logger, http.StatusBadGateway, "issue tracker request failed", remoteErr.Error())
	default:
		logger.Error("internal error", slog.Any("error", err))
		respondError(w, logger, http.StatusInternalServerError, "internal server error", "")
	}
}
