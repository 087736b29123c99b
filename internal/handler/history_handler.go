package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/fot-analytics-api/internal/domain"
	"github.com/fot-analytics-api/internal/dto"
	"github.com/fot-analytics-api/internal/service"
	"github.com/go-playground/validator/v10"
)

// HistoryHandler обслуживает журнал изменений вознаграждения
type HistoryHandler struct {
	historyService service.SalaryHistoryService
	validator      *validator.Validate
	logger         *slog.Logger
}

// NewHistoryHandler создаёт новый обработчик истории
func NewHistoryHandler(historyService service.SalaryHistoryService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		validator:      newValidator(),
		logger:         logger,
	}
}

// Append обрабатывает POST /salary-history/
func (h *HistoryHandler) Append(w http.ResponseWriter, r *http.Request) {
	var req dto.AppendHistoryRequest
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

	entry, err := h.historyService.Append(r.Context(), req.EmployeeID, service.AppendHistoryInput{
		ChangeDate: changeDate,
		Before: domain.Compensation{
			Salary:         req.Before.Salary,
			QuarterlyBonus: req.Before.QuarterlyBonus,
			MonthlyBonus:   req.Before.MonthlyBonus,
			YearlyBonus:    req.Before.YearlyBonus,
		},
		After: domain.Compensation{
			Salary:         req.After.Salary,
			QuarterlyBonus: req.After.QuarterlyBonus,
			MonthlyBonus:   req.After.MonthlyBonus,
			YearlyBonus:    req.After.YearlyBonus,
		},
		Comment: req.Comment,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, toHistoryEntryResponse(entry))
}

func toHistoryEntryResponse(entry *domain.SalaryHistory) dto.HistoryEntryResponse {
	return dto.HistoryEntryResponse{
		ID:         entry.ID,
		EmployeeID: entry.EmployeeID,
		ChangeDate: entry.ChangeDate.Format("2006-01-02"),

		SalaryBefore: entry.SalaryBefore,
		SalaryAfter:  entry.SalaryAfter,
		SalaryDiff:   entry.SalaryDiff,

		QuarterlyBonusBefore: entry.QuarterlyBonusBefore,
		QuarterlyBonusAfter:  entry.QuarterlyBonusAfter,
		QuarterlyBonusDiff:   entry.QuarterlyBonusDiff,

		MonthlyBonusBefore: entry.MonthlyBonusBefore,
		MonthlyBonusAfter:  entry.MonthlyBonusAfter,
		MonthlyBonusDiff:   entry.MonthlyBonusDiff,

		YearlyBonusBefore: entry.YearlyBonusBefore,
		YearlyBonusAfter:  entry.YearlyBonusAfter,
		YearlyBonusDiff:   entry.YearlyBonusDiff,

		TotalIncomeBefore: entry.TotalIncomeBefore,
		TotalIncomeAfter:  entry.TotalIncomeAfter,
		TotalIncomeDiff:   entry.TotalIncomeDiff,

		Comment:   entry.Comment,
		CreatedAt: entry.CreatedAt,
	}
}
