package service

import (
	"context"
	"time"

	"github.com/fot-analytics-api/internal/domain"
	"github.com/fot-analytics-api/internal/repository"
)

// AppendHistoryInput - входные данные записи истории.
// Передаются только before/after: все производные поля вычисляет сервис.
type AppendHistoryInput struct {
	ChangeDate time.Time
	Before     domain.Compensation
	After      domain.Compensation
	Comment    *string
}

// SalaryHistoryService определяет бизнес-логику журнала изменений
type SalaryHistoryService interface {
	Append(ctx context.Context, employeeID int64, input AppendHistoryInput) (*domain.SalaryHistory, error)
	List(ctx context.Context, filter repository.HistoryFilter) ([]domain.SalaryHistory, error)
}

type salaryHistoryService struct {
	historyRepo repository.SalaryHistoryRepository
	empRepo     repository.EmployeeRepository
}

// NewSalaryHistoryService создаёт новый экземпляр сервиса
func NewSalaryHistoryService(historyRepo repository.SalaryHistoryRepository, empRepo repository.EmployeeRepository) SalaryHistoryService {
	return &salaryHistoryService{
		historyRepo: historyRepo,
		empRepo:     empRepo,
	}
}

// Append добавляет запись истории. Поля diff и суммарные значения всегда
// пересчитываются из before/after; запись после создания не изменяется.
func (s *salaryHistoryService) Append(ctx context.Context, employeeID int64, input AppendHistoryInput) (*domain.SalaryHistory, error) {
	if _, err := s.empRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	entry := &domain.SalaryHistory{
		EmployeeID: employeeID,
		ChangeDate: input.ChangeDate,

		SalaryBefore:         input.Before.Salary,
		SalaryAfter:          input.After.Salary,
		QuarterlyBonusBefore: input.Before.QuarterlyBonus,
		QuarterlyBonusAfter:  input.After.QuarterlyBonus,
		MonthlyBonusBefore:   input.Before.MonthlyBonus,
		MonthlyBonusAfter:    input.After.MonthlyBonus,
		YearlyBonusBefore:    input.Before.YearlyBonus,
		YearlyBonusAfter:     input.After.YearlyBonus,

		Comment: input.Comment,
	}
	entry.RecalculateDerived()

	if err := s.historyRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *salaryHistoryService) List(ctx context.Context, filter repository.HistoryFilter) ([]domain.SalaryHistory, error) {
	return s.historyRepo.List(ctx, filter)
}
