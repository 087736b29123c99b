package service

import (
	"context"
	"strings"
	"time"

	"github.com/fot-analytics-api/internal/domain"
	"github.com/fot-analytics-api/internal/repository"
)

// CreateEmployeeInput - данные для создания сотрудника
type CreateEmployeeInput struct {
	Login        string
	FullName     string
	Position     *string
	HireDate     time.Time
	DepartmentID *int64
	DivisionID   *int64
	GroupID      *int64
	Compensation domain.Compensation
}

// EmployeeService определяет бизнес-логику для сотрудников
type EmployeeService interface {
	Create(ctx context.Context, input CreateEmployeeInput) (*domain.Employee, error)
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	List(ctx context.Context, filter repository.EmployeeFilter) ([]domain.Employee, error)
	UpdateCompensation(ctx context.Context, id int64, comp domain.Compensation, changeDate time.Time, comment *string) (*domain.Employee, error)
	Deactivate(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type employeeService struct {
	empRepo    repository.EmployeeRepository
	historySvc SalaryHistoryService
}

// NewEmployeeService создаёт новый экземпляр сервиса
func NewEmployeeService(empRepo repository.EmployeeRepository, historySvc SalaryHistoryService) EmployeeService {
	return &employeeService{
		empRepo:    empRepo,
		historySvc: historySvc,
	}
}

func (s *employeeService) Create(ctx context.Context, input CreateEmployeeInput) (*domain.Employee, error) {
	login := strings.TrimSpace(input.Login)
	if login == "" {
		return nil, domain.ErrLoginRequired
	}

	if _, err := s.empRepo.GetByLogin(ctx, login); err == nil {
		return nil, domain.ErrDuplicateLogin
	} else if err != domain.ErrEmployeeNotFound {
		return nil, err
	}

	emp := &domain.Employee{
		Login:        login,
		FullName:     strings.TrimSpace(input.FullName),
		Position:     input.Position,
		HireDate:     input.HireDate,
		DepartmentID: input.DepartmentID,
		DivisionID:   input.DivisionID,
		GroupID:      input.GroupID,

		CurrentSalary:         input.Compensation.Salary,
		CurrentQuarterlyBonus: input.Compensation.QuarterlyBonus,
		CurrentMonthlyBonus:   input.Compensation.MonthlyBonus,
		CurrentYearlyBonus:    input.Compensation.YearlyBonus,

		IsActive: true,
	}

	if err := s.empRepo.Create(ctx, emp); err != nil {
		return nil, err
	}

	return emp, nil
}

func (s *employeeService) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	return s.empRepo.GetByID(ctx, id)
}

func (s *employeeService) List(ctx context.Context, filter repository.EmployeeFilter) ([]domain.Employee, error) {
	return s.empRepo.List(ctx, filter)
}

// UpdateCompensation перезаписывает снимок вознаграждения и, если хотя бы
// один из четырёх компонентов изменился, добавляет одну запись истории
// с полным состоянием before/after.
func (s *employeeService) UpdateCompensation(ctx context.Context, id int64, comp domain.Compensation, changeDate time.Time, comment *string) (*domain.Employee, error) {
	emp, err := s.empRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := emp.CompensationSnapshot()

	emp.CurrentSalary = comp.Salary
	emp.CurrentQuarterlyBonus = comp.QuarterlyBonus
	emp.CurrentMonthlyBonus = comp.MonthlyBonus
	emp.CurrentYearlyBonus = comp.YearlyBonus

	if err := s.empRepo.Update(ctx, emp); err != nil {
		return nil, err
	}

	if !before.Equal(comp) {
		_, err = s.historySvc.Append(ctx, emp.ID, AppendHistoryInput{
			ChangeDate: changeDate,
			Before:     before,
			After:      comp,
			Comment:    comment,
		})
		if err != nil {
			return nil, err
		}
	}

	return emp, nil
}

// Deactivate выключает сотрудника из отчётов, не удаляя его данные
func (s *employeeService) Deactivate(ctx context.Context, id int64) error {
	emp, err := s.empRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	emp.IsActive = false
	return s.empRepo.Update(ctx, emp)
}

func (s *employeeService) Delete(ctx context.Context, id int64) error {
	return s.empRepo.Delete(ctx, id)
}
