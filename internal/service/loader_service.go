package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fot-analytics-api/internal/domain"
	"github.com/fot-analytics-api/internal/dto"
	"github.com/fot-analytics-api/internal/repository"
	"github.com/fot-analytics-api/internal/table"
)

// Комментарий записи истории, создаваемой при массовой загрузке
const bulkLoadComment = "Загружено из файла"

// LoaderService определяет бизнес-логику массовой загрузки табличных данных
type LoaderService interface {
	LoadDepartments(ctx context.Context, rows []*table.Row) (*dto.LoadResult, error)
	LoadDivisions(ctx context.Context, rows []*table.Row) (*dto.LoadResult, error)
	LoadGroups(ctx context.Context, rows []*table.Row) (*dto.LoadResult, error)
	LoadEmployees(ctx context.Context, rows []*table.Row) (*dto.LoadResult, error)
}

type loaderService struct {
	deptRepo    repository.DepartmentRepository
	divRepo     repository.DivisionRepository
	grpRepo     repository.GroupRepository
	empRepo     repository.EmployeeRepository
	historyRepo repository.SalaryHistoryRepository
	logger      *slog.Logger
}

// NewLoaderService создаёт новый экземпляр сервиса
func NewLoaderService(
	deptRepo repository.DepartmentRepository,
	divRepo repository.DivisionRepository,
	grpRepo repository.GroupRepository,
	empRepo repository.EmployeeRepository,
	historyRepo repository.SalaryHistoryRepository,
	logger *slog.Logger,
) LoaderService {
	return &loaderService{
		deptRepo:    deptRepo,
		divRepo:     divRepo,
		grpRepo:     grpRepo,
		empRepo:     empRepo,
		historyRepo: historyRepo,
		logger:      logger,
	}
}

// LoadDepartments загружает департаменты: get-or-create по имени,
// строки с пустым именем пропускаются
func (s *loaderService) LoadDepartments(ctx context.Context, rows []*table.Row) (*dto.LoadResult, error) {
	result := &dto.LoadResult{Errors: []string{}}

	for _, row := range rows {
		name := row.StringValue("Название", "name")
		if name == "" {
			continue
		}

		_, created, err := s.deptRepo.GetOrCreateByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	return result, nil
}

// LoadDivisions загружает отделы. Строка с неразрешимым департаментом
// пропускается с предупреждением, загрузка продолжается.
func (s *loaderService) LoadDivisions(ctx context.Context, rows []*table.Row) (*dto.LoadResult, error) {
	result := &dto.LoadResult{Errors: []string{}}

	for _, row := range rows {
		deptName := row.StringValue("Департамент", "department")
		divName := row.StringValue("Название", "name")
		if deptName == "" || divName == "" {
			continue
		}

		dept, err := s.deptRepo.GetByName(ctx, deptName)
		if err != nil {
			if err == domain.ErrDepartmentNotFound {
				s.logger.Warn("department not found, skipping division",
					slog.String("department", deptName),
					slog.String("division", divName),
				)
				continue
			}
			return nil, err
		}

		_, created, err := s.divRepo.GetOrCreate(ctx, dept.ID, divName)
		if err != nil {
			return nil, err
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	return result, nil
}

// LoadGroups загружает группы. Строка с неразрешимым отделом
// пропускается с предупреждением, загрузка продолжается.
func (s *loaderService) LoadGroups(ctx context.Context, rows []*table.Row) (*dto.LoadResult, error) {
	result := &dto.LoadResult{Errors: []string{}}

	for _, row := range rows {
		divName := row.StringValue("Отдел", "division")
		groupName := row.StringValue("Название", "name")
		if divName == "" || groupName == "" {
			continue
		}

		div, err := s.divRepo.GetByName(ctx, divName)
		if err != nil {
			if err == domain.ErrDivisionNotFound {
				s.logger.Warn("division not found, skipping group",
					slog.String("division", divName),
					slog.String("group", groupName),
				)
				continue
			}
			return nil, err
		}

		_, created, err := s.grpRepo.GetOrCreate(ctx, div.ID, groupName)
		if err != nil {
			return nil, err
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	return result, nil
}

// LoadEmployees загружает сотрудников. Ошибка в строке записывается с её
// номером в файле (с учётом заголовка) и не прерывает остальную загрузку.
func (s *loaderService) LoadEmployees(ctx context.Context, rows []*table.Row) (*dto.LoadResult, error) {
	result := &dto.LoadResult{Errors: []string{}}

	for idx, row := range rows {
		rowNumber := idx + 2

		created, err := s.loadEmployeeRow(ctx, row)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNumber, err))
			s.logger.Error("failed to process employee row",
				slog.Int("row", rowNumber),
				slog.Any("error", err),
			)
			continue
		}

		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	return result, nil
}

func (s *loaderService) loadEmployeeRow(ctx context.Context, row *table.Row) (created bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	login := row.StringValue("Логин", "login")
	if login == "" {
		return false, domain.ErrLoginRequired
	}

	hireDate := row.DateValue("Дата принятия", "hire_date")
	if hireDate == nil {
		now := time.Now()
		hireDate = &now
	}

	emp := &domain.Employee{
		Login:    login,
		FullName: row.StringValue("ФИО", "full_name"),
		HireDate: *hireDate,
		IsActive: true,
	}
	if position := row.StringValue("Должность", "position"); position != "" {
		emp.Position = &position
	}

	created, err = s.empRepo.GetOrCreateByLogin(ctx, emp)
	if err != nil {
		return false, err
	}

	s.resolvePlacement(ctx, row, emp)
	s.resolveManagers(ctx, row, emp)

	before := emp.CompensationSnapshot()

	emp.CurrentSalary = row.DecimalValue("Оклад", "salary", "current_salary")
	emp.CurrentQuarterlyBonus = row.DecimalValue("Квартальная премия", "quarterly_bonus")
	emp.CurrentMonthlyBonus = row.DecimalValue("Месячная премия", "monthly_bonus")
	emp.CurrentYearlyBonus = row.DecimalValue("Годовая премия", "yearly_bonus")

	if err := s.empRepo.Update(ctx, emp); err != nil {
		return false, err
	}

	after := emp.CompensationSnapshot()
	if !before.Equal(after) {
		comment := bulkLoadComment
		entry := &domain.SalaryHistory{
			EmployeeID: emp.ID,
			ChangeDate: time.Now(),

			SalaryBefore:         before.Salary,
			SalaryAfter:          after.Salary,
			QuarterlyBonusBefore: before.QuarterlyBonus,
			QuarterlyBonusAfter:  after.QuarterlyBonus,
			MonthlyBonusBefore:   before.MonthlyBonus,
			MonthlyBonusAfter:    after.MonthlyBonus,
			YearlyBonusBefore:    before.YearlyBonus,
			YearlyBonusAfter:     after.YearlyBonus,

			Comment: &comment,
		}
		entry.RecalculateDerived()

		if err := s.historyRepo.Create(ctx, entry); err != nil {
			return false, err
		}
	}

	return created, nil
}

// resolvePlacement применяет организационные ссылки, если они разрешаются
// по имени; неразрешимая ссылка оставляет текущее значение без изменений
func (s *loaderService) resolvePlacement(ctx context.Context, row *table.Row, emp *domain.Employee) {
	if deptName := row.StringValue("Департамент", "department"); deptName != "" {
		if dept, err := s.deptRepo.GetByName(ctx, deptName); err == nil {
			emp.DepartmentID = &dept.ID
		}
	}

	if divName := row.StringValue("Отдел", "division"); divName != "" {
		if div, err := s.divRepo.GetByName(ctx, divName); err == nil {
			emp.DivisionID = &div.ID
		}
	}

	if groupName := row.StringValue("Группа", "group"); groupName != "" {
		if group, err := s.grpRepo.GetByName(ctx, groupName); err == nil {
			emp.GroupID = &group.ID
		}
	}
}

// resolveManagers применяет ссылки на руководителей по логину,
// если такие сотрудники существуют
func (s *loaderService) resolveManagers(ctx context.Context, row *table.Row, emp *domain.Employee) {
	if funcLogin := row.StringValue("Функциональный руководитель", "functional_manager"); funcLogin != "" {
		if manager, err := s.empRepo.GetByLogin(ctx, funcLogin); err == nil {
			emp.FunctionalManagerID = &manager.ID
		}
	}

	if lineLogin := row.StringValue("Линейный руководитель", "line_manager"); lineLogin != "" {
		if manager, err := s.empRepo.GetByLogin(ctx, lineLogin); err == nil {
			emp.LineManagerID = &manager.ID
		}
	}
}
