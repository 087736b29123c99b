package repository

import (
	"context"
	"strings"

	"github.com/fot-analytics-api/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CurrentIncomeExpr - SQL-выражение текущего дохода для агрегатных запросов.
// Обязано быть эквивалентно domain.Compensation.Income (проверяется тестом).
const CurrentIncomeExpr = "(current_salary + current_quarterly_bonus + current_monthly_bonus + current_yearly_bonus)"

// EmployeeFilter - фильтр выборки сотрудников
type EmployeeFilter struct {
	DepartmentID *int64
	DivisionID   *int64
	GroupID      *int64
	IsActive     *bool
	HireDateFrom *string
	HireDateTo   *string
}

// IncomeStats - агрегаты текущего дохода по выборке сотрудников
type IncomeStats struct {
	Total decimal.NullDecimal `gorm:"column:total"`
	Avg   decimal.NullDecimal `gorm:"column:avg"`
	Count int64               `gorm:"column:count"`
}

// DepartmentIncomeStats - агрегаты текущего дохода в разрезе департамента
type DepartmentIncomeStats struct {
	DepartmentName string              `gorm:"column:department_name"`
	Total          decimal.NullDecimal `gorm:"column:total"`
	Avg            decimal.NullDecimal `gorm:"column:avg"`
	Count          int64               `gorm:"column:count"`
}

// CustomReportRow - одна строка произвольного отчёта.
// Заполняются только поля, соответствующие выбранным разрезам и метрикам.
type CustomReportRow struct {
	DepartmentName *string             `gorm:"column:department_name"`
	DivisionName   *string             `gorm:"column:division_name"`
	GroupName      *string             `gorm:"column:group_name"`
	TotalIncome    decimal.NullDecimal `gorm:"column:total_income"`
	AvgIncome      decimal.NullDecimal `gorm:"column:avg_income"`
	Count          int64               `gorm:"column:count"`
	TotalSalary    decimal.NullDecimal `gorm:"column:total_salary"`
	AvgSalary      decimal.NullDecimal `gorm:"column:avg_salary"`
}

// SQL-фрагменты разрезов и метрик произвольного отчёта
var (
	reportDimensions = map[string]string{
		"department": "departments.name AS department_name",
		"division":   "divisions.name AS division_name",
		"group":      "groups.name AS group_name",
	}
	reportMetrics = map[string]string{
		"total_income": "SUM" + CurrentIncomeExpr + " AS total_income",
		"avg_income":   "AVG" + CurrentIncomeExpr + " AS avg_income",
		"count":        "COUNT(employees.id) AS count",
		"total_salary": "SUM(current_salary) AS total_salary",
		"avg_salary":   "AVG(current_salary) AS avg_salary",
	}
)

// KnownReportDimension сообщает, распознан ли ключ разреза
func KnownReportDimension(key string) bool {
	_, ok := reportDimensions[key]
	return ok
}

// KnownReportMetric сообщает, распознан ли ключ метрики
func KnownReportMetric(key string) bool {
	_, ok := reportMetrics[key]
	return ok
}

// EmployeeRepository определяет интерфейс для работы с сотрудниками
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	GetByLogin(ctx context.Context, login string) (*domain.Employee, error)
	GetOrCreateByLogin(ctx context.Context, emp *domain.Employee) (created bool, err error)
	Update(ctx context.Context, emp *domain.Employee) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error)
	AggregateIncome(ctx context.Context, filter EmployeeFilter) (*IncomeStats, error)
	AggregateIncomeByDepartment(ctx context.Context) ([]DepartmentIncomeStats, error)
	CustomAggregate(ctx context.Context, filter EmployeeFilter, groupBy, metrics []string) ([]CustomReportRow, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository создаёт новый экземпляр репозитория
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	return r.db.WithContext(ctx).Create(emp).Error
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.WithContext(ctx).First(&emp, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepository) GetByLogin(ctx context.Context, login string) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.WithContext(ctx).Where("login = ?", login).First(&emp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

// GetOrCreateByLogin находит сотрудника по логину или создаёт нового.
// Поля emp используются как значения по умолчанию только при создании.
func (r *employeeRepository) GetOrCreateByLogin(ctx context.Context, emp *domain.Employee) (bool, error) {
	var existing domain.Employee
	err := r.db.WithContext(ctx).Where("login = ?", emp.Login).First(&existing).Error
	if err == nil {
		*emp = existing
		return false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}
	if err := r.db.WithContext(ctx).Create(emp).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *employeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	return r.db.WithContext(ctx).Save(emp).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&domain.Employee{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error) {
	var employees []domain.Employee
	err := r.applyFilter(r.db.WithContext(ctx), filter).
		Order("full_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *employeeRepository) AggregateIncome(ctx context.Context, filter EmployeeFilter) (*IncomeStats, error) {
	var stats IncomeStats
	err := r.applyFilter(r.db.WithContext(ctx).Model(&domain.Employee{}), filter).
		Select("SUM" + CurrentIncomeExpr + " AS total, AVG" + CurrentIncomeExpr + " AS avg, COUNT(id) AS count").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *employeeRepository) AggregateIncomeByDepartment(ctx context.Context) ([]DepartmentIncomeStats, error) {
	var stats []DepartmentIncomeStats
	err := r.db.WithContext(ctx).Model(&domain.Employee{}).
		Select("departments.name AS department_name, SUM"+CurrentIncomeExpr+" AS total, AVG"+CurrentIncomeExpr+" AS avg, COUNT(employees.id) AS count").
		Joins("INNER JOIN departments ON departments.id = employees.department_id").
		Where("employees.is_active = ?", true).
		Group("departments.name").
		Order("total DESC").
		Scan(&stats).Error
	return stats, err
}

// CustomAggregate выполняет произвольный отчёт. Ключи groupBy и metrics
// должны быть предварительно отфильтрованы по Known*-функциям; активность
// сотрудников применяется всегда.
func (r *employeeRepository) CustomAggregate(ctx context.Context, filter EmployeeFilter, groupBy, metrics []string) ([]CustomReportRow, error) {
	selects := make([]string, 0, len(groupBy)+len(metrics))
	groups := make([]string, 0, len(groupBy))

	query := r.db.WithContext(ctx).Model(&domain.Employee{}).Where("employees.is_active = ?", true)

	for _, dim := range groupBy {
		expr, ok := reportDimensions[dim]
		if !ok {
			continue
		}
		selects = append(selects, expr)
		switch dim {
		case "department":
			query = query.Joins("LEFT JOIN departments ON departments.id = employees.department_id")
			groups = append(groups, "departments.name")
		case "division":
			query = query.Joins("LEFT JOIN divisions ON divisions.id = employees.division_id")
			groups = append(groups, "divisions.name")
		case "group":
			query = query.Joins("LEFT JOIN groups ON groups.id = employees.group_id")
			groups = append(groups, "groups.name")
		}
	}

	for _, metric := range metrics {
		expr, ok := reportMetrics[metric]
		if !ok {
			continue
		}
		selects = append(selects, expr)
	}

	query = r.applyFilter(query, filter).Select(strings.Join(selects, ", "))
	for _, g := range groups {
		query = query.Group(g)
	}

	var rows []CustomReportRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// applyFilter добавляет предикаты фильтра. Колонки квалифицированы именем
// таблицы: в отчётных запросах соединяются divisions и groups, где имена
// department_id и division_id повторяются.
func (r *employeeRepository) applyFilter(query *gorm.DB, filter EmployeeFilter) *gorm.DB {
	if filter.DepartmentID != nil {
		query = query.Where("employees.department_id = ?", *filter.DepartmentID)
	}
	if filter.DivisionID != nil {
		query = query.Where("employees.division_id = ?", *filter.DivisionID)
	}
	if filter.GroupID != nil {
		query = query.Where("employees.group_id = ?", *filter.GroupID)
	}
	if filter.IsActive != nil {
		query = query.Where("employees.is_active = ?", *filter.IsActive)
	}
	if filter.HireDateFrom != nil {
		query = query.Where("employees.hire_date >= ?", *filter.HireDateFrom)
	}
	if filter.HireDateTo != nil {
		query = query.Where("employees.hire_date <= ?", *filter.HireDateTo)
	}
	return query
}
