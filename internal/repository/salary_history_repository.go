package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fot-analytics-api/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HistoryFilter - фильтр выборки записей истории
type HistoryFilter struct {
	EmployeeID   *int64
	DepartmentID *int64
	DateFrom     *time.Time
	DateTo       *time.Time
}

// PeriodStats - агрегаты total_income_after за период
type PeriodStats struct {
	Total decimal.NullDecimal `gorm:"column:total"`
	Avg   decimal.NullDecimal `gorm:"column:avg"`
	Count int64               `gorm:"column:count"`
}

// DiffStats - агрегаты total_income_diff за период
type DiffStats struct {
	TotalDiff decimal.NullDecimal `gorm:"column:total_diff"`
	AvgDiff   decimal.NullDecimal `gorm:"column:avg_diff"`
	Count     int64               `gorm:"column:count"`
}

// SalaryHistoryRepository определяет интерфейс для работы с историей.
// История только добавляется: операций изменения и удаления нет.
type SalaryHistoryRepository interface {
	Create(ctx context.Context, entry *domain.SalaryHistory) error
	List(ctx context.Context, filter HistoryFilter) ([]domain.SalaryHistory, error)
	AggregateForDepartmentYear(ctx context.Context, departmentID int64, year int) (*PeriodStats, error)
	AggregateDiffs(ctx context.Context, from, to time.Time) (*DiffStats, error)
}

type salaryHistoryRepository struct {
	db *gorm.DB
}

// NewSalaryHistoryRepository создаёт новый экземпляр репозитория
func NewSalaryHistoryRepository(db *gorm.DB) SalaryHistoryRepository {
	return &salaryHistoryRepository{db: db}
}

func (r *salaryHistoryRepository) Create(ctx context.Context, entry *domain.SalaryHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *salaryHistoryRepository) List(ctx context.Context, filter HistoryFilter) ([]domain.SalaryHistory, error) {
	query := r.db.WithContext(ctx).Model(&domain.SalaryHistory{})

	if filter.EmployeeID != nil {
		query = query.Where("salary_history.employee_id = ?", *filter.EmployeeID)
	}
	if filter.DepartmentID != nil {
		query = query.
			Joins("INNER JOIN employees ON employees.id = salary_history.employee_id").
			Where("employees.department_id = ?", *filter.DepartmentID)
	}
	if filter.DateFrom != nil {
		query = query.Where("change_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("change_date <= ?", *filter.DateTo)
	}

	var entries []domain.SalaryHistory
	err := query.Order("change_date ASC, salary_history.id ASC").Find(&entries).Error
	return entries, err
}

// AggregateForDepartmentYear считает агрегаты total_income_after по записям
// активных сотрудников департамента за календарный год. Границы года заданы
// диапазоном дат, а не извлечением года: выражение переносимо между СУБД.
func (r *salaryHistoryRepository) AggregateForDepartmentYear(ctx context.Context, departmentID int64, year int) (*PeriodStats, error) {
	from := fmt.Sprintf("%04d-01-01", year)
	to := fmt.Sprintf("%04d-01-01", year+1)

	var stats PeriodStats
	err := r.db.WithContext(ctx).Model(&domain.SalaryHistory{}).
		Select("SUM(total_income_after) AS total, AVG(total_income_after) AS avg, COUNT(salary_history.id) AS count").
		Joins("INNER JOIN employees ON employees.id = salary_history.employee_id").
		Where("employees.department_id = ? AND employees.is_active = ?", departmentID, true).
		Where("change_date >= ? AND change_date < ?", from, to).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *salaryHistoryRepository) AggregateDiffs(ctx context.Context, from, to time.Time) (*DiffStats, error) {
	var stats DiffStats
	err := r.db.WithContext(ctx).Model(&domain.SalaryHistory{}).
		Select("SUM(total_income_diff) AS total_diff, AVG(total_income_diff) AS avg_diff, COUNT(id) AS count").
		Where("change_date >= ? AND change_date <= ?", from, to).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
