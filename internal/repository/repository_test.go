package repository_test

import (
	"testing"
	"time"

	"github.com/fot-analytics-api/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&domain.Department{},
		&domain.Division{},
		&domain.Group{},
		&domain.Employee{},
		&domain.SalaryHistory{},
		&domain.ImportFile{},
		&domain.ImportRow{},
		&domain.ImportColumnMapping{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	return db
}

func seedEmployee(t *testing.T, db *gorm.DB, login string, comp domain.Compensation, active bool) *domain.Employee {
	t.Helper()

	emp := &domain.Employee{
		Login:    login,
		FullName: "Сотрудник " + login,
		HireDate: time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
		IsActive: active,

		CurrentSalary:         comp.Salary,
		CurrentQuarterlyBonus: comp.QuarterlyBonus,
		CurrentMonthlyBonus:   comp.MonthlyBonus,
		CurrentYearlyBonus:    comp.YearlyBonus,
	}
	if err := db.Create(emp).Error; err != nil {
		t.Fatalf("failed to seed employee %s: %v", login, err)
	}
	return emp
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
