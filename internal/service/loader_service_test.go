package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fot-analytics-api/internal/domain"
	"github.com/fot-analytics-api/internal/repository"
	"github.com/fot-analytics-api/internal/service"
	"github.com/fot-analytics-api/internal/table"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newLoader(db *gorm.DB) service.LoaderService {
	return service.NewLoaderService(
		repository.NewDepartmentRepository(db),
		repository.NewDivisionRepository(db),
		repository.NewGroupRepository(db),
		repository.NewEmployeeRepository(db),
		repository.NewSalaryHistoryRepository(db),
		testLogger(),
	)
}

func csvRows(t *testing.T, data string) []*table.Row {
	t.Helper()
	rows, err := table.ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("failed to parse csv: %v", err)
	}
	return rows
}

func TestLoadDepartments_CreateAndSkipBlank(t *testing.T) {
	db := newTestDB(t)
	loader := newLoader(db)

	rows := csvRows(t, "Название\nРазработка\n\nАналитика\n")
	result, err := loader.LoadDepartments(context.Background(), rows)
	if err != nil {
		t.Fatalf("LoadDepartments failed: %v", err)
	}

	if result.Created != 2 {
		t.Errorf("expected 2 created, got %d", result.Created)
	}

	// Повторная загрузка не создаёт дубликатов
	result, err = loader.LoadDepartments(context.Background(), rows)
	if err != nil {
		t.Fatalf("LoadDepartments failed: %v", err)
	}
	if result.Created != 0 || result.Updated != 2 {
		t.Errorf("expected 0 created / 2 updated, got %d / %d", result.Created, result.Updated)
	}

	var count int64
	db.Model(&domain.Department{}).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 departments in db, got %d", count)
	}
}

func TestLoadDivisions_SkipsUnknownDepartment(t *testing.T) {
	db := newTestDB(t)
	loader := newLoader(db)

	if _, err := loader.LoadDepartments(context.Background(), csvRows(t, "Название\nРазработка\n")); err != nil {
		t.Fatalf("LoadDepartments failed: %v", err)
	}

	rows := csvRows(t, "Департамент,Название\nРазработка,Бэкенд\nНеизвестный,Фронтенд\n")
	result, err := loader.LoadDivisions(context.Background(), rows)
	if err != nil {
		t.Fatalf("LoadDivisions failed: %v", err)
	}

	if result.Created != 1 {
		t.Errorf("expected 1 created division, got %d", result.Created)
	}

	var count int64
	db.Model(&domain.Division{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 division in db, got %d", count)
	}
}

func TestLoadEmployees_RowErrorsDoNotStopLoad(t *testing.T) {
	db := newTestDB(t)
	loader := newLoader(db)

	rows := csvRows(t, "Логин,ФИО,Оклад\n,Без Логина,100000\nivanov,Иванов Иван,120000\n")
	result, err := loader.LoadEmployees(context.Background(), rows)
	if err != nil {
		t.Fatalf("LoadEmployees failed: %v", err)
	}

	if result.Created != 1 {
		t.Errorf("expected 1 created, got %d", result.Created)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	// Нумерация строк считается от 2: первая строка файла — заголовок
	if !strings.HasPrefix(result.Errors[0], "row 2:") {
		t.Errorf("expected error for row 2, got %q", result.Errors[0])
	}
}

func TestLoadEmployees_CreatesHistoryOnChange(t *testing.T) {
	db := newTestDB(t)
	loader := newLoader(db)

	rows := csvRows(t, "Логин,ФИО,Оклад,Квартальная премия\nivanov,Иванов Иван,120000,5000\n")
	if _, err := loader.LoadEmployees(context.Background(), rows); err != nil {
		t.Fatalf("LoadEmployees failed: %v", err)
	}

	var entries []domain.SalaryHistory
	if err := db.Find(&entries).Error; err != nil {
		t.Fatalf("failed to load history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}

	entry := entries[0]
	if !entry.SalaryBefore.IsZero() || !entry.SalaryAfter.Equal(decimal.NewFromInt(120000)) {
		t.Errorf("expected salary 0 -> 120000, got %s -> %s", entry.SalaryBefore, entry.SalaryAfter)
	}
	if !entry.TotalIncomeDiff.Equal(decimal.NewFromInt(125000)) {
		t.Errorf("expected total diff 125000, got %s", entry.TotalIncomeDiff)
	}
	if entry.Comment == nil || *entry.Comment != "Загружено из файла" {
		t.Errorf("expected bulk load comment, got %v", entry.Comment)
	}

	// Повторная загрузка тех же значений не создаёт новой записи
	if _, err := loader.LoadEmployees(context.Background(), rows); err != nil {
		t.Fatalf("LoadEmployees failed: %v", err)
	}
	var count int64
	db.Model(&domain.SalaryHistory{}).Count(&count)
	if count != 1 {
		t.Errorf("expected still 1 history entry, got %d", count)
	}

	// Изменение оклада создаёт вторую запись
	changed := csvRows(t, "Логин,ФИО,Оклад,Квартальная премия\nivanov,Иванов Иван,130000,5000\n")
	if _, err := loader.LoadEmployees(context.Background(), changed); err != nil {
		t.Fatalf("LoadEmployees failed: %v", err)
	}
	db.Model(&domain.SalaryHistory{}).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 history entries, got %d", count)
	}
}

func TestLoadEmployees_ResolvesPlacementAndManagers(t *testing.T) {
	db := newTestDB(t)
	loader := newLoader(db)
	ctx := context.Background()

	if _, err := loader.LoadDepartments(ctx, csvRows(t, "Название\nРазработка\n")); err != nil {
		t.Fatalf("LoadDepartments failed: %v", err)
	}
	if _, err := loader.LoadDivisions(ctx, csvRows(t, "Департамент,Название\nРазработка,Бэкенд\n")); err != nil {
		t.Fatalf("LoadDivisions failed: %v", err)
	}

	manager := csvRows(t, "Логин,ФИО,Оклад\nboss,Начальник Отдела,200000\n")
	if _, err := loader.LoadEmployees(ctx, manager); err != nil {
		t.Fatalf("LoadEmployees failed: %v", err)
	}

	rows := csvRows(t, "Логин,ФИО,Департамент,Отдел,Линейный руководитель,Оклад\nivanov,Иванов Иван,Разработка,Бэкенд,boss,120000\n")
	if _, err := loader.LoadEmployees(ctx, rows); err != nil {
		t.Fatalf("LoadEmployees failed: %v", err)
	}

	var emp domain.Employee
	if err := db.Where("login = ?", "ivanov").First(&emp).Error; err != nil {
		t.Fatalf("failed to load employee: %v", err)
	}

	if emp.DepartmentID == nil {
		t.Error("expected department to be resolved")
	}
	if emp.DivisionID == nil {
		t.Error("expected division to be resolved")
	}
	if emp.LineManagerID == nil {
		t.Error("expected line manager to be resolved")
	}

	// Неразрешимая ссылка не затирает уже установленное значение
	unresolved := csvRows(t, "Логин,ФИО,Департамент,Оклад\nivanov,Иванов Иван,Маркетинг,120000\n")
	if _, err := loader.LoadEmployees(ctx, unresolved); err != nil {
		t.Fatalf("LoadEmployees failed: %v", err)
	}
	if err := db.Where("login = ?", "ivanov").First(&emp).Error; err != nil {
		t.Fatalf("failed to reload employee: %v", err)
	}
	if emp.DepartmentID == nil {
		t.Error("expected department to survive unresolvable reference")
	}
}

func TestLoadEmployees_HireDateAndLenientNumbers(t *testing.T) {
	db := newTestDB(t)
	loader := newLoader(db)

	rows := csvRows(t, "Логин,ФИО,Дата принятия,Оклад\nivanov,Иванов Иван,15.01.2023,не число\npetrov,Петров Пётр,,90000\n")
	result, err := loader.LoadEmployees(context.Background(), rows)
	if err != nil {
		t.Fatalf("LoadEmployees failed: %v", err)
	}
	if result.Created != 2 || len(result.Errors) != 0 {
		t.Fatalf("expected 2 created without errors, got %d created, %v", result.Created, result.Errors)
	}

	var ivanov domain.Employee
	if err := db.Where("login = ?", "ivanov").First(&ivanov).Error; err != nil {
		t.Fatalf("failed to load employee: %v", err)
	}
	if ivanov.HireDate.Year() != 2023 || int(ivanov.HireDate.Month()) != 1 {
		t.Errorf("expected hire date 2023-01-15, got %v", ivanov.HireDate)
	}
	// Неразбираемое значение оклада трактуется как ноль
	if !ivanov.CurrentSalary.IsZero() {
		t.Errorf("expected zero salary for unparsable value, got %s", ivanov.CurrentSalary)
	}

	var petrov domain.Employee
	if err := db.Where("login = ?", "petrov").First(&petrov).Error; err != nil {
		t.Fatalf("failed to load employee: %v", err)
	}
	// Пустая дата принятия заменяется текущей
	if petrov.HireDate.IsZero() {
		t.Error("expected fallback hire date to be set")
	}
}
