package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/fot-analytics-api/internal/domain"
	"github.com/fot-analytics-api/internal/repository"
)

// Проверяет, что SQL-выражение текущего дохода совпадает с расчётом
// на стороне Go. Значения подобраны точно представимыми в float64.
func TestAggregateIncome_MatchesDomainIncome(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewEmployeeRepository(db)

	comp := domain.Compensation{
		Salary:         dec("100000.50"),
		QuarterlyBonus: dec("5000.25"),
		MonthlyBonus:   dec("1500.75"),
		YearlyBonus:    dec("20000.50"),
	}
	emp := seedEmployee(t, db, "ivanov", comp, true)

	stats, err := repo.AggregateIncome(context.Background(), repository.EmployeeFilter{})
	if err != nil {
		t.Fatalf("AggregateIncome failed: %v", err)
	}

	if !stats.Total.Valid {
		t.Fatal("expected total to be present")
	}
	if !stats.Total.Decimal.Equal(emp.CurrentIncome()) {
		t.Errorf("sql income %s != domain income %s", stats.Total.Decimal, emp.CurrentIncome())
	}
	if stats.Count != 1 {
		t.Errorf("expected count 1, got %d", stats.Count)
	}
}

func TestAggregateIncome_EmptySet(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewEmployeeRepository(db)

	stats, err := repo.AggregateIncome(context.Background(), repository.EmployeeFilter{})
	if err != nil {
		t.Fatalf("AggregateIncome failed: %v", err)
	}

	// SUM по пустой выборке даёт NULL, а не ноль
	if stats.Total.Valid || stats.Avg.Valid {
		t.Errorf("expected null aggregates for empty set, got %+v", stats)
	}
	if stats.Count != 0 {
		t.Errorf("expected count 0, got %d", stats.Count)
	}
}

func TestAggregateIncomeByDepartment_ActiveOnlyOrdered(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewEmployeeRepository(db)

	dev := &domain.Department{Name: "Разработка"}
	sales := &domain.Department{Name: "Продажи"}
	for _, d := range []*domain.Department{dev, sales} {
		if err := db.Create(d).Error; err != nil {
			t.Fatalf("failed to seed department: %v", err)
		}
	}

	a := seedEmployee(t, db, "dev1", domain.Compensation{Salary: dec("100000")}, true)
	b := seedEmployee(t, db, "dev2", domain.Compensation{Salary: dec("120000")}, true)
	c := seedEmployee(t, db, "sales1", domain.Compensation{Salary: dec("80000")}, true)
	inactive := seedEmployee(t, db, "dev3", domain.Compensation{Salary: dec("500000")}, false)

	for emp, dept := range map[*domain.Employee]*domain.Department{a: dev, b: dev, c: sales, inactive: dev} {
		emp.DepartmentID = &dept.ID
		if err := db.Save(emp).Error; err != nil {
			t.Fatalf("failed to place employee: %v", err)
		}
	}

	stats, err := repo.AggregateIncomeByDepartment(context.Background())
	if err != nil {
		t.Fatalf("AggregateIncomeByDepartment failed: %v", err)
	}

	if len(stats) != 2 {
		t.Fatalf("expected 2 departments, got %d", len(stats))
	}
	// Сортировка по убыванию суммарного дохода
	if stats[0].DepartmentName != "Разработка" || stats[1].DepartmentName != "Продажи" {
		t.Errorf("unexpected order: %s, %s", stats[0].DepartmentName, stats[1].DepartmentName)
	}
	// Неактивный сотрудник не учитывается
	if !stats[0].Total.Decimal.Equal(dec("220000")) {
		t.Errorf("expected dev total 220000, got %s", stats[0].Total.Decimal)
	}
	if stats[0].Count != 2 || stats[1].Count != 1 {
		t.Errorf("unexpected counts: %d, %d", stats[0].Count, stats[1].Count)
	}
}

func TestCustomAggregate_NullDepartmentSurvivesLeftJoin(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewEmployeeRepository(db)

	dept := &domain.Department{Name: "Разработка"}
	if err := db.Create(dept).Error; err != nil {
		t.Fatalf("failed to seed department: %v", err)
	}

	placed := seedEmployee(t, db, "ivanov", domain.Compensation{Salary: dec("100000")}, true)
	placed.DepartmentID = &dept.ID
	if err := db.Save(placed).Error; err != nil {
		t.Fatalf("failed to place employee: %v", err)
	}
	seedEmployee(t, db, "orphan", domain.Compensation{Salary: dec("50000")}, true)

	rows, err := repo.CustomAggregate(context.Background(), repository.EmployeeFilter{},
		[]string{"department"}, []string{"total_income", "count"})
	if err != nil {
		t.Fatalf("CustomAggregate failed: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	var withDept, withoutDept *repository.CustomReportRow
	for i := range rows {
		if rows[i].DepartmentName == nil {
			withoutDept = &rows[i]
		} else {
			withDept = &rows[i]
		}
	}
	if withDept == nil || withoutDept == nil {
		t.Fatalf("expected both placed and orphan groups, got %+v", rows)
	}
	if *withDept.DepartmentName != "Разработка" || !withDept.TotalIncome.Decimal.Equal(dec("100000")) {
		t.Errorf("unexpected placed group: %+v", withDept)
	}
	if !withoutDept.TotalIncome.Decimal.Equal(dec("50000")) || withoutDept.Count != 1 {
		t.Errorf("unexpected orphan group: %+v", withoutDept)
	}
}

// Фильтр по департаменту вместе с разрезом по отделу соединяет таблицы
// с одноимёнными колонками: предикаты обязаны оставаться однозначными.
func TestCustomAggregate_FilterWithGroupBy(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewEmployeeRepository(db)

	dev := &domain.Department{Name: "Разработка"}
	sales := &domain.Department{Name: "Продажи"}
	for _, d := range []*domain.Department{dev, sales} {
		if err := db.Create(d).Error; err != nil {
			t.Fatalf("failed to seed department: %v", err)
		}
	}
	backend := &domain.Division{DepartmentID: dev.ID, Name: "Бэкенд"}
	if err := db.Create(backend).Error; err != nil {
		t.Fatalf("failed to seed division: %v", err)
	}

	emp := seedEmployee(t, db, "ivanov", domain.Compensation{Salary: dec("100000")}, true)
	emp.DepartmentID = &dev.ID
	emp.DivisionID = &backend.ID
	if err := db.Save(emp).Error; err != nil {
		t.Fatalf("failed to place employee: %v", err)
	}
	other := seedEmployee(t, db, "petrov", domain.Compensation{Salary: dec("90000")}, true)
	other.DepartmentID = &sales.ID
	if err := db.Save(other).Error; err != nil {
		t.Fatalf("failed to place employee: %v", err)
	}

	rows, err := repo.CustomAggregate(context.Background(),
		repository.EmployeeFilter{DepartmentID: &dev.ID},
		[]string{"division"}, []string{"total_income", "count"})
	if err != nil {
		t.Fatalf("CustomAggregate failed: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.DivisionName == nil || *row.DivisionName != "Бэкенд" {
		t.Errorf("unexpected division: %v", row.DivisionName)
	}
	if !row.TotalIncome.Decimal.Equal(dec("100000")) || row.Count != 1 {
		t.Errorf("unexpected aggregates: %+v", row)
	}
}

// Сотрудник, созданный неактивным, обязан сохраниться неактивным
func TestCreate_InactivePersisted(t *testing.T) {
	db := newTestDB(t)

	seedEmployee(t, db, "former", domain.Compensation{}, false)

	var stored domain.Employee
	if err := db.Where("login = ?", "former").First(&stored).Error; err != nil {
		t.Fatalf("failed to reload employee: %v", err)
	}
	if stored.IsActive {
		t.Error("expected employee to stay inactive after create")
	}
}

func TestGetOrCreateByLogin(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	emp := &domain.Employee{
		Login:    "ivanov",
		FullName: "Иванов Иван",
		HireDate: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		IsActive: true,
	}
	created, err := repo.GetOrCreateByLogin(ctx, emp)
	if err != nil {
		t.Fatalf("GetOrCreateByLogin failed: %v", err)
	}
	if !created || emp.ID == 0 {
		t.Errorf("expected new employee to be created, created=%v id=%d", created, emp.ID)
	}

	// Повторный вызов возвращает существующую запись, а не создаёт новую
	again := &domain.Employee{Login: "ivanov", FullName: "Другое Имя", HireDate: emp.HireDate}
	created, err = repo.GetOrCreateByLogin(ctx, again)
	if err != nil {
		t.Fatalf("GetOrCreateByLogin failed: %v", err)
	}
	if created {
		t.Error("expected existing employee to be found")
	}
	if again.ID != emp.ID || again.FullName != "Иванов Иван" {
		t.Errorf("expected existing record to be loaded, got %+v", again)
	}
}

func TestList_Filters(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	dept := &domain.Department{Name: "Разработка"}
	if err := db.Create(dept).Error; err != nil {
		t.Fatalf("failed to seed department: %v", err)
	}

	active := seedEmployee(t, db, "active", domain.Compensation{}, true)
	active.DepartmentID = &dept.ID
	if err := db.Save(active).Error; err != nil {
		t.Fatalf("failed to place employee: %v", err)
	}
	seedEmployee(t, db, "inactive", domain.Compensation{}, false)

	isActive := true
	list, err := repo.List(ctx, repository.EmployeeFilter{IsActive: &isActive})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].Login != "active" {
		t.Errorf("expected only active employee, got %+v", list)
	}

	list, err = repo.List(ctx, repository.EmployeeFilter{DepartmentID: &dept.ID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].Login != "active" {
		t.Errorf("expected only placed employee, got %+v", list)
	}
}

func TestDelete_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewEmployeeRepository(db)

	if err := repo.Delete(context.Background(), 42); err != domain.ErrEmployeeNotFound {
		t.Errorf("expected ErrEmployeeNotFound, got %v", err)
	}
}
