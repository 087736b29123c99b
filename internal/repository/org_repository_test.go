package repository_test

import (
	"context"
	"testing"

	"github.com/fot-analytics-api/internal/domain"
	"github.com/fot-analytics-api/internal/repository"
)

func TestGetOrCreateByName_Idempotent(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewDepartmentRepository(db)
	ctx := context.Background()

	dept, created, err := repo.GetOrCreateByName(ctx, "Разработка")
	if err != nil {
		t.Fatalf("GetOrCreateByName failed: %v", err)
	}
	if !created || dept.ID == 0 {
		t.Errorf("expected department to be created, created=%v id=%d", created, dept.ID)
	}

	same, created, err := repo.GetOrCreateByName(ctx, "Разработка")
	if err != nil {
		t.Fatalf("GetOrCreateByName failed: %v", err)
	}
	if created || same.ID != dept.ID {
		t.Errorf("expected existing department, created=%v id=%d", created, same.ID)
	}
}

func TestDivisionGetOrCreate_SameNameDifferentParents(t *testing.T) {
	db := newTestDB(t)
	deptRepo := repository.NewDepartmentRepository(db)
	divRepo := repository.NewDivisionRepository(db)
	ctx := context.Background()

	dev, _, err := deptRepo.GetOrCreateByName(ctx, "Разработка")
	if err != nil {
		t.Fatalf("failed to create department: %v", err)
	}
	sales, _, err := deptRepo.GetOrCreateByName(ctx, "Продажи")
	if err != nil {
		t.Fatalf("failed to create department: %v", err)
	}

	// Одно имя отдела допустимо в разных департаментах
	first, created, err := divRepo.GetOrCreate(ctx, dev.ID, "Аналитика")
	if err != nil || !created {
		t.Fatalf("expected first division created, err=%v created=%v", err, created)
	}
	second, created, err := divRepo.GetOrCreate(ctx, sales.ID, "Аналитика")
	if err != nil || !created {
		t.Fatalf("expected second division created, err=%v created=%v", err, created)
	}
	if first.ID == second.ID {
		t.Error("expected distinct divisions under different departments")
	}

	// Повтор в том же департаменте возвращает существующий отдел
	again, created, err := divRepo.GetOrCreate(ctx, dev.ID, "Аналитика")
	if err != nil || created || again.ID != first.ID {
		t.Errorf("expected existing division, err=%v created=%v id=%d", err, created, again.ID)
	}
}

func TestDepartmentDelete_CascadesStructure(t *testing.T) {
	db := newTestDB(t)
	deptRepo := repository.NewDepartmentRepository(db)
	divRepo := repository.NewDivisionRepository(db)
	grpRepo := repository.NewGroupRepository(db)
	ctx := context.Background()

	dept, _, err := deptRepo.GetOrCreateByName(ctx, "Разработка")
	if err != nil {
		t.Fatalf("failed to create department: %v", err)
	}
	div, _, err := divRepo.GetOrCreate(ctx, dept.ID, "Бэкенд")
	if err != nil {
		t.Fatalf("failed to create division: %v", err)
	}
	if _, _, err := grpRepo.GetOrCreate(ctx, div.ID, "Платежи"); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	emp := seedEmployee(t, db, "ivanov", domain.Compensation{}, true)
	emp.DepartmentID = &dept.ID
	if err := db.Save(emp).Error; err != nil {
		t.Fatalf("failed to place employee: %v", err)
	}

	if err := deptRepo.Delete(ctx, dept.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// Отделы и группы удаляются каскадно
	var divisions, groups int64
	db.Model(&domain.Division{}).Count(&divisions)
	db.Model(&domain.Group{}).Count(&groups)
	if divisions != 0 || groups != 0 {
		t.Errorf("expected cascade delete, got %d divisions, %d groups", divisions, groups)
	}

	// Сотрудник остаётся, но теряет привязку к департаменту
	var reloaded domain.Employee
	if err := db.First(&reloaded, emp.ID).Error; err != nil {
		t.Fatalf("failed to reload employee: %v", err)
	}
	if reloaded.DepartmentID != nil {
		t.Errorf("expected department reference to be cleared, got %v", *reloaded.DepartmentID)
	}
}

func TestEmployeeDelete_CascadesHistory(t *testing.T) {
	db := newTestDB(t)
	empRepo := repository.NewEmployeeRepository(db)
	historyRepo := repository.NewSalaryHistoryRepository(db)
	ctx := context.Background()

	emp := seedEmployee(t, db, "ivanov", domain.Compensation{Salary: dec("100000")}, true)
	entry := &domain.SalaryHistory{
		EmployeeID:  emp.ID,
		ChangeDate:  emp.HireDate,
		SalaryAfter: dec("100000"),
	}
	entry.RecalculateDerived()
	if err := historyRepo.Create(ctx, entry); err != nil {
		t.Fatalf("failed to create history entry: %v", err)
	}

	if err := empRepo.Delete(ctx, emp.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var count int64
	db.Model(&domain.SalaryHistory{}).Count(&count)
	if count != 0 {
		t.Errorf("expected history to cascade, got %d entries", count)
	}
}

// Удаление сотрудника-руководителя обнуляет ссылку в подразделениях,
// а не блокирует удаление
func TestEmployeeDelete_ClearsManagerReferences(t *testing.T) {
	db := newTestDB(t)
	deptRepo := repository.NewDepartmentRepository(db)
	divRepo := repository.NewDivisionRepository(db)
	grpRepo := repository.NewGroupRepository(db)
	empRepo := repository.NewEmployeeRepository(db)
	ctx := context.Background()

	dept, _, err := deptRepo.GetOrCreateByName(ctx, "Разработка")
	if err != nil {
		t.Fatalf("failed to create department: %v", err)
	}
	div, _, err := divRepo.GetOrCreate(ctx, dept.ID, "Бэкенд")
	if err != nil {
		t.Fatalf("failed to create division: %v", err)
	}
	group, _, err := grpRepo.GetOrCreate(ctx, div.ID, "Платежи")
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	manager := seedEmployee(t, db, "boss", domain.Compensation{}, true)
	dept.ManagerID = &manager.ID
	div.ManagerID = &manager.ID
	group.ManagerID = &manager.ID
	if err := deptRepo.Update(ctx, dept); err != nil {
		t.Fatalf("failed to assign department manager: %v", err)
	}
	if err := divRepo.Update(ctx, div); err != nil {
		t.Fatalf("failed to assign division manager: %v", err)
	}
	if err := grpRepo.Update(ctx, group); err != nil {
		t.Fatalf("failed to assign group manager: %v", err)
	}

	if err := empRepo.Delete(ctx, manager.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	reloadedDept, err := deptRepo.GetByID(ctx, dept.ID)
	if err != nil {
		t.Fatalf("failed to reload department: %v", err)
	}
	if reloadedDept.ManagerID != nil {
		t.Errorf("expected department manager to be cleared, got %v", *reloadedDept.ManagerID)
	}

	reloadedDiv, err := divRepo.GetByID(ctx, div.ID)
	if err != nil {
		t.Fatalf("failed to reload division: %v", err)
	}
	if reloadedDiv.ManagerID != nil {
		t.Errorf("expected division manager to be cleared, got %v", *reloadedDiv.ManagerID)
	}

	reloadedGroup, err := grpRepo.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("failed to reload group: %v", err)
	}
	if reloadedGroup.ManagerID != nil {
		t.Errorf("expected group manager to be cleared, got %v", *reloadedGroup.ManagerID)
	}
}

func TestDepartmentGetByName_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewDepartmentRepository(db)

	if _, err := repo.GetByName(context.Background(), "Неизвестный"); err != domain.ErrDepartmentNotFound {
		t.Errorf("expected ErrDepartmentNotFound, got %v", err)
	}
}
