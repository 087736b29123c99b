package service

import (
	"context"
	"strings"

	"github.com/fot-analytics-api/internal/domain"
	"github.com/fot-analytics-api/internal/repository"
)

// DirectoryService определяет бизнес-логику оргструктуры
type DirectoryService interface {
	GetOrCreateDepartment(ctx context.Context, name string) (*domain.Department, bool, error)
	GetDepartment(ctx context.Context, id int64) (*domain.Department, error)
	DeleteDepartment(ctx context.Context, id int64) error
	AssignDepartmentManager(ctx context.Context, departmentID, employeeID int64) error
	AssignDivisionManager(ctx context.Context, divisionID, employeeID int64) error
	AssignGroupManager(ctx context.Context, groupID, employeeID int64) error
}

type directoryService struct {
	deptRepo repository.DepartmentRepository
	divRepo  repository.DivisionRepository
	grpRepo  repository.GroupRepository
	empRepo  repository.EmployeeRepository
}

// NewDirectoryService создаёт новый экземпляр сервиса
func NewDirectoryService(
	deptRepo repository.DepartmentRepository,
	divRepo repository.DivisionRepository,
	grpRepo repository.GroupRepository,
	empRepo repository.EmployeeRepository,
) DirectoryService {
	return &directoryService{
		deptRepo: deptRepo,
		divRepo:  divRepo,
		grpRepo:  grpRepo,
		empRepo:  empRepo,
	}
}

func (s *directoryService) GetOrCreateDepartment(ctx context.Context, name string) (*domain.Department, bool, error) {
	return s.deptRepo.GetOrCreateByName(ctx, strings.TrimSpace(name))
}

func (s *directoryService) GetDepartment(ctx context.Context, id int64) (*domain.Department, error) {
	return s.deptRepo.GetByID(ctx, id)
}

// DeleteDepartment удаляет департамент вместе с отделами и группами
func (s *directoryService) DeleteDepartment(ctx context.Context, id int64) error {
	return s.deptRepo.Delete(ctx, id)
}

// AssignDepartmentManager назначает руководителя департамента.
// Принадлежность руководителя подразделению не проверяется:
// руководителем может быть назначен любой сотрудник.
func (s *directoryService) AssignDepartmentManager(ctx context.Context, departmentID, employeeID int64) error {
	dept, err := s.deptRepo.GetByID(ctx, departmentID)
	if err != nil {
		return err
	}
	emp, err := s.empRepo.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}

	dept.ManagerID = &emp.ID
	return s.deptRepo.Update(ctx, dept)
}

func (s *directoryService) AssignDivisionManager(ctx context.Context, divisionID, employeeID int64) error {
	div, err := s.divRepo.GetByID(ctx, divisionID)
	if err != nil {
		return err
	}
	emp, err := s.empRepo.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}

	div.ManagerID = &emp.ID
	return s.divRepo.Update(ctx, div)
}

func (s *directoryService) AssignGroupManager(ctx context.Context, groupID, employeeID int64) error {
	group, err := s.grpRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	emp, err := s.empRepo.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}

	group.ManagerID = &emp.ID
	return s.grpRepo.Update(ctx, group)
}
