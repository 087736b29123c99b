package repository

import (
	"context"

	"github.com/fot-analytics-api/internal/domain"
	"gorm.io/gorm"
)

// DepartmentRepository определяет интерфейс для работы с департаментами
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	GetByID(ctx context.Context, id int64) (*domain.Department, error)
	GetByName(ctx context.Context, name string) (*domain.Department, error)
	GetOrCreateByName(ctx context.Context, name string) (dept *domain.Department, created bool, err error)
	Update(ctx context.Context, dept *domain.Department) error
	Delete(ctx context.Context, id int64) error
}

// DivisionRepository определяет интерфейс для работы с отделами
type DivisionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Division, error)
	GetByName(ctx context.Context, name string) (*domain.Division, error)
	GetOrCreate(ctx context.Context, departmentID int64, name string) (div *domain.Division, created bool, err error)
	Update(ctx context.Context, div *domain.Division) error
}

// GroupRepository определяет интерфейс для работы с группами
type GroupRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Group, error)
	GetByName(ctx context.Context, name string) (*domain.Group, error)
	GetOrCreate(ctx context.Context, divisionID int64, name string) (group *domain.Group, created bool, err error)
	Update(ctx context.Context, group *domain.Group) error
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository создаёт новый экземпляр репозитория
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

func (r *departmentRepository) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	var dept domain.Department
	err := r.db.WithContext(ctx).First(&dept, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrDepartmentNotFound
		}
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) GetByName(ctx context.Context, name string) (*domain.Department, error) {
	var dept domain.Department
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&dept).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrDepartmentNotFound
		}
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) GetOrCreateByName(ctx context.Context, name string) (*domain.Department, bool, error) {
	dept, err := r.GetByName(ctx, name)
	if err == nil {
		return dept, false, nil
	}
	if err != domain.ErrDepartmentNotFound {
		return nil, false, err
	}

	dept = &domain.Department{Name: name}
	if err := r.db.WithContext(ctx).Create(dept).Error; err != nil {
		return nil, false, err
	}
	return dept, true, nil
}

func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	return r.db.WithContext(ctx).Save(dept).Error
}

// Delete удаляет департамент; отделы и группы удаляются каскадно по FK
func (r *departmentRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&domain.Department{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrDepartmentNotFound
	}
	return nil
}

type divisionRepository struct {
	db *gorm.DB
}

// NewDivisionRepository создаёт новый экземпляр репозитория
func NewDivisionRepository(db *gorm.DB) DivisionRepository {
	return &divisionRepository{db: db}
}

func (r *divisionRepository) GetByID(ctx context.Context, id int64) (*domain.Division, error) {
	var div domain.Division
	err := r.db.WithContext(ctx).First(&div, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrDivisionNotFound
		}
		return nil, err
	}
	return &div, nil
}

// GetByName ищет отдел по имени без привязки к департаменту:
// так разрешаются ссылки из табличных данных, где родитель не указан
func (r *divisionRepository) GetByName(ctx context.Context, name string) (*domain.Division, error) {
	var div domain.Division
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&div).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrDivisionNotFound
		}
		return nil, err
	}
	return &div, nil
}

func (r *divisionRepository) GetOrCreate(ctx context.Context, departmentID int64, name string) (*domain.Division, bool, error) {
	var div domain.Division
	err := r.db.WithContext(ctx).
		Where("department_id = ? AND name = ?", departmentID, name).
		First(&div).Error
	if err == nil {
		return &div, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	div = domain.Division{DepartmentID: departmentID, Name: name}
	if err := r.db.WithContext(ctx).Create(&div).Error; err != nil {
		return nil, false, err
	}
	return &div, true, nil
}

func (r *divisionRepository) Update(ctx context.Context, div *domain.Division) error {
	return r.db.WithContext(ctx).Save(div).Error
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository создаёт новый экземпляр репозитория
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	var group domain.Group
	err := r.db.WithContext(ctx).First(&group, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	var group domain.Group
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&group).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) GetOrCreate(ctx context.Context, divisionID int64, name string) (*domain.Group, bool, error) {
	var group domain.Group
	err := r.db.WithContext(ctx).
		Where("division_id = ? AND name = ?", divisionID, name).
		First(&group).Error
	if err == nil {
		return &group, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	group = domain.Group{DivisionID: divisionID, Name: name}
	if err := r.db.WithContext(ctx).Create(&group).Error; err != nil {
		return nil, false, err
	}
	return &group, true, nil
}

func (r *groupRepository) Update(ctx context.Context, group *domain.Group) error {
	return r.db.WithContext(ctx).Save(group).Error
}
