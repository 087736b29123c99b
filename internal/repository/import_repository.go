package repository

import (
	"context"

	"github.com/fot-analytics-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportRepository определяет интерфейс для работы с загруженными файлами
type ImportRepository interface {
	CreateFile(ctx context.Context, file *domain.ImportFile) error
	GetFileByID(ctx context.Context, id uuid.UUID) (*domain.ImportFile, error)
	UpdateFile(ctx context.Context, file *domain.ImportFile) error
	CreateRow(ctx context.Context, row *domain.ImportRow) error
	UpdateRow(ctx context.Context, row *domain.ImportRow) error
	ListRowsByFile(ctx context.Context, fileID uuid.UUID) ([]domain.ImportRow, error)
	ListRowsByIDs(ctx context.Context, ids []int64) ([]domain.ImportRow, error)
	CreateColumnMapping(ctx context.Context, mapping *domain.ImportColumnMapping) error
}

type importRepository struct {
	db *gorm.DB
}

// NewImportRepository создаёт новый экземпляр репозитория
func NewImportRepository(db *gorm.DB) ImportRepository {
	return &importRepository{db: db}
}

func (r *importRepository) CreateFile(ctx context.Context, file *domain.ImportFile) error {
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *importRepository) GetFileByID(ctx context.Context, id uuid.UUID) (*domain.ImportFile, error) {
	var file domain.ImportFile
	err := r.db.WithContext(ctx).
		Preload("ColumnMappings", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).First(&file).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrImportFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (r *importRepository) UpdateFile(ctx context.Context, file *domain.ImportFile) error {
	return r.db.WithContext(ctx).Save(file).Error
}

func (r *importRepository) CreateRow(ctx context.Context, row *domain.ImportRow) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *importRepository) UpdateRow(ctx context.Context, row *domain.ImportRow) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *importRepository) ListRowsByFile(ctx context.Context, fileID uuid.UUID) ([]domain.ImportRow, error) {
	var rows []domain.ImportRow
	err := r.db.WithContext(ctx).
		Where("import_file_id = ?", fileID).
		Order("row_number ASC").
		Find(&rows).Error
	return rows, err
}

func (r *importRepository) ListRowsByIDs(ctx context.Context, ids []int64) ([]domain.ImportRow, error) {
	var rows []domain.ImportRow
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("row_number ASC").
		Find(&rows).Error
	return rows, err
}

func (r *importRepository) CreateColumnMapping(ctx context.Context, mapping *domain.ImportColumnMapping) error {
	return r.db.WithContext(ctx).Create(mapping).Error
}
