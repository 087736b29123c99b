package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fot-analytics-api/internal/domain"
	"github.com/fot-analytics-api/internal/repository"
	"github.com/fot-analytics-api/internal/table"
	"github.com/google/uuid"
)

// ImportService определяет бизнес-логику регистрации загруженных файлов
type ImportService interface {
	Register(ctx context.Context, fileName string, rows []*table.Row) (*domain.ImportFile, error)
	GetFile(ctx context.Context, id uuid.UUID) (*domain.ImportFile, error)
	ListRows(ctx context.Context, fileID uuid.UUID) ([]domain.ImportRow, error)
}

type importService struct {
	importRepo repository.ImportRepository
	logger     *slog.Logger
}

// NewImportService создаёт новый экземпляр сервиса
func NewImportService(importRepo repository.ImportRepository, logger *slog.Logger) ImportService {
	return &importService{
		importRepo: importRepo,
		logger:     logger,
	}
}

// Register сохраняет файл, маппинг его колонок и все строки как JSON.
// Номера строк считаются от 2: первая строка файла — заголовок.
func (s *importService) Register(ctx context.Context, fileName string, rows []*table.Row) (*domain.ImportFile, error) {
	file := &domain.ImportFile{
		FileName:  fileName,
		Status:    domain.ImportStatusProcessing,
		TotalRows: len(rows),
	}
	if err := s.importRepo.CreateFile(ctx, file); err != nil {
		return nil, err
	}

	if err := s.storeRows(ctx, file, rows); err != nil {
		msg := err.Error()
		file.Status = domain.ImportStatusFailed
		file.ErrorMessage = &msg
		if saveErr := s.importRepo.UpdateFile(ctx, file); saveErr != nil {
			s.logger.Error("failed to mark import as failed", slog.Any("error", saveErr))
		}
		return nil, err
	}

	file.ProcessedRows = len(rows)
	file.Status = domain.ImportStatusCompleted
	if err := s.importRepo.UpdateFile(ctx, file); err != nil {
		return nil, err
	}

	s.logger.Info("import registered",
		slog.String("file", fileName),
		slog.Int("rows", len(rows)),
	)
	return file, nil
}

func (s *importService) storeRows(ctx context.Context, file *domain.ImportFile, rows []*table.Row) error {
	if len(rows) > 0 {
		for i, col := range rows[0].Columns() {
			mapping := &domain.ImportColumnMapping{
				ImportFileID: file.ID,
				SourceColumn: col,
				Field:        normalizeField(col),
				Position:     i,
			}
			if err := s.importRepo.CreateColumnMapping(ctx, mapping); err != nil {
				return err
			}
		}
	}

	for idx, row := range rows {
		entry := &domain.ImportRow{
			ImportFileID: file.ID,
			RowNumber:    idx + 2,
			Data:         row.Values(),
		}
		if err := s.importRepo.CreateRow(ctx, entry); err != nil {
			return err
		}
	}

	return nil
}

func (s *importService) GetFile(ctx context.Context, id uuid.UUID) (*domain.ImportFile, error) {
	return s.importRepo.GetFileByID(ctx, id)
}

func (s *importService) ListRows(ctx context.Context, fileID uuid.UUID) ([]domain.ImportRow, error) {
	return s.importRepo.ListRowsByFile(ctx, fileID)
}

// normalizeField переводит заголовок колонки в имя поля
func normalizeField(column string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(column)), " ", "_")
}
