package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/fot-analytics-api/internal/domain"
	"github.com/fot-analytics-api/internal/dto"
	"github.com/fot-analytics-api/internal/repository"
	"github.com/fot-analytics-api/internal/tracker"
	"github.com/google/uuid"
)

// Ограничение Jira на длину заголовка задачи
const maxSummaryLength = 255

// TrackerService определяет бизнес-логику создания задач трекера
// по строкам импорта
type TrackerService interface {
	CreateIssuesForRows(ctx context.Context, req *dto.CreateIssuesRequest, defaultProjectKey string) (*dto.CreateIssuesResponse, error)
}

type trackerService struct {
	importRepo repository.ImportRepository
	client     tracker.Client
	logger     *slog.Logger
}

// NewTrackerService создаёт новый экземпляр сервиса
func NewTrackerService(importRepo repository.ImportRepository, client tracker.Client, logger *slog.Logger) TrackerService {
	return &trackerService{
		importRepo: importRepo,
		client:     client,
		logger:     logger,
	}
}

// CreateIssuesForRows создаёт задачи для выбранных строк. Строки с уже
// назначенным ключом пропускаются; ошибка одной строки не прерывает
// обработку остальных.
func (s *trackerService) CreateIssuesForRows(ctx context.Context, req *dto.CreateIssuesRequest, defaultProjectKey string) (*dto.CreateIssuesResponse, error) {
	rows, err := s.importRepo.ListRowsByIDs(ctx, req.RowIDs)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrImportRowNotFound
	}

	projectKey := defaultProjectKey
	if req.ProjectKey != nil {
		projectKey = *req.ProjectKey
	}
	kind := req.IssueType
	if kind == "" {
		kind = "Task"
	}

	result := &dto.CreateIssuesResponse{
		Created: []dto.IssueResult{},
		Skipped: []dto.IssueResult{},
		Errors:  []dto.IssueResult{},
	}

	columnOrder := map[uuid.UUID][]string{}

	for i := range rows {
		row := &rows[i]

		if row.JiraKey != nil && *row.JiraKey != "" {
			result.Skipped = append(result.Skipped, dto.IssueResult{
				RowID:   row.ID,
				JiraKey: *row.JiraKey,
				Reason:  "already has jira key",
			})
			continue
		}

		order, ok := columnOrder[row.ImportFileID]
		if !ok {
			order = s.fileColumnOrder(ctx, row.ImportFileID)
			columnOrder[row.ImportFileID] = order
		}

		summary := renderSummary(row, order, req.SummaryTemplate)
		description := renderDescription(row, order, req.DescriptionTemplate)

		issue, err := s.client.CreateIssue(ctx, projectKey, kind, summary, description)
		if err != nil {
			result.Errors = append(result.Errors, dto.IssueResult{
				RowID: row.ID,
				Error: err.Error(),
			})
			s.logger.Error("failed to create jira issue",
				slog.Int64("row_id", row.ID),
				slog.Any("error", err),
			)
			continue
		}

		now := time.Now()
		row.JiraKey = &issue.Key
		row.JiraURL = &issue.URL
		row.JiraCreatedAt = &now
		if err := s.importRepo.UpdateRow(ctx, row); err != nil {
			return nil, err
		}

		result.Created = append(result.Created, dto.IssueResult{
			RowID:   row.ID,
			JiraKey: issue.Key,
			JiraURL: issue.URL,
		})
		s.logger.Info("created jira issue",
			slog.String("key", issue.Key),
			slog.Int64("row_id", row.ID),
		)
	}

	return result, nil
}

// fileColumnOrder восстанавливает исходный порядок колонок файла
// по сохранённому маппингу
func (s *trackerService) fileColumnOrder(ctx context.Context, fileID uuid.UUID) []string {
	file, err := s.importRepo.GetFileByID(ctx, fileID)
	if err != nil {
		return nil
	}

	mappings := file.ColumnMappings
	if len(mappings) == 0 {
		return nil
	}
	sort.Slice(mappings, func(i, j int) bool { return mappings[i].Position < mappings[j].Position })

	order := make([]string, 0, len(mappings))
	for _, m := range mappings {
		order = append(order, m.SourceColumn)
	}
	return order
}

// renderSummary строит заголовок задачи: по шаблону либо из первых трёх
// непустых полей строки
func renderSummary(row *domain.ImportRow, columnOrder []string, template *string) string {
	if template != nil && *template != "" {
		return truncate(renderTemplate(*template, row.Data), maxSummaryLength)
	}

	parts := []string{}
	for _, col := range orderedColumns(row.Data, columnOrder) {
		if len(parts) == 3 {
			break
		}
		if v := row.Data[col]; v != nil {
			parts = append(parts, fmt.Sprintf("%s: %v", col, v))
		}
	}

	summary := strings.Join(parts, " | ")
	if summary == "" {
		summary = fmt.Sprintf("Задача из файла (строка %d)", row.RowNumber)
	}
	return truncate(summary, maxSummaryLength)
}

// renderDescription строит описание задачи: по шаблону либо списком
// всех непустых полей строки
func renderDescription(row *domain.ImportRow, columnOrder []string, template *string) string {
	if template != nil && *template != "" {
		return renderTemplate(*template, row.Data)
	}

	lines := []string{"Данные из файла:"}
	for _, col := range orderedColumns(row.Data, columnOrder) {
		if v := row.Data[col]; v != nil {
			lines = append(lines, fmt.Sprintf("*%s*: %v", col, v))
		}
	}
	return strings.Join(lines, "\n")
}

// renderTemplate подставляет значения полей вместо плейсхолдеров {поле}
func renderTemplate(template string, data domain.RowData) string {
	out := template
	for key, value := range data {
		placeholder := "{" + key + "}"
		if value == nil {
			out = strings.ReplaceAll(out, placeholder, "")
			continue
		}
		out = strings.ReplaceAll(out, placeholder, fmt.Sprintf("%v", value))
	}
	return out
}

// orderedColumns возвращает колонки строки в порядке файла; колонки без
// маппинга добавляются в конец по алфавиту для детерминизма
func orderedColumns(data domain.RowData, columnOrder []string) []string {
	seen := make(map[string]bool, len(columnOrder))
	out := make([]string, 0, len(data))

	for _, col := range columnOrder {
		if _, ok := data[col]; ok {
			seen[col] = true
			out = append(out, col)
		}
	}

	rest := make([]string, 0, len(data))
	for col := range data {
		if !seen[col] {
			rest = append(rest, col)
		}
	}
	sort.Strings(rest)

	return append(out, rest...)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
