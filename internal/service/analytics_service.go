package service

import (
	"context"
	"time"

	"github.com/fot-analytics-api/internal/domain"
	"github.com/fot-analytics-api/internal/dto"
	"github.com/fot-analytics-api/internal/repository"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// AnalyticsService определяет бизнес-логику аналитики ФОТ.
// Все операции только читают реестр и историю.
type AnalyticsService interface {
	DepartmentDelta(ctx context.Context, departmentID int64, yearFrom, yearTo int) (*dto.DepartmentDeltaResponse, error)
	CustomReport(ctx context.Context, req *dto.CustomReportRequest) (*dto.CustomReportResponse, error)
	SalaryHistoryReport(ctx context.Context, filter repository.HistoryFilter) (*dto.SalaryHistoryReportResponse, error)
	FOTSummary(ctx context.Context, from, to *time.Time) (*dto.FOTSummaryResponse, error)
}

type analyticsService struct {
	deptRepo    repository.DepartmentRepository
	empRepo     repository.EmployeeRepository
	historyRepo repository.SalaryHistoryRepository
}

// NewAnalyticsService создаёт новый экземпляр сервиса
func NewAnalyticsService(
	deptRepo repository.DepartmentRepository,
	empRepo repository.EmployeeRepository,
	historyRepo repository.SalaryHistoryRepository,
) AnalyticsService {
	return &analyticsService{
		deptRepo:    deptRepo,
		empRepo:     empRepo,
		historyRepo: historyRepo,
	}
}

// DepartmentDelta считает дельту дохода департамента между двумя годами.
// Сторона "to" берётся из истории за год, а при отсутствии записей —
// из текущего снимка реестра: сотрудник без зафиксированных изменений
// всё равно имеет текущий доход.
func (s *analyticsService) DepartmentDelta(ctx context.Context, departmentID int64, yearFrom, yearTo int) (*dto.DepartmentDeltaResponse, error) {
	dept, err := s.deptRepo.GetByID(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	historyFrom, err := s.historyRepo.AggregateForDepartmentYear(ctx, departmentID, yearFrom)
	if err != nil {
		return nil, err
	}
	historyTo, err := s.historyRepo.AggregateForDepartmentYear(ctx, departmentID, yearTo)
	if err != nil {
		return nil, err
	}

	active := true
	current, err := s.empRepo.AggregateIncome(ctx, repository.EmployeeFilter{
		DepartmentID: &departmentID,
		IsActive:     &active,
	})
	if err != nil {
		return nil, err
	}

	totalFrom := decimalOrZero(historyFrom.Total)
	totalTo := decimalOrZero(historyTo.Total)
	if historyTo.Count == 0 {
		totalTo = decimalOrZero(current.Total)
	}

	avgFrom := decimalOrZero(historyFrom.Avg)
	avgTo := decimalOrZero(historyTo.Avg)
	if historyTo.Count == 0 {
		avgTo = decimalOrZero(current.Avg)
	}

	deltaTotal := totalTo.Sub(totalFrom)
	deltaPercent := decimal.Zero
	if totalFrom.IsPositive() {
		deltaPercent = deltaTotal.Div(totalFrom).Mul(oneHundred).Round(2)
	}

	return &dto.DepartmentDeltaResponse{
		Department:      dept.Name,
		YearFrom:        yearFrom,
		YearTo:          yearTo,
		TotalIncomeFrom: totalFrom,
		TotalIncomeTo:   totalTo,
		DeltaTotal:      deltaTotal,
		DeltaPercent:    deltaPercent,
		AvgIncomeFrom:   avgFrom,
		AvgIncomeTo:     avgTo,
		DeltaAvg:        avgTo.Sub(avgFrom),
		EmployeesCount:  current.Count,
	}, nil
}

// CustomReport строит произвольный отчёт: фильтры, затем группировка по
// выбранным разрезам. Нераспознанные ключи разрезов и метрик молча
// игнорируются; при пустом списке метрик берётся набор по умолчанию.
func (s *analyticsService) CustomReport(ctx context.Context, req *dto.CustomReportRequest) (*dto.CustomReportResponse, error) {
	groupBy := make([]string, 0, len(req.GroupBy))
	for _, dim := range req.GroupBy {
		if repository.KnownReportDimension(dim) {
			groupBy = append(groupBy, dim)
		}
	}

	metrics := make([]string, 0, len(req.Metrics))
	for _, m := range req.Metrics {
		if repository.KnownReportMetric(m) {
			metrics = append(metrics, m)
		}
	}
	if len(metrics) == 0 {
		metrics = []string{"total_income", "count"}
	}

	filter := repository.EmployeeFilter{
		DepartmentID: req.Filters.DepartmentID,
		DivisionID:   req.Filters.DivisionID,
		GroupID:      req.Filters.GroupID,
		HireDateFrom: req.Filters.DateFrom,
		HireDateTo:   req.Filters.DateTo,
	}

	rows, err := s.empRepo.CustomAggregate(ctx, filter, groupBy, metrics)
	if err != nil {
		return nil, err
	}

	data := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		data = append(data, reportRowToMap(row, groupBy, metrics))
	}

	return &dto.CustomReportResponse{
		Filters: req.Filters,
		GroupBy: groupBy,
		Metrics: metrics,
		Data:    data,
	}, nil
}

// SalaryHistoryReport группирует отфильтрованные записи истории по
// (год, квартал) и считает количество, суммы и средние приростов
func (s *analyticsService) SalaryHistoryReport(ctx context.Context, filter repository.HistoryFilter) (*dto.SalaryHistoryReportResponse, error) {
	entries, err := s.historyRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.SalaryHistoryReportResponse{
		Period: dto.Period{
			From: formatDatePtr(filter.DateFrom),
			To:   formatDatePtr(filter.DateTo),
		},
		Data: groupHistoryByPeriod(entries),
	}
	return resp, nil
}

// groupHistoryByPeriod сворачивает записи в строки по (год, квартал)
// в хронологическом порядке. Записи приходят отсортированными по дате.
func groupHistoryByPeriod(entries []domain.SalaryHistory) []dto.HistoryPeriodRow {
	rows := []dto.HistoryPeriodRow{}
	index := map[[2]int]int{}

	for _, e := range entries {
		year := e.ChangeDate.Year()
		quarter := (int(e.ChangeDate.Month())-1)/3 + 1
		key := [2]int{year, quarter}

		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, dto.HistoryPeriodRow{Year: year, Quarter: quarter})
		}

		rows[i].TotalChanges++
		rows[i].TotalSalaryIncrease = rows[i].TotalSalaryIncrease.Add(e.SalaryDiff)
		rows[i].TotalIncomeIncrease = rows[i].TotalIncomeIncrease.Add(e.TotalIncomeDiff)
	}

	for i := range rows {
		count := decimal.NewFromInt(rows[i].TotalChanges)
		rows[i].AvgSalaryIncrease = rows[i].TotalSalaryIncrease.Div(count).Round(2)
		rows[i].AvgIncomeIncrease = rows[i].TotalIncomeIncrease.Div(count).Round(2)
	}

	return rows
}

// FOTSummary возвращает текущий ФОТ по активным сотрудникам, разбивку по
// департаментам и, при заданном периоде, агрегаты изменений за период.
// Изменения за период — дельты, к текущим значениям они не прибавляются.
func (s *analyticsService) FOTSummary(ctx context.Context, from, to *time.Time) (*dto.FOTSummaryResponse, error) {
	active := true
	current, err := s.empRepo.AggregateIncome(ctx, repository.EmployeeFilter{IsActive: &active})
	if err != nil {
		return nil, err
	}

	byDept, err := s.empRepo.AggregateIncomeByDepartment(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.FOTSummaryResponse{
		CurrentFOT: dto.IncomeSummary{
			Total: decimalOrZero(current.Total),
			Avg:   decimalOrZero(current.Avg),
			Count: current.Count,
		},
		FOTByDepartment: make([]dto.DepartmentFOT, 0, len(byDept)),
		Period: dto.Period{
			From: formatDatePtr(from),
			To:   formatDatePtr(to),
		},
	}

	for _, d := range byDept {
		resp.FOTByDepartment = append(resp.FOTByDepartment, dto.DepartmentFOT{
			Department: d.DepartmentName,
			Total:      decimalOrZero(d.Total),
			Avg:        decimalOrZero(d.Avg),
			Count:      d.Count,
		})
	}

	if from != nil && to != nil {
		diffs, err := s.historyRepo.AggregateDiffs(ctx, *from, *to)
		if err != nil {
			return nil, err
		}
		resp.PeriodChanges = &dto.PeriodChanges{
			TotalIncrease: decimalOrZero(diffs.TotalDiff),
			AvgIncrease:   decimalOrZero(diffs.AvgDiff),
			ChangesCount:  diffs.Count,
		}
	}

	return resp, nil
}

func reportRowToMap(row repository.CustomReportRow, groupBy, metrics []string) map[string]any {
	out := make(map[string]any, len(groupBy)+len(metrics))

	for _, dim := range groupBy {
		switch dim {
		case "department":
			out["department"] = stringOrNil(row.DepartmentName)
		case "division":
			out["division"] = stringOrNil(row.DivisionName)
		case "group":
			out["group"] = stringOrNil(row.GroupName)
		}
	}

	for _, m := range metrics {
		switch m {
		case "total_income":
			out["total_income"] = decimalOrZero(row.TotalIncome)
		case "avg_income":
			out["avg_income"] = decimalOrZero(row.AvgIncome)
		case "count":
			out["count"] = row.Count
		case "total_salary":
			out["total_salary"] = decimalOrZero(row.TotalSalary)
		case "avg_salary":
			out["avg_salary"] = decimalOrZero(row.AvgSalary)
		}
	}

	return out
}

func decimalOrZero(d decimal.NullDecimal) decimal.Decimal {
	if d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
