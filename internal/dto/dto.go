package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompensationInput - четыре компонента вознаграждения в запросе
type CompensationInput struct {
	Salary         decimal.Decimal `json:"salary" validate:"gte=0"`
	QuarterlyBonus decimal.Decimal `json:"quarterly_bonus" validate:"gte=0"`
	MonthlyBonus   decimal.Decimal `json:"monthly_bonus" validate:"gte=0"`
	YearlyBonus    decimal.Decimal `json:"yearly_bonus" validate:"gte=0"`
}

// AppendHistoryRequest - запрос на добавление записи истории.
// Значения diff клиентом не передаются и в любом случае игнорируются.
type AppendHistoryRequest struct {
	EmployeeID int64             `json:"employee_id" validate:"required,min=1"`
	ChangeDate string            `json:"change_date" validate:"required,datetime=2006-01-02"`
	Before     CompensationInput `json:"before"`
	After      CompensationInput `json:"after"`
	Comment    *string           `json:"comment" validate:"omitempty,max=2000"`
}

// HistoryEntryResponse - ответ с записью истории
type HistoryEntryResponse struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employee_id"`
	ChangeDate string `json:"change_date"`

	SalaryBefore decimal.Decimal `json:"salary_before"`
	SalaryAfter  decimal.Decimal `json:"salary_after"`
	SalaryDiff   decimal.Decimal `json:"salary_diff"`

	QuarterlyBonusBefore decimal.Decimal `json:"quarterly_bonus_before"`
	QuarterlyBonusAfter  decimal.Decimal `json:"quarterly_bonus_after"`
	QuarterlyBonusDiff   decimal.Decimal `json:"quarterly_bonus_diff"`

	MonthlyBonusBefore decimal.Decimal `json:"monthly_bonus_before"`
	MonthlyBonusAfter  decimal.Decimal `json:"monthly_bonus_after"`
	MonthlyBonusDiff   decimal.Decimal `json:"monthly_bonus_diff"`

	YearlyBonusBefore decimal.Decimal `json:"yearly_bonus_before"`
	YearlyBonusAfter  decimal.Decimal `json:"yearly_bonus_after"`
	YearlyBonusDiff   decimal.Decimal `json:"yearly_bonus_diff"`

	TotalIncomeBefore decimal.Decimal `json:"total_income_before"`
	TotalIncomeAfter  decimal.Decimal `json:"total_income_after"`
	TotalIncomeDiff   decimal.Decimal `json:"total_income_diff"`

	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LoadResult - итог загрузки одного листа табличных данных
type LoadResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

// ReportFilters - фильтры отчётов
type ReportFilters struct {
	DepartmentID *int64  `json:"department"`
	DivisionID   *int64  `json:"division"`
	GroupID      *int64  `json:"group"`
	DateFrom     *string `json:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo       *string `json:"date_to" validate:"omitempty,datetime=2006-01-02"`
}

// CustomReportRequest - запрос произвольного отчёта
type CustomReportRequest struct {
	Filters ReportFilters `json:"filters"`
	GroupBy []string      `json:"group_by"`
	Metrics []string      `json:"metrics"`
}

// CustomReportResponse - ответ произвольного отчёта
type CustomReportResponse struct {
	Filters ReportFilters    `json:"filters"`
	GroupBy []string         `json:"group_by"`
	Metrics []string         `json:"metrics"`
	Data    []map[string]any `json:"data"`
}

// DepartmentDeltaResponse - отчёт о дельте департамента между годами
type DepartmentDeltaResponse struct {
	Department      string          `json:"department"`
	YearFrom        int             `json:"year_from"`
	YearTo          int             `json:"year_to"`
	TotalIncomeFrom decimal.Decimal `json:"total_income_from"`
	TotalIncomeTo   decimal.Decimal `json:"total_income_to"`
	DeltaTotal      decimal.Decimal `json:"delta_total"`
	DeltaPercent    decimal.Decimal `json:"delta_percent"`
	AvgIncomeFrom   decimal.Decimal `json:"avg_income_from"`
	AvgIncomeTo     decimal.Decimal `json:"avg_income_to"`
	DeltaAvg        decimal.Decimal `json:"delta_avg"`
	EmployeesCount  int64           `json:"employees_count"`
}

// HistoryPeriodRow - агрегаты истории за (год, квартал)
type HistoryPeriodRow struct {
	Year                int             `json:"year"`
	Quarter             int             `json:"quarter"`
	TotalChanges        int64           `json:"total_changes"`
	TotalSalaryIncrease decimal.Decimal `json:"total_salary_increase"`
	TotalIncomeIncrease decimal.Decimal `json:"total_income_increase"`
	AvgSalaryIncrease   decimal.Decimal `json:"avg_salary_increase"`
	AvgIncomeIncrease   decimal.Decimal `json:"avg_income_increase"`
}

// Period - границы периода отчёта
type Period struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

// SalaryHistoryReportResponse - отчёт по истории изменений
type SalaryHistoryReportResponse struct {
	Period Period             `json:"period"`
	Data   []HistoryPeriodRow `json:"data"`
}

// IncomeSummary - агрегаты текущего дохода
type IncomeSummary struct {
	Total decimal.Decimal `json:"total"`
	Avg   decimal.Decimal `json:"avg"`
	Count int64           `json:"count"`
}

// DepartmentFOT - ФОТ одного департамента
type DepartmentFOT struct {
	Department string          `json:"department"`
	Total      decimal.Decimal `json:"total"`
	Avg        decimal.Decimal `json:"avg"`
	Count      int64           `json:"count"`
}

// PeriodChanges - агрегаты изменений дохода за период.
// Это дельты период-к-периоду, к текущему ФОТ они не прибавляются.
type PeriodChanges struct {
	TotalIncrease decimal.Decimal `json:"total_increase"`
	AvgIncrease   decimal.Decimal `json:"avg_increase"`
	ChangesCount  int64           `json:"changes_count"`
}

// FOTSummaryResponse - сводный отчёт по ФОТ
type FOTSummaryResponse struct {
	CurrentFOT      IncomeSummary   `json:"current_fot"`
	FOTByDepartment []DepartmentFOT `json:"fot_by_department"`
	PeriodChanges   *PeriodChanges  `json:"period_changes"`
	Period          Period          `json:"period"`
}

// CreateIssuesRequest - запрос на создание задач в трекере по строкам импорта
type CreateIssuesRequest struct {
	RowIDs              []int64 `json:"row_ids" validate:"required,min=1,dive,min=1"`
	ProjectKey          *string `json:"project_key" validate:"omitempty,min=1,max=50"`
	IssueType           string  `json:"issue_type" validate:"omitempty,max=50"`
	SummaryTemplate     *string `json:"summary_template"`
	DescriptionTemplate *string `json:"description_template"`
}

// IssueResult - итог создания одной задачи
type IssueResult struct {
	RowID   int64  `json:"row_id"`
	JiraKey string `json:"jira_key,omitempty"`
	JiraURL string `json:"jira_url,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CreateIssuesResponse - итог пакетного создания задач
type CreateIssuesResponse struct {
	Created []IssueResult `json:"created"`
	Skipped []IssueResult `json:"skipped"`
	Errors  []IssueResult `json:"errors"`
}

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// CreateDepartmentRequest - запрос на создание департамента
type CreateDepartmentRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// DepartmentResponse - ответ с данными департамента
type DepartmentResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ManagerID *int64 `json:"manager_id"`
	Created   bool   `json:"created"`
}

// AssignManagerRequest - запрос на назначение руководителя подразделения
type AssignManagerRequest struct {
	EmployeeID int64 `json:"employee_id" validate:"required,gt=0"`
}

// CreateEmployeeRequest - запрос на создание сотрудника
type CreateEmployeeRequest struct {
	Login        string            `json:"login" validate:"required,min=1,max=100"`
	FullName     string            `json:"full_name" validate:"required,min=1,max=200"`
	Position     *string           `json:"position"`
	HireDate     string            `json:"hire_date" validate:"required"`
	DepartmentID *int64            `json:"department_id"`
	DivisionID   *int64            `json:"division_id"`
	GroupID      *int64            `json:"group_id"`
	Compensation CompensationInput `json:"compensation"`
}

// UpdateCompensationRequest - запрос на изменение вознаграждения сотрудника.
// Разница со старыми значениями фиксируется в истории.
type UpdateCompensationRequest struct {
	Compensation CompensationInput `json:"compensation" validate:"required"`
	ChangeDate   string            `json:"change_date" validate:"required"`
	Comment      *string           `json:"comment"`
}
