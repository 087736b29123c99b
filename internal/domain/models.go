package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Department представляет департамент — верхний уровень оргструктуры
type Department struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(200);not null;uniqueIndex"`
	ManagerID *int64    `json:"manager_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Manager   *Employee  `json:"-" gorm:"foreignKey:ManagerID;constraint:OnDelete:SET NULL"`
	Divisions []Division `json:"divisions,omitempty" gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE"`
}

// TableName задаёт имя таблицы для GORM
func (Department) TableName() string {
	return "departments"
}

// Division представляет отдел внутри департамента
type Division struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	DepartmentID int64     `json:"department_id" gorm:"not null;uniqueIndex:idx_divisions_dept_name,priority:1"`
	Name         string    `json:"name" gorm:"type:varchar(200);not null;uniqueIndex:idx_divisions_dept_name,priority:2"`
	ManagerID    *int64    `json:"manager_id" gorm:"index"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Department *Department `json:"-" gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE"`
	Manager    *Employee   `json:"-" gorm:"foreignKey:ManagerID;constraint:OnDelete:SET NULL"`
	Groups     []Group     `json:"groups,omitempty" gorm:"foreignKey:DivisionID;constraint:OnDelete:CASCADE"`
}

// TableName задаёт имя таблицы для GORM
func (Division) TableName() string {
	return "divisions"
}

// Group представляет группу внутри отдела
type Group struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	DivisionID int64     `json:"division_id" gorm:"not null;uniqueIndex:idx_groups_div_name,priority:1"`
	Name       string    `json:"name" gorm:"type:varchar(200);not null;uniqueIndex:idx_groups_div_name,priority:2"`
	ManagerID  *int64    `json:"manager_id" gorm:"index"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Division *Division `json:"-" gorm:"foreignKey:DivisionID;constraint:OnDelete:CASCADE"`
	Manager  *Employee `json:"-" gorm:"foreignKey:ManagerID;constraint:OnDelete:SET NULL"`
}

// TableName задаёт имя таблицы для GORM
func (Group) TableName() string {
	return "groups"
}

// Employee представляет сотрудника с текущим снимком вознаграждения
type Employee struct {
	ID                  int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Login               string  `json:"login" gorm:"type:varchar(100);not null;uniqueIndex"`
	FullName            string  `json:"full_name" gorm:"type:varchar(200);not null"`
	Position            *string `json:"position" gorm:"type:varchar(200)"`
	DepartmentID        *int64  `json:"department_id" gorm:"index"`
	DivisionID          *int64  `json:"division_id" gorm:"index"`
	GroupID             *int64  `json:"group_id" gorm:"index"`
	FunctionalManagerID *int64  `json:"functional_manager_id" gorm:"index"`
	LineManagerID       *int64  `json:"line_manager_id" gorm:"index"`

	HireDate time.Time `json:"hire_date" gorm:"type:date;not null"`

	CurrentSalary         decimal.Decimal `json:"current_salary" gorm:"type:decimal(12,2);not null;default:0"`
	CurrentQuarterlyBonus decimal.Decimal `json:"current_quarterly_bonus" gorm:"type:decimal(12,2);not null;default:0"`
	CurrentMonthlyBonus   decimal.Decimal `json:"current_monthly_bonus" gorm:"type:decimal(12,2);not null;default:0"`
	CurrentYearlyBonus    decimal.Decimal `json:"current_yearly_bonus" gorm:"type:decimal(12,2);not null;default:0"`

	// Без тега default: GORM не включает zero-значения таких полей
	// в INSERT, и false при создании терялся бы. Default задаёт миграция.
	IsActive  bool      `json:"is_active" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Department        *Department `json:"-" gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL"`
	Division          *Division   `json:"-" gorm:"foreignKey:DivisionID;constraint:OnDelete:SET NULL"`
	Group             *Group      `json:"-" gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL"`
	FunctionalManager *Employee   `json:"-" gorm:"foreignKey:FunctionalManagerID;constraint:OnDelete:SET NULL"`
	LineManager       *Employee   `json:"-" gorm:"foreignKey:LineManagerID;constraint:OnDelete:SET NULL"`
}

// TableName задаёт имя таблицы для GORM
func (Employee) TableName() string {
	return "employees"
}

// CompensationSnapshot возвращает текущий снимок вознаграждения сотрудника
func (e *Employee) CompensationSnapshot() Compensation {
	return Compensation{
		Salary:         e.CurrentSalary,
		QuarterlyBonus: e.CurrentQuarterlyBonus,
		MonthlyBonus:   e.CurrentMonthlyBonus,
		YearlyBonus:    e.CurrentYearlyBonus,
	}
}

// CurrentIncome возвращает суммарный текущий доход сотрудника
func (e *Employee) CurrentIncome() decimal.Decimal {
	return e.CompensationSnapshot().Income()
}

// SalaryHistory представляет запись истории изменения вознаграждения.
// Запись неизменяема после создания; корректировки делаются новой записью.
type SalaryHistory struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	EmployeeID int64     `json:"employee_id" gorm:"not null;index"`
	ChangeDate time.Time `json:"change_date" gorm:"type:date;not null;index"`

	SalaryBefore decimal.Decimal `json:"salary_before" gorm:"type:decimal(12,2);not null;default:0"`
	SalaryAfter  decimal.Decimal `json:"salary_after" gorm:"type:decimal(12,2);not null;default:0"`
	SalaryDiff   decimal.Decimal `json:"salary_diff" gorm:"type:decimal(12,2);not null;default:0"`

	QuarterlyBonusBefore decimal.Decimal `json:"quarterly_bonus_before" gorm:"type:decimal(12,2);not null;default:0"`
	QuarterlyBonusAfter  decimal.Decimal `json:"quarterly_bonus_after" gorm:"type:decimal(12,2);not null;default:0"`
	QuarterlyBonusDiff   decimal.Decimal `json:"quarterly_bonus_diff" gorm:"type:decimal(12,2);not null;default:0"`

	MonthlyBonusBefore decimal.Decimal `json:"monthly_bonus_before" gorm:"type:decimal(12,2);not null;default:0"`
	MonthlyBonusAfter  decimal.Decimal `json:"monthly_bonus_after" gorm:"type:decimal(12,2);not null;default:0"`
	MonthlyBonusDiff   decimal.Decimal `json:"monthly_bonus_diff" gorm:"type:decimal(12,2);not null;default:0"`

	YearlyBonusBefore decimal.Decimal `json:"yearly_bonus_before" gorm:"type:decimal(12,2);not null;default:0"`
	YearlyBonusAfter  decimal.Decimal `json:"yearly_bonus_after" gorm:"type:decimal(12,2);not null;default:0"`
	YearlyBonusDiff   decimal.Decimal `json:"yearly_bonus_diff" gorm:"type:decimal(12,2);not null;default:0"`

	TotalIncomeBefore decimal.Decimal `json:"total_income_before" gorm:"type:decimal(12,2);not null;default:0"`
	TotalIncomeAfter  decimal.Decimal `json:"total_income_after" gorm:"type:decimal(12,2);not null;default:0"`
	TotalIncomeDiff   decimal.Decimal `json:"total_income_diff" gorm:"type:decimal(12,2);not null;default:0"`

	Comment   *string   `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Employee *Employee `json:"-" gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
}

// TableName задаёт имя таблицы для GORM
func (SalaryHistory) TableName() string {
	return "salary_history"
}

// RecalculateDerived пересчитывает производные поля записи из before/after.
// Вызывается перед каждой записью: значения diff от клиента не принимаются.
func (h *SalaryHistory) RecalculateDerived() {
	h.SalaryDiff = h.SalaryAfter.Sub(h.SalaryBefore)
	h.QuarterlyBonusDiff = h.QuarterlyBonusAfter.Sub(h.QuarterlyBonusBefore)
	h.MonthlyBonusDiff = h.MonthlyBonusAfter.Sub(h.MonthlyBonusBefore)
	h.YearlyBonusDiff = h.YearlyBonusAfter.Sub(h.YearlyBonusBefore)

	h.TotalIncomeBefore = Compensation{
		Salary:         h.SalaryBefore,
		QuarterlyBonus: h.QuarterlyBonusBefore,
		MonthlyBonus:   h.MonthlyBonusBefore,
		YearlyBonus:    h.YearlyBonusBefore,
	}.Income()
	h.TotalIncomeAfter = Compensation{
		Salary:         h.SalaryAfter,
		QuarterlyBonus: h.QuarterlyBonusAfter,
		MonthlyBonus:   h.MonthlyBonusAfter,
		YearlyBonus:    h.YearlyBonusAfter,
	}.Income()
	h.TotalIncomeDiff = h.TotalIncomeAfter.Sub(h.TotalIncomeBefore)
}

// ImportStatus - статус обработки загруженного файла
type ImportStatus string

const (
	ImportStatusPending    ImportStatus = "pending"
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
)

// ImportFile представляет загруженный табличный файл
type ImportFile struct {
	ID            uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	FileName      string       `json:"file_name" gorm:"type:varchar(255);not null"`
	Status        ImportStatus `json:"status" gorm:"type:varchar(20);not null;default:pending"`
	TotalRows     int          `json:"total_rows" gorm:"not null;default:0"`
	ProcessedRows int          `json:"processed_rows" gorm:"not null;default:0"`
	ErrorMessage  *string      `json:"error_message" gorm:"type:text"`
	UploadedAt    time.Time    `json:"uploaded_at" gorm:"autoCreateTime"`

	Rows           []ImportRow           `json:"-" gorm:"foreignKey:ImportFileID;constraint:OnDelete:CASCADE"`
	ColumnMappings []ImportColumnMapping `json:"-" gorm:"foreignKey:ImportFileID;constraint:OnDelete:CASCADE"`
}

// TableName задаёт имя таблицы для GORM
func (ImportFile) TableName() string {
	return "import_files"
}

// ImportRow представляет одну строку загруженного файла
type ImportRow struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ImportFileID uuid.UUID `json:"import_file_id" gorm:"type:uuid;not null;index:idx_import_rows_file_row,priority:1"`
	RowNumber    int       `json:"row_number" gorm:"not null;index:idx_import_rows_file_row,priority:2"`
	Data         RowData   `json:"data" gorm:"type:text;not null"`

	JiraKey       *string    `json:"jira_key" gorm:"type:varchar(50);index"`
	JiraURL       *string    `json:"jira_url" gorm:"type:varchar(500)"`
	JiraCreatedAt *time.Time `json:"jira_created_at"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	ImportFile *ImportFile `json:"-" gorm:"foreignKey:ImportFileID;constraint:OnDelete:CASCADE"`
}

// TableName задаёт имя таблицы для GORM
func (ImportRow) TableName() string {
	return "import_rows"
}

// ImportColumnMapping представляет соответствие колонки файла полю БД
type ImportColumnMapping struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ImportFileID uuid.UUID `json:"import_file_id" gorm:"type:uuid;not null;index"`
	SourceColumn string    `json:"source_column" gorm:"type:varchar(255);not null"`
	Field        string    `json:"field" gorm:"type:varchar(255);not null"`
	Position     int       `json:"position" gorm:"not null"`

	ImportFile *ImportFile `json:"-" gorm:"foreignKey:ImportFileID;constraint:OnDelete:CASCADE"`
}

// TableName задаёт имя таблицы для GORM
func (ImportColumnMapping) TableName() string {
	return "import_column_mappings"
}
