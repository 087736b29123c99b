package table

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CellType - тип значения ячейки
type CellType int

const (
	CellEmpty CellType = iota
	CellString
	CellNumber
	CellDate
)

// Форматы дат, принимаемые при разборе ячеек
var dateLayouts = []string{"2006-01-02", "02.01.2006"}

// Cell - типизированное значение одной ячейки
type Cell struct {
	Type   CellType
	String string
	Number decimal.Decimal
	Date   time.Time
}

// EmptyCell возвращает пустую ячейку
func EmptyCell() Cell {
	return Cell{Type: CellEmpty}
}

// StringCell возвращает строковую ячейку
func StringCell(s string) Cell {
	return Cell{Type: CellString, String: s}
}

// NumberCell возвращает числовую ячейку
func NumberCell(d decimal.Decimal) Cell {
	return Cell{Type: CellNumber, Number: d}
}

// DateCell возвращает ячейку с датой
func DateCell(t time.Time) Cell {
	return Cell{Type: CellDate, Date: t}
}

// Row - упорядоченное отображение колонка → ячейка
type Row struct {
	columns []string
	cells   map[string]Cell
}

// NewRow создаёт пустую строку
func NewRow() *Row {
	return &Row{cells: make(map[string]Cell)}
}

// Set записывает ячейку, сохраняя порядок первых вхождений колонок
func (r *Row) Set(column string, cell Cell) *Row {
	if _, ok := r.cells[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.cells[column] = cell
	return r
}

// Columns возвращает имена колонок в исходном порядке
func (r *Row) Columns() []string {
	return r.columns
}

// Cell возвращает ячейку по имени колонки
func (r *Row) Cell(column string) (Cell, bool) {
	c, ok := r.cells[column]
	return c, ok
}

// Values возвращает данные строки как словарь простых значений
func (r *Row) Values() map[string]any {
	out := make(map[string]any, len(r.columns))
	for _, col := range r.columns {
		switch c := r.cells[col]; c.Type {
		case CellString:
			out[col] = c.String
		case CellNumber:
			out[col] = c.Number.String()
		case CellDate:
			out[col] = c.Date.Format("2006-01-02")
		default:
			out[col] = nil
		}
	}
	return out
}

// StringValue возвращает первое непустое строковое значение среди колонок.
// Ключи перебираются по порядку, чтобы поддержать русские и английские
// заголовки одновременно.
func (r *Row) StringValue(columns ...string) string {
	for _, col := range columns {
		c, ok := r.cells[col]
		if !ok {
			continue
		}
		var s string
		switch c.Type {
		case CellString:
			s = strings.TrimSpace(c.String)
		case CellNumber:
			s = c.Number.String()
		case CellDate:
			s = c.Date.Format("2006-01-02")
		}
		if s != "" {
			return s
		}
	}
	return ""
}

// DecimalValue возвращает первое числовое значение среди колонок.
// Отсутствующие и неразбираемые значения трактуются как ноль.
func (r *Row) DecimalValue(columns ...string) decimal.Decimal {
	for _, col := range columns {
		c, ok := r.cells[col]
		if !ok || c.Type == CellEmpty {
			continue
		}
		switch c.Type {
		case CellNumber:
			return c.Number
		case CellString:
			s := strings.TrimSpace(c.String)
			if s == "" {
				continue
			}
			d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
			if err != nil {
				return decimal.Zero
			}
			return d
		}
	}
	return decimal.Zero
}

// DateValue возвращает первую дату среди колонок или nil,
// если значение отсутствует либо не разбирается
func (r *Row) DateValue(columns ...string) *time.Time {
	for _, col := range columns {
		c, ok := r.cells[col]
		if !ok || c.Type == CellEmpty {
			continue
		}
		switch c.Type {
		case CellDate:
			d := c.Date
			return &d
		case CellString:
			s := strings.TrimSpace(c.String)
			if s == "" {
				continue
			}
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					return &t
				}
			}
			return nil
		}
	}
	return nil
}
