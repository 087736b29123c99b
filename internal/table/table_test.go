package table

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestReadCSV_SniffsCellTypes(t *testing.T) {
	data := "name,hire_date,salary,note\nИванов,2023-01-15,\"120000,50\",\n"
	rows, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]

	name, _ := row.Cell("name")
	if name.Type != CellString || name.String != "Иванов" {
		t.Errorf("expected string cell, got %+v", name)
	}

	date, _ := row.Cell("hire_date")
	if date.Type != CellDate || date.Date.Year() != 2023 {
		t.Errorf("expected date cell, got %+v", date)
	}

	// Десятичная запятая принимается наравне с точкой
	salary, _ := row.Cell("salary")
	if salary.Type != CellNumber || !salary.Number.Equal(decimal.RequireFromString("120000.50")) {
		t.Errorf("expected number cell 120000.50, got %+v", salary)
	}

	note, _ := row.Cell("note")
	if note.Type != CellEmpty {
		t.Errorf("expected empty cell, got %+v", note)
	}
}

func TestReadCSV_ShortRecordPadsWithEmpty(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("a,b,c\n1,2\n"))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	c, ok := rows[0].Cell("c")
	if !ok || c.Type != CellEmpty {
		t.Errorf("expected empty cell for missing field, got %+v ok=%v", c, ok)
	}
}

func TestReadCSV_EmptyInput(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if rows != nil {
		t.Errorf("expected nil rows for empty input, got %v", rows)
	}
}

func TestStringValue_FallbackKeys(t *testing.T) {
	row := NewRow().
		Set("Логин", StringCell("ivanov")).
		Set("login", StringCell("ignored"))

	if got := row.StringValue("Логин", "login"); got != "ivanov" {
		t.Errorf("expected first key to win, got %q", got)
	}

	empty := NewRow().Set("login", StringCell("petrov"))
	if got := empty.StringValue("Логин", "login"); got != "petrov" {
		t.Errorf("expected fallback key, got %q", got)
	}

	if got := NewRow().StringValue("Логин", "login"); got != "" {
		t.Errorf("expected empty string for missing keys, got %q", got)
	}
}

func TestDecimalValue_Lenient(t *testing.T) {
	row := NewRow().
		Set("Оклад", StringCell("не число")).
		Set("Премия", StringCell("5000,25")).
		Set("Пусто", EmptyCell())

	// Неразбираемое значение трактуется как ноль
	if got := row.DecimalValue("Оклад"); !got.IsZero() {
		t.Errorf("expected zero for unparsable value, got %s", got)
	}
	if got := row.DecimalValue("Премия"); !got.Equal(decimal.RequireFromString("5000.25")) {
		t.Errorf("expected 5000.25, got %s", got)
	}
	// Пустая ячейка пропускается в пользу следующего ключа
	if got := row.DecimalValue("Пусто", "Премия"); !got.Equal(decimal.RequireFromString("5000.25")) {
		t.Errorf("expected fallback past empty cell, got %s", got)
	}
	if got := row.DecimalValue("Нет такой"); !got.IsZero() {
		t.Errorf("expected zero for missing column, got %s", got)
	}
}

func TestDateValue_Layouts(t *testing.T) {
	iso := NewRow().Set("Дата", StringCell("2023-01-15"))
	if d := iso.DateValue("Дата"); d == nil || d.Day() != 15 {
		t.Errorf("expected iso date parsed, got %v", d)
	}

	ru := NewRow().Set("Дата", StringCell("15.01.2023"))
	if d := ru.DateValue("Дата"); d == nil || d.Day() != 15 || d.Year() != 2023 {
		t.Errorf("expected dotted date parsed, got %v", d)
	}

	bad := NewRow().Set("Дата", StringCell("вчера"))
	if d := bad.DateValue("Дата"); d != nil {
		t.Errorf("expected nil for unparsable date, got %v", d)
	}
}

func TestValues_PreservesColumnOrder(t *testing.T) {
	data := "b,a,c\n1,2,3\n"
	rows, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	cols := rows[0].Columns()
	want := []string{"b", "a", "c"}
	for i, col := range want {
		if cols[i] != col {
			t.Fatalf("expected column order %v, got %v", want, cols)
		}
	}

	values := rows[0].Values()
	if values["a"] != "2" {
		t.Errorf("expected numeric cell rendered as string, got %v", values["a"])
	}
}
