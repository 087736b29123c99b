package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReadCSV читает CSV с заголовком в первой строке и возвращает
// типизированные строки. Тип ячейки определяется по содержимому:
// дата, число, строка; пустые значения дают пустую ячейку.
func ReadCSV(r io.Reader) ([]*Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows []*Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		row := NewRow()
		for i, col := range header {
			col = strings.TrimSpace(col)
			if col == "" {
				continue
			}
			if i >= len(record) {
				row.Set(col, EmptyCell())
				continue
			}
			row.Set(col, sniffCell(record[i]))
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// sniffCell определяет тип значения по содержимому
func sniffCell(raw string) Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return EmptyCell()
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateCell(t)
		}
	}

	if d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ".")); err == nil {
		return NumberCell(d)
	}

	return StringCell(s)
}
