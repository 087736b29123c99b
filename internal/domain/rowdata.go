package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RowData хранит данные строки импорта как JSON-документ
type RowData map[string]any

// Value сериализует данные строки для записи в БД
func (d RowData) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan десериализует данные строки из БД
func (d *RowData) Scan(value any) error {
	if value == nil {
		*d = RowData{}
		return nil
	}

	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported type for RowData: %T", value)
	}

	return json.Unmarshal(b, d)
}
