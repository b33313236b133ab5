package db

import (
	"strings"
)

// Row is one result row, column order matching the SELECT list.
type Row []any

// Execute runs a single parameterized statement. SELECT statements return the
// result rows; anything else executes with an implicit commit and returns nil
// rows. Errors are propagated to the caller untouched — multi-statement
// atomicity belongs to the order writer's transaction, not here.
func (d *Database) Execute(query string, params ...any) ([]Row, error) {
	if !isSelect(query) {
		return nil, d.gorm.Exec(query, params...).Error
	}

	rows, err := d.gorm.Raw(query, params...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make(Row, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, values)
	}
	return out, rows.Err()
}

func isSelect(query string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT")
}
