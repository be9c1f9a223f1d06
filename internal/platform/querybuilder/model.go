package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an INSERT covering every exported field of model that
// carries a db tag, in declaration order. The suffix is appended verbatim,
// which is where ON CONFLICT clauses go.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return "", nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("model must be struct")
	}

	typ := value.Type()
	var cols []string
	var vals []any
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		col := dbColumn(field.Tag.Get("db"))
		if col == "" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("model has no db columns")
	}

	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

// dbColumn extracts the column name from a db struct tag, ignoring tag
// options after the first comma. Empty and "-" tags opt the field out.
func dbColumn(tag string) string {
	col, _, _ := strings.Cut(strings.TrimSpace(tag), ",")
	col = strings.TrimSpace(col)
	if col == "-" {
		return ""
	}
	return col
}
