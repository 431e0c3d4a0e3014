package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorLike      = "like"
	FilterOperatorIn        = "in"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreaterEq = "greater_eq"
	// FilterPlainQuery embeds Value, a trusted SQL fragment, as is.
	FilterPlainQuery = "plan"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

var comparisons = map[string]string{
	FilterOperatorEq:        "=",
	FilterOperatorNotEq:     "!=",
	FilterOperatorLessEq:    "<=",
	FilterOperatorGreaterEq: ">=",
}

// WhereClause is a condition rendered with sqlx named arguments.
type WhereClause interface {
	GetWhereClause() (string, map[string]any)
}

// Filter is one condition on a column. ArgName overrides the bind name when the
// same column appears twice in a query.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq like in not_eq less_eq greater_eq"`
	Table    string
}

func (f Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f Filter) argName() string {
	if f.ArgName == "" {
		return f.Field
	}

	return f.ArgName
}

func (f Filter) GetWhereClause() (string, map[string]any) {
	column, name := f.column(), f.argName()

	if symbol, ok := comparisons[f.Operator]; ok {
		return fmt.Sprintf("%s %s :%s", column, symbol, name), map[string]any{name: f.Value}
	}

	switch f.Operator {
	case FilterOperatorLike:
		return fmt.Sprintf("LOWER(%s) LIKE LOWER(:%s) ", column, name), map[string]any{name: fmt.Sprintf("%%%v%%", f.Value)}
	case FilterOperatorIn:
		return f.inClause(column, name)
	case FilterPlainQuery:
		query, _ := f.Value.(string)

		return "(" + query + ")", map[string]any{}
	default:
		return "", map[string]any{}
	}
}

// inClause expands a slice value into one bind argument per element.
func (f Filter) inClause(column, name string) (string, map[string]any) {
	args := map[string]any{}

	values := reflect.ValueOf(f.Value)
	if kind := values.Kind(); kind != reflect.Slice && kind != reflect.Array {
		return fmt.Sprintf("%s IN (%v) ", column, f.Value), args
	}

	binds := make([]string, 0, values.Len())

	for idx := range values.Len() {
		key := fmt.Sprintf("%s_%d", name, idx)
		args[key] = values.Index(idx).Interface()
		binds = append(binds, ":"+key)
	}

	return fmt.Sprintf("%s IN (%s) ", column, strings.Join(binds, ", ")), args
}

// FilterGroup joins Filters, each a Filter or a nested FilterGroup, with Operator.
type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	clauses := make([]string, 0, len(f.Filters))

	for _, filter := range f.Filters {
		clause, ok := filter.(WhereClause)
		if !ok {
			continue
		}

		where, arg := clause.GetWhereClause()
		clauses = append(clauses, where)

		maps.Copy(args, arg)
	}

	if len(clauses) == 0 {
		return "", args
	}

	return "(" + strings.Join(clauses, " "+f.Operator+" ") + ")", args
}
