package db

import (
	"fmt"
	"strings"
	"time"
)

// FilterType describes how a query parameter maps onto a SQL column.
type FilterType int

const (
	// FilterToken matches the column exactly (statuses, codes, UUIDs).
	FilterToken FilterType = iota
	// FilterText matches case-insensitively with a prefix wildcard.
	FilterText
	// FilterDate supports ordered comparison prefixes (gt/lt/ge/le/ne).
	FilterDate
	// FilterNumber supports ordered comparison prefixes on numeric columns.
	FilterNumber
)

// FilterConfig binds a query parameter name to a column and filter type.
type FilterConfig struct {
	Type   FilterType
	Column string
}

// comparisonPrefixes maps a two-letter value prefix to a SQL operator, so
// "ge2024-01-01" filters a date column with >=.
var comparisonPrefixes = map[string]string{
	"eq": "=",
	"ne": "!=",
	"gt": ">",
	"lt": "<",
	"ge": ">=",
	"le": "<=",
}

// splitPrefix extracts a comparison prefix from a raw filter value.
func splitPrefix(raw string) (string, string) {
	if len(raw) >= 2 {
		if op, ok := comparisonPrefixes[strings.ToLower(raw[:2])]; ok {
			return op, raw[2:]
		}
	}
	return "=", raw
}

// ListQuery incrementally builds a filtered SELECT plus its COUNT twin with
// positional arguments.
type ListQuery struct {
	table   string
	cols    string
	where   []string
	args    []interface{}
	orderBy string
}

func NewListQuery(table, cols string) *ListQuery {
	return &ListQuery{table: table, cols: cols}
}

// ApplyParams translates recognized query parameters into WHERE clauses.
// Unknown parameters are ignored.
func (q *ListQuery) ApplyParams(params map[string]string, configs map[string]FilterConfig) {
	for name, value := range params {
		cfg, ok := configs[name]
		if !ok || value == "" {
			continue
		}
		switch cfg.Type {
		case FilterText:
			q.args = append(q.args, value+"%")
			q.where = append(q.where, fmt.Sprintf("%s ILIKE $%d", cfg.Column, len(q.args)))
		case FilterDate:
			op, raw := splitPrefix(value)
			if t, err := parseFlexDate(raw); err == nil {
				q.args = append(q.args, t)
			} else {
				q.args = append(q.args, raw)
			}
			q.where = append(q.where, fmt.Sprintf("%s %s $%d", cfg.Column, op, len(q.args)))
		case FilterNumber:
			op, raw := splitPrefix(value)
			q.args = append(q.args, raw)
			q.where = append(q.where, fmt.Sprintf("%s %s $%d", cfg.Column, op, len(q.args)))
		default: // FilterToken
			q.args = append(q.args, value)
			q.where = append(q.where, fmt.Sprintf("%s = $%d", cfg.Column, len(q.args)))
		}
	}
}

func (q *ListQuery) OrderBy(expr string) {
	q.orderBy = expr
}

func (q *ListQuery) whereSQL() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.where, " AND ")
}

// CountSQL returns the COUNT query for the current filters.
func (q *ListQuery) CountSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", q.table, q.whereSQL())
}

func (q *ListQuery) CountArgs() []interface{} {
	return q.args
}

// DataSQL returns the data query with LIMIT/OFFSET as the last two arguments.
func (q *ListQuery) DataSQL(limit, offset int) string {
	sql := fmt.Sprintf("SELECT %s FROM %s%s", q.cols, q.table, q.whereSQL())
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	return fmt.Sprintf("%s LIMIT $%d OFFSET $%d", sql, len(q.args)+1, len(q.args)+2)
}

func (q *ListQuery) DataArgs(limit, offset int) []interface{} {
	return append(append([]interface{}{}, q.args...), limit, offset)
}

// parseFlexDate parses a date string in the formats the API accepts.
func parseFlexDate(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
		"2006-01",
		"2006",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}
