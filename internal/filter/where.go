package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vburojevic/demostats/internal/domain"
)

// WhereClause represents a parsed --where condition
type WhereClause struct {
	Field    string
	Operator string
	Value    string
	regex    *regexp.Regexp // Compiled regex for ~ and !~ operators
	number   float64        // Parsed value for >= and <=
}

// numericFields can be compared with >= and <=
var numericFields = map[string]bool{
	"protocol":      true,
	"kills":         true,
	"monsters":      true,
	"secrets":       true,
	"secrets_total": true,
	"start_time":    true,
	"exit_time":     true,
	"duration":      true,
	"blocks":        true,
}

var textFields = map[string]bool{
	"file":  true,
	"map":   true,
	"title": true,
}

// ParseWhereClause parses a where clause like "map=maps/e1m1.bsp" or "kills>=10"
// Supported operators: =, !=, ~, !~, >=, <=, ^, $
func ParseWhereClause(clause string) (*WhereClause, error) {
	idx, op := findOperator(clause)
	if idx <= 0 {
		return nil, fmt.Errorf("no valid operator found in where clause: %s (use =, !=, ~, !~, >=, <=, ^, $)", clause)
	}

	field := strings.ToLower(strings.TrimSpace(clause[:idx]))
	value := strings.TrimSpace(clause[idx+len(op):])

	if field == "" || value == "" {
		return nil, fmt.Errorf("invalid where clause: %s", clause)
	}
	if !numericFields[field] && !textFields[field] {
		return nil, fmt.Errorf("unknown field in where clause '%s': %s", clause, field)
	}

	wc := &WhereClause{
		Field:    field,
		Operator: op,
		Value:    value,
	}

	switch op {
	case "~", "!~":
		re, err := regexp.Compile(value)
		if err != nil {
			return nil, fmt.Errorf("invalid regex in where clause '%s': %w", clause, err)
		}
		wc.regex = re
	case ">=", "<=":
		if !numericFields[field] {
			return nil, fmt.Errorf("field %s is not numeric in where clause '%s'", field, clause)
		}
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number in where clause '%s': %w", clause, err)
		}
		wc.number = n
	}

	return wc, nil
}

// operators are listed longest first so that "!=" wins over "=" when both
// start at the same position.
var operators = []string{"!~", ">=", "<=", "!=", "~", "=", "^", "$"}

// findOperator returns the operator that starts earliest in clause, so
// operator characters inside the value stay part of the value.
func findOperator(clause string) (int, string) {
	best, bestOp := -1, ""
	for _, op := range operators {
		idx := strings.Index(clause, op)
		if idx < 0 {
			continue
		}
		if best < 0 || idx < best {
			best, bestOp = idx, op
		}
	}
	return best, bestOp
}

// Match checks if a demo report matches this where clause
func (wc *WhereClause) Match(r *domain.DemoReport) bool {
	fieldValue, number, ok := wc.getFieldValue(r)

	switch wc.Operator {
	case "=":
		return fieldValue == wc.Value
	case "!=":
		return fieldValue != wc.Value
	case "~": // Contains (regex)
		return wc.regex.MatchString(fieldValue)
	case "!~": // Not contains (regex)
		return !wc.regex.MatchString(fieldValue)
	case "^": // Starts with
		return strings.HasPrefix(fieldValue, wc.Value)
	case "$": // Ends with
		return strings.HasSuffix(fieldValue, wc.Value)
	case ">=":
		return ok && number >= wc.number
	case "<=":
		return ok && number <= wc.number
	}

	return false
}

// getFieldValue extracts the field from a report as text and, for numeric
// fields, as a number. A missing duration has no value.
func (wc *WhereClause) getFieldValue(r *domain.DemoReport) (string, float64, bool) {
	num := func(v float64) (string, float64, bool) {
		return strconv.FormatFloat(v, 'f', -1, 64), v, true
	}

	switch wc.Field {
	case "file":
		return r.File, 0, false
	case "map":
		return r.MapName, 0, false
	case "title":
		return r.MapTitle, 0, false
	case "protocol":
		return num(float64(r.Protocol))
	case "kills":
		return num(float64(r.Kills))
	case "monsters":
		return num(float64(r.Monsters))
	case "secrets":
		return num(float64(r.Secrets))
	case "secrets_total":
		return num(float64(r.SecretsTotal))
	case "start_time":
		return num(float64(r.StartTime))
	case "exit_time":
		return num(float64(r.ExitTime))
	case "blocks":
		return num(float64(r.Blocks))
	case "duration":
		if r.Duration == nil {
			return "", 0, false
		}
		return num(float64(*r.Duration))
	default:
		return "", 0, false
	}
}

// WhereFilter is a filter that applies multiple where clauses (AND logic)
type WhereFilter struct {
	clauses []*WhereClause
}

// NewWhereFilter creates a filter from multiple where clause strings
func NewWhereFilter(whereClauses []string) (*WhereFilter, error) {
	if len(whereClauses) == 0 {
		return nil, nil
	}

	filter := &WhereFilter{}
	for _, clause := range whereClauses {
		wc, err := ParseWhereClause(clause)
		if err != nil {
			return nil, err
		}
		filter.clauses = append(filter.clauses, wc)
	}

	return filter, nil
}

// Match returns true if the report matches ALL where clauses (AND logic)
func (f *WhereFilter) Match(r *domain.DemoReport) bool {
	if f == nil {
		return true
	}
	for _, clause := range f.clauses {
		if !clause.Match(r) {
			return false
		}
	}
	return true
}
