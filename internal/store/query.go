package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/morphsynth/internal/ir"
)

// Predicate filters outcome rows.
//
// This is a sealed interface - only types in this package implement it, so
// compilePredicate can switch over every case.
type Predicate interface {
	predicateNode()
}

// Equals matches rows whose field equals a literal value.
type Equals struct {
	Field string
	Value ir.Value
}

func (Equals) predicateNode() {}

// And matches rows that satisfy every predicate. An empty And matches all rows.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Outcome fields a predicate may reference.
const (
	FieldRunID    = "run_id"
	FieldLanguage = "language"
	FieldFamily   = "family"
	FieldLemma    = "lemma"
	FieldDegraded = "degraded"
	FieldReason   = "reason"
	FieldCardHash = "card_hash"
)

var queryableFields = map[string]bool{
	FieldRunID:    true,
	FieldLanguage: true,
	FieldFamily:   true,
	FieldLemma:    true,
	FieldDegraded: true,
	FieldReason:   true,
	FieldCardHash: true,
}

// Where builds a conjunction of field equalities.
func Where(preds ...Predicate) Predicate {
	return And{Predicates: preds}
}

// Eq is shorthand for a string Equals.
func Eq(field, value string) Predicate {
	return Equals{Field: field, Value: ir.StringValue(value)}
}

// QueryOutcomes returns the outcomes matching p.
// Every query orders by seq, then id COLLATE BINARY, so results are stable.
func (s *Store) QueryOutcomes(ctx context.Context, p Predicate) ([]ir.Outcome, error) {
	query, params, err := compileOutcomeQuery(p)
	if err != nil {
		return nil, err
	}
	return s.queryOutcomes(ctx, query, params...)
}

// compileOutcomeQuery converts a predicate to parameterized SQL.
// Values are never interpolated.
func compileOutcomeQuery(p Predicate) (string, []any, error) {
	where, params, err := compilePredicate(p)
	if err != nil {
		return "", nil, fmt.Errorf("compile query: %w", err)
	}
	query := "SELECT " + outcomeColumns + " FROM outcomes WHERE " + where +
		" ORDER BY seq ASC, id COLLATE BINARY ASC"
	return query, params, nil
}

func compilePredicate(p Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case nil:
		return "1 = 1", nil, nil // Always true
	case Equals:
		return compileEquals(pred)
	case *Equals:
		return compileEquals(*pred)
	case And:
		return compileAnd(pred)
	case *And:
		return compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func compileEquals(eq Equals) (string, []any, error) {
	// Field names are interpolated, so only known columns are accepted
	if !queryableFields[eq.Field] {
		return "", nil, fmt.Errorf("unknown field %q", eq.Field)
	}
	param, err := valueToParam(eq.Value)
	if err != nil {
		return "", nil, fmt.Errorf("field %q: %w", eq.Field, err)
	}
	return eq.Field + " = ?", []any{param}, nil
}

func compileAnd(and And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil // Vacuous truth
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, pred := range and.Predicates {
		sql, ps, err := compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, ps...)
	}
	if len(parts) == 1 {
		return parts[0], params, nil
	}
	return "(" + strings.Join(parts, " AND ") + ")", params, nil
}

// valueToParam converts a feature value to a SQL parameter.
func valueToParam(v ir.Value) (any, error) {
	switch val := v.(type) {
	case ir.StringValue:
		return string(val), nil
	case ir.IntValue:
		return int64(val), nil
	case ir.BoolValue:
		return boolToInt(bool(val)), nil
	case nil:
		return nil, fmt.Errorf("nil value")
	default:
		return nil, fmt.Errorf("unsupported value type for SQL parameter: %T", v)
	}
}
