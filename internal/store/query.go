package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/pulsecal/internal/calib"
)

// Predicate is a filter condition over the calibrations table.
//
// Sealed: only Equals and And implement it.
type Predicate interface {
	predicateNode()
}

// Equals matches rows whose column equals Value.
type Equals struct {
	Column string
	Value  any
}

func (Equals) predicateNode() {}

// And matches rows satisfying every predicate. An empty And matches all rows.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// filterColumns are the columns a predicate may reference.
var filterColumns = []string{"gate", "qubits", "digest", "origin", "session_id"}

// Filter selects stored calibration entries. Zero fields match everything.
type Filter struct {
	Gate    string
	Qubits  []int
	Origin  Origin
	Session string
}

// Predicate converts f to a conjunction of column equalities.
func (f Filter) Predicate() Predicate {
	var and And
	if f.Gate != "" {
		and.Predicates = append(and.Predicates, Equals{Column: "gate", Value: f.Gate})
	}
	if f.Qubits != nil {
		and.Predicates = append(and.Predicates, Equals{Column: "qubits", Value: calib.NewKey("", f.Qubits).Qubits})
	}
	if f.Origin != "" {
		and.Predicates = append(and.Predicates, Equals{Column: "origin", Value: string(f.Origin)})
	}
	if f.Session != "" {
		and.Predicates = append(and.Predicates, Equals{Column: "session_id", Value: f.Session})
	}
	return and
}

// compileQuery builds the SELECT for p. Values are always bound as
// parameters and every query carries the stable ORDER BY.
func compileQuery(p Predicate) (string, []any, error) {
	where, params, err := compilePredicate(p)
	if err != nil {
		return "", nil, err
	}
	var b strings.Builder
	b.WriteString("SELECT gate, qubits, digest, schedule, origin, session_id, seq FROM calibrations")
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	b.WriteString(" ORDER BY seq ASC, gate COLLATE BINARY ASC, qubits COLLATE BINARY ASC")
	return b.String(), params, nil
}

// compilePredicate returns the WHERE fragment for p, or "" when p matches
// every row.
func compilePredicate(p Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case nil:
		return "", nil, nil
	case Equals:
		if !slices.Contains(filterColumns, pred.Column) {
			return "", nil, fmt.Errorf("unsupported filter column %q", pred.Column)
		}
		switch pred.Value.(type) {
		case string, int, int64:
		default:
			return "", nil, fmt.Errorf("unsupported value type %T for column %s", pred.Value, pred.Column)
		}
		return pred.Column + " = ?", []any{pred.Value}, nil
	case And:
		var (
			parts  []string
			params []any
		)
		for _, sub := range pred.Predicates {
			sql, subParams, err := compilePredicate(sub)
			if err != nil {
				return "", nil, err
			}
			if sql == "" {
				continue
			}
			parts = append(parts, sql)
			params = append(params, subParams...)
		}
		return strings.Join(parts, " AND "), params, nil
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// Query returns the stored entries matching p in insertion order.
func (s *Store) Query(ctx context.Context, p Predicate) ([]Record, error) {
	query, params, err := compileQuery(p)
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}
	return s.readEntries(ctx, query, params...)
}
