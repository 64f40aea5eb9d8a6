package repository

import (
	"fmt"
	"regexp"
	"sort"
)

// Op is a comparison operator usable in a Cond.
type Op string

const (
	OpEq       Op = "="
	OpNe       Op = "<>"
	OpGt       Op = ">"
	OpGte      Op = ">="
	OpLt       Op = "<"
	OpLte      Op = "<="
	OpIn       Op = "IN"
	OpContains Op = "CONTAINS" // case-sensitive substring match on text columns
)

// Cond compares one column with a value.
type Cond struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, v any) Cond { return Cond{Field: field, Op: OpEq, Value: v} }
func Ne(field string, v any) Cond { return Cond{Field: field, Op: OpNe, Value: v} }
func Gt(field string, v any) Cond { return Cond{Field: field, Op: OpGt, Value: v} }
func Gte(field string, v any) Cond { return Cond{Field: field, Op: OpGte, Value: v} }
func Lt(field string, v any) Cond { return Cond{Field: field, Op: OpLt, Value: v} }
func Lte(field string, v any) Cond { return Cond{Field: field, Op: OpLte, Value: v} }
func Contains(field, sub string) Cond { return Cond{Field: field, Op: OpContains, Value: sub} }
func In[V any](field string, vs []V) Cond {
	values := make([]any, len(vs))
	for i, v := range vs {
		values[i] = v
	}
	return Cond{Field: field, Op: OpIn, Value: values}
}

// Filter is a conjunction of column comparisons. Expressions added with Where
// and keyword equalities added with By compose freely; the zero value matches
// every record.
type Filter struct {
	conds []Cond
	by    map[string]any
}

// Where starts a filter from expressions.
func Where(conds ...Cond) Filter {
	return Filter{}.Where(conds...)
}

// By starts a filter from a keyword equality.
func By(field string, v any) Filter {
	return Filter{}.By(field, v)
}

// Where returns a copy of f with conds appended.
func (f Filter) Where(conds ...Cond) Filter {
	out := f.clone()
	out.conds = append(out.conds, conds...)
	return out
}

// By returns a copy of f with an equality on field. A later By on the same
// field replaces the earlier value.
func (f Filter) By(field string, v any) Filter {
	out := f.clone()
	if out.by == nil {
		out.by = make(map[string]any)
	}
	out.by[field] = v
	return out
}

func (f Filter) clone() Filter {
	out := Filter{conds: make([]Cond, len(f.conds))}
	copy(out.conds, f.conds)
	if f.by != nil {
		out.by = make(map[string]any, len(f.by))
		for k, v := range f.by {
			out.by[k] = v
		}
	}
	return out
}

var columnName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidColumn reports whether name is a plain snake_case column name.
func ValidColumn(name string) bool {
	return columnName.MatchString(name)
}

// Conds returns every comparison in f: expressions first, then keyword
// equalities sorted by field. It fails with ErrInvalidFilter on a malformed
// column name or an IN without values.
func (f Filter) Conds() ([]Cond, error) {
	out := make([]Cond, 0, len(f.conds)+len(f.by))
	out = append(out, f.conds...)

	keys := make([]string, 0, len(f.by))
	for k := range f.by {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, Eq(k, f.by[k]))
	}

	for _, c := range out {
		if !ValidColumn(c.Field) {
			return nil, fmt.Errorf("%w: column %q", ErrInvalidFilter, c.Field)
		}
		switch c.Op {
		case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte:
		case OpIn:
			if vs, ok := c.Value.([]any); !ok || len(vs) == 0 {
				return nil, fmt.Errorf("%w: IN on %q needs a value list", ErrInvalidFilter, c.Field)
			}
		case OpContains:
			if _, ok := c.Value.(string); !ok {
				return nil, fmt.Errorf("%w: CONTAINS on %q needs a string", ErrInvalidFilter, c.Field)
			}
		default:
			return nil, fmt.Errorf("%w: operator %q", ErrInvalidFilter, c.Op)
		}
	}
	return out, nil
}

// DefaultLimit is the page size used when the caller does not pass one.
const DefaultLimit = 10

// Page selects a window of an id-ordered result set.
type Page struct {
	Skip  int
	Limit int
}

// FirstPage is skip=0, limit=DefaultLimit.
func FirstPage() Page {
	return Page{Skip: 0, Limit: DefaultLimit}
}

// Validate enforces skip >= 0 and limit > 0.
func (p Page) Validate() error {
	if p.Skip < 0 {
		return fmt.Errorf("%w: skip must be >= 0", ErrInvalidPage)
	}
	if p.Limit <= 0 {
		return fmt.Errorf("%w: limit must be > 0", ErrInvalidPage)
	}
	return nil
}
