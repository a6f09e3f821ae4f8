package listquery

import (
	"strings"
	"time"
)

// Filter accumulates conjunctive predicates over column expressions. Column
// names are always supplied by code, never by request input; values travel
// as bind arguments.
type Filter struct {
	clauses []string
	args    []any
}

// Eq adds column = value. An empty value adds nothing.
func (f *Filter) Eq(column, value string) *Filter {
	if value == "" {
		return f
	}
	return f.Where(column+" = ?", value)
}

// Bool adds column = value when value is set, leaving the tri-state "any" as no predicate.
func (f *Filter) Bool(column string, value *bool) *Filter {
	if value == nil {
		return f
	}
	return f.Where(column+" = ?", *value)
}

// Range adds inclusive bounds on a timestamp column. Either side may be open.
func (f *Filter) Range(column string, r DateRange) *Filter {
	if r.From != nil {
		f.Where(column+" >= ?", *r.From)
	}
	if r.To != nil {
		f.Where(column+" <= ?", *r.To)
	}
	return f
}

// Search adds a case-insensitive substring match OR'd across columns. A
// blank term adds nothing, so an empty search equals no search.
func (f *Filter) Search(term string, columns ...string) *Filter {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return f
	}

	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	parts := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, column := range columns {
		parts[i] = "LOWER(" + column + ") LIKE ? ESCAPE '!'"
		args[i] = pattern
	}
	return f.Where("("+strings.Join(parts, " OR ")+")", args...)
}

// Where adds a raw predicate with its bind arguments.
func (f *Filter) Where(clause string, args ...any) *Filter {
	f.clauses = append(f.clauses, clause)
	f.args = append(f.args, args...)
	return f
}

// Empty reports whether no predicate was added.
func (f *Filter) Empty() bool {
	return len(f.clauses) == 0
}

// Compile renders " WHERE a AND b" plus its arguments, or an empty string
// when there are no predicates.
func (f *Filter) Compile() (string, []any) {
	if f.Empty() {
		return "", nil
	}
	return " WHERE " + strings.Join(f.clauses, " AND "), append([]any(nil), f.args...)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// DateRange bounds a timestamp column; nil means unbounded.
type DateRange struct {
	From *time.Time
	To   *time.Time
}
