package payload

// WhereBuilder accumulates an ordered sequence of clauses for one filter
// scope, either the root query or one nested and/or group. Methods return the
// receiver so calls can be chained; Build flattens the collected clauses into
// a single object without consuming them.
type WhereBuilder struct {
	clauses []Clause
}

// NewWhereBuilder creates an empty where builder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// Where appends a field comparison. Repeated calls for different fields
// accumulate; a second call for the same field overwrites the first at
// build time because flattening merges fragments by field name.
func (b *WhereBuilder) Where(field string, operator Operator, value any) *WhereBuilder {
	b.clauses = append(b.clauses, &fieldClause{
		field:    field,
		operator: operator,
		value:    value,
	})

	return b
}

// And appends a logical AND group. The configure callback is invoked
// synchronously with a fresh nested builder; whatever it collects becomes the
// group's children. Groups always append and are never merged, so nesting
// depth is unbounded.
func (b *WhereBuilder) And(configure func(*WhereBuilder)) *WhereBuilder {
	return b.group(conjunctionAnd, configure)
}

// Or appends a logical OR group, following the same rules as And.
func (b *WhereBuilder) Or(configure func(*WhereBuilder)) *WhereBuilder {
	return b.group(conjunctionOr, configure)
}

func (b *WhereBuilder) group(conj conjunction, configure func(*WhereBuilder)) *WhereBuilder {
	nested := NewWhereBuilder()
	if configure != nil {
		configure(nested)
	}

	b.clauses = append(b.clauses, &groupClause{
		conjunction: conj,
		children:    nested.clauses,
	})

	return b
}

// Build flattens the clause sequence into one object, merging each clause's
// fragment in insertion order with later same-key fragments overwriting
// earlier ones. It returns nil when no clauses were added, never an empty
// object, and may be called repeatedly.
func (b *WhereBuilder) Build() map[string]any {
	if len(b.clauses) == 0 {
		return nil
	}

	merged := make(map[string]any, len(b.clauses))

	for _, clause := range b.clauses {
		for key, value := range clause.Build() {
			merged[key] = value
		}
	}

	return merged
}
