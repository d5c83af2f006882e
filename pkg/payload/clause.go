package payload

// Clause is one serializable unit of query intent. Build returns the clause's
// JSON fragment and is pure: it takes no arguments, never mutates the clause,
// and produces a structurally identical result on every call.
type Clause interface {
	Build() map[string]any
}

// conjunction selects how a group clause combines its children.
type conjunction string

const (
	conjunctionAnd conjunction = "and"
	conjunctionOr  conjunction = "or"
)

// fieldClause is a single field comparison: field -> operator -> value.
type fieldClause struct {
	field    string
	operator Operator
	value    any
}

func (c *fieldClause) Build() map[string]any {
	return map[string]any{
		c.field: map[string]any{string(c.operator): c.value},
	}
}

// groupClause is an ordered logical group of clauses. Child order is
// preserved because it becomes the array index in the encoded query.
type groupClause struct {
	conjunction conjunction
	children    []Clause
}

func (c *groupClause) Build() map[string]any {
	built := make([]any, 0, len(c.children))
	for _, child := range c.children {
		built = append(built, child.Build())
	}

	return map[string]any{string(c.conjunction): built}
}

// joinClause holds the configuration for one join target. The target name is
// immutable once created; the owning JoinBuilder overwrites the remaining
// fields in place, last write wins per field.
type joinClause struct {
	on    string
	limit *int
	page  *int
	sort  string
	count *bool
	where map[string]any
}

func (c *joinClause) Build() map[string]any {
	fields := make(map[string]any)

	if c.limit != nil {
		fields["limit"] = *c.limit
	}

	if c.page != nil {
		fields["page"] = *c.page
	}

	if c.sort != "" {
		fields["sort"] = c.sort
	}

	if c.count != nil {
		fields["count"] = *c.count
	}

	if c.where != nil {
		fields["where"] = c.where
	}

	return map[string]any{c.on: fields}
}
