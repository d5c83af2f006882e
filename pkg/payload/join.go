package payload

import "strings"

// JoinBuilder collects per-target join configuration: limit, page, sort,
// count, and a nested filter tree per join target. A join clause is created
// lazily on first reference to a target name and reused afterwards, so
// repeated calls for the same target accumulate into one configuration.
//
// Every method treats an empty target name as a silent no-op, which keeps
// generated call sites safe to compose without validation.
type JoinBuilder struct {
	clauses  []*joinClause
	index    map[string]*joinClause
	wheres   map[string]*WhereBuilder
	disabled bool
}

// NewJoinBuilder creates an empty join builder.
func NewJoinBuilder() *JoinBuilder {
	return &JoinBuilder{
		index:  make(map[string]*joinClause),
		wheres: make(map[string]*WhereBuilder),
	}
}

// clause resolves the join clause for a target, creating it on first use.
// Insertion order of distinct targets is preserved in the clauses slice.
func (b *JoinBuilder) clause(on string) *joinClause {
	if existing, ok := b.index[on]; ok {
		return existing
	}

	created := &joinClause{on: on}
	b.index[on] = created
	b.clauses = append(b.clauses, created)

	return created
}

// whereBuilder resolves the cached filter builder for a target, creating it
// on first use so scoped where/and/or calls accumulate into one tree.
func (b *JoinBuilder) whereBuilder(on string) *WhereBuilder {
	if existing, ok := b.wheres[on]; ok {
		return existing
	}

	created := NewWhereBuilder()
	b.wheres[on] = created

	return created
}

// Limit sets the maximum number of joined documents for a target.
func (b *JoinBuilder) Limit(on string, value int) *JoinBuilder {
	if on == "" {
		return b
	}

	b.clause(on).limit = &value

	return b
}

// Page sets the page of joined documents for a target.
func (b *JoinBuilder) Page(on string, value int) *JoinBuilder {
	if on == "" {
		return b
	}

	b.clause(on).page = &value

	return b
}

// Sort sets the sort field for a target. An empty field name never sets sort.
func (b *JoinBuilder) Sort(on, field string) *JoinBuilder {
	if on == "" || field == "" {
		return b
	}

	b.clause(on).sort = field

	return b
}

// SortByDescending sorts a target by field in descending order, prefixing the
// field with "-" unless it is already prefixed.
func (b *JoinBuilder) SortByDescending(on, field string) *JoinBuilder {
	if field != "" && !strings.HasPrefix(field, "-") {
		field = "-" + field
	}

	return b.Sort(on, field)
}

// Count toggles the document count for a target. Calling it without a value
// enables the count.
func (b *JoinBuilder) Count(on string, value ...bool) *JoinBuilder {
	if on == "" {
		return b
	}

	enabled := true
	if len(value) > 0 {
		enabled = value[len(value)-1]
	}

	b.clause(on).count = &enabled

	return b
}

// Where adds a field comparison to a target's filter tree and stores the
// re-flattened tree on the join clause, so the clause always carries the
// latest full filter rather than an incremental diff.
func (b *JoinBuilder) Where(on, field string, operator Operator, value any) *JoinBuilder {
	if on == "" {
		return b
	}

	builder := b.whereBuilder(on)
	builder.Where(field, operator, value)
	b.clause(on).where = builder.Build()

	return b
}

// And adds a logical AND group to a target's filter tree.
func (b *JoinBuilder) And(on string, configure func(*WhereBuilder)) *JoinBuilder {
	if on == "" {
		return b
	}

	builder := b.whereBuilder(on)
	builder.And(configure)
	b.clause(on).where = builder.Build()

	return b
}

// Or adds a logical OR group to a target's filter tree.
func (b *JoinBuilder) Or(on string, configure func(*WhereBuilder)) *JoinBuilder {
	if on == "" {
		return b
	}

	builder := b.whereBuilder(on)
	builder.Or(configure)
	b.clause(on).where = builder.Build()

	return b
}

// Disable turns off all joins for the query. Previously collected clauses are
// kept but ignored at build time; the flag is never cleared, so disabled wins
// regardless of call order.
func (b *JoinBuilder) Disable() *JoinBuilder {
	b.disabled = true

	return b
}

// Build returns false when joins are disabled, nil when no join was
// configured, and otherwise one object with a key per distinct target. Target
// keys are disjoint by construction, so the merge cannot collide.
func (b *JoinBuilder) Build() any {
	if b.disabled {
		return false
	}

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
