package payload

import "strings"

// QueryBuilder composes the full set of query parameters for a Payload REST
// request: scalar options, one root filter tree, and one join registry. All
// setters return the receiver for chaining, and Build is a pure projection
// that can be called any number of times.
type QueryBuilder struct {
	limit          *int
	page           *int
	depth          *int
	sort           string
	selects        string
	populate       string
	locale         string
	fallbackLocale string
	where          *WhereBuilder
	joins          *JoinBuilder
}

// NewQuery creates an empty query builder.
func NewQuery() *QueryBuilder {
	return &QueryBuilder{
		where: NewWhereBuilder(),
		joins: NewJoinBuilder(),
	}
}

// Limit sets the maximum number of documents to return.
func (q *QueryBuilder) Limit(value int) *QueryBuilder {
	q.limit = &value

	return q
}

// Page sets the page to return.
func (q *QueryBuilder) Page(value int) *QueryBuilder {
	q.page = &value

	return q
}

// Depth sets how many levels of relationships are populated.
func (q *QueryBuilder) Depth(value int) *QueryBuilder {
	q.depth = &value

	return q
}

// Locale sets the locale to retrieve documents in.
func (q *QueryBuilder) Locale(locale string) *QueryBuilder {
	q.locale = locale

	return q
}

// FallbackLocale sets the locale used when a field has no value in the
// requested locale.
func (q *QueryBuilder) FallbackLocale(locale string) *QueryBuilder {
	q.fallbackLocale = locale

	return q
}

// Sort appends a sort field. Repeated calls grow a comma-separated list
// rather than overwriting, so secondary sort keys keep their position.
func (q *QueryBuilder) Sort(field string) *QueryBuilder {
	if field == "" {
		return q
	}

	if q.sort == "" {
		q.sort = field
	} else {
		q.sort += "," + field
	}

	return q
}

// SortByDescending appends a descending sort field.
func (q *QueryBuilder) SortByDescending(field string) *QueryBuilder {
	if field == "" {
		return q
	}

	if !strings.HasPrefix(field, "-") {
		field = "-" + field
	}

	return q.Sort(field)
}

// Select appends fields to the comma-separated projection list.
func (q *QueryBuilder) Select(fields ...string) *QueryBuilder {
	for _, field := range fields {
		if field == "" {
			continue
		}

		if q.selects == "" {
			q.selects = field
		} else {
			q.selects += "," + field
		}
	}

	return q
}

// Populate sets the relationship fields to populate. Unlike Select this
// assigns, so the last call wins.
func (q *QueryBuilder) Populate(fields ...string) *QueryBuilder {
	q.populate = strings.Join(fields, ",")

	return q
}

// Where adds a field comparison to the root filter tree.
func (q *QueryBuilder) Where(field string, operator Operator, value any) *QueryBuilder {
	q.where.Where(field, operator, value)

	return q
}

// And adds a logical AND group to the root filter tree.
func (q *QueryBuilder) And(configure func(*WhereBuilder)) *QueryBuilder {
	q.where.And(configure)

	return q
}

// Or adds a logical OR group to the root filter tree.
func (q *QueryBuilder) Or(configure func(*WhereBuilder)) *QueryBuilder {
	q.where.Or(configure)

	return q
}

// Join invokes configure synchronously with the owned join builder.
func (q *QueryBuilder) Join(configure func(*JoinBuilder)) *QueryBuilder {
	if configure != nil {
		configure(q.joins)
	}

	return q
}

// Build assembles the query parameter object. Only options that were actually
// set appear in the result; nothing is emitted as null or a default
// placeholder. The fallback locale uses the API's literal hyphenated key.
func (q *QueryBuilder) Build() map[string]any {
	params := make(map[string]any)

	if q.limit != nil {
		params["limit"] = *q.limit
	}

	if q.page != nil {
		params["page"] = *q.page
	}

	if q.depth != nil {
		params["depth"] = *q.depth
	}

	if q.sort != "" {
		params["sort"] = q.sort
	}

	if q.selects != "" {
		params["select"] = q.selects
	}

	if q.populate != "" {
		params["populate"] = q.populate
	}

	if q.locale != "" {
		params["locale"] = q.locale
	}

	if q.fallbackLocale != "" {
		params["fallback-locale"] = q.fallbackLocale
	}

	if where := q.where.Build(); where != nil {
		params["where"] = where
	}

	if joins := q.joins.Build(); joins != nil {
		params["joins"] = joins
	}

	return params
}
