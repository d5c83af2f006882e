package payload

// Operator identifies a comparison in a where clause. The encoder treats it
// as an opaque key, so the set below mirrors what the Payload REST API
// accepts rather than being validated locally.
type Operator string

// Comparison operators supported by the Payload where syntax.
const (
	OpEquals           Operator = "equals"
	OpNotEquals        Operator = "not_equals"
	OpGreaterThan      Operator = "greater_than"
	OpGreaterThanEqual Operator = "greater_than_equal"
	OpLessThan         Operator = "less_than"
	OpLessThanEqual    Operator = "less_than_equal"
	OpLike             Operator = "like"
	OpContains         Operator = "contains"
	OpIn               Operator = "in"
	OpNotIn            Operator = "not_in"
	OpAll              Operator = "all"
	OpExists           Operator = "exists"
	OpNear             Operator = "near"
	OpWithin           Operator = "within"
	OpIntersects       Operator = "intersects"
)
