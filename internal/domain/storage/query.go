package storage

// Op identifies a filter comparison.
type Op string

const (
	OpEq       Op = "eq"
	OpIn       Op = "in"
	OpIsNull   Op = "is_null"
	OpContains Op = "contains"
)

// Filter is a single store-side predicate over a record column.
type Filter struct {
	Column string
	Op     Op
	Value  any
	Values []any
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

func In(column string, values ...any) Filter {
	return Filter{Column: column, Op: OpIn, Values: values}
}

func IsNull(column string) Filter {
	return Filter{Column: column, Op: OpIsNull}
}

// Contains matches records whose string column contains the given substring,
// case sensitively.
func Contains(column, substring string) Filter {
	return Filter{Column: column, Op: OpContains, Value: substring}
}

// Order is one ordering term.
type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order {
	return Order{Column: column}
}

func Desc(column string) Order {
	return Order{Column: column, Desc: true}
}

// Query describes one read through the composition pipeline. Stages always
// apply in the same order regardless of which fields are set: base set,
// ForUpdate, soft-delete policy, eager loads, Filters, OrderBy, Skip/Take.
// Pagination therefore always sees the filtered, ordered result.
type Query struct {
	// Filters are ANDed together. No filters means the whole base set.
	Filters []Filter
	// IncludeDeleted opts soft-deleted records back into the result.
	IncludeDeleted bool
	// ForUpdate locks matched rows for the caller's transaction where the
	// backend supports it.
	ForUpdate bool
	// Include names child relations to fetch alongside the result. Unknown
	// names fail with ErrInvalidArgument.
	Include []string
	// OrderBy defaults to the identity key ascending so Skip/Take windows
	// are stable.
	OrderBy []Order
	// Skip drops the first Skip records; values past the end yield an empty
	// result, not an error.
	Skip int
	// Take caps the result size. Zero or negative means no cap.
	Take int
}
