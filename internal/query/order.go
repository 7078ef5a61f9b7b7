package query

// Aggregate selects how an Order reads its value.
type Aggregate string

const (
	// AggNone orders by a plain field.
	AggNone Aggregate = ""
	// AggCount orders by the number of rows in a to-many relation.
	AggCount Aggregate = "count"
	// AggAvg orders by the mean of a numeric field over a to-many relation,
	// with rows that have no related rows ranking as zero.
	AggAvg Aggregate = "avg"
)

// Order is one ORDER BY term.
//
// For AggNone, Field is a field path. For AggCount, Field is the relation
// name ("reviews"). For AggAvg, Field is "relation.field" ("reviews.rating").
type Order struct {
	Field     string
	Aggregate Aggregate
	Desc      bool
	// Fold compares text case-insensitively.
	Fold bool
}

func Asc(field string) Order {
	return Order{Field: field}
}

func Desc(field string) Order {
	return Order{Field: field, Desc: true}
}

// FoldAsc orders text ascending, ignoring case.
func FoldAsc(field string) Order {
	return Order{Field: field, Fold: true}
}

func CountDesc(relation string) Order {
	return Order{Field: relation, Aggregate: AggCount, Desc: true}
}

func AvgDesc(relationField string) Order {
	return Order{Field: relationField, Aggregate: AggAvg, Desc: true}
}

// Key identifies the aggregate expression an Order needs, e.g. "avg:reviews.rating".
func (o Order) Key() string {
	if o.Aggregate == AggNone {
		return o.Field
	}
	return string(o.Aggregate) + ":" + o.Field
}

// Find is one paginated, ordered fetch.
type Find struct {
	Where   Predicate
	Include []string
	OrderBy []Order
	Skip    int
	Take    int
}

// Group is one row of a grouped count.
type Group struct {
	Value string
	Count int64
}
