// Package analytics implements the budget analytics engine: monthly
// aggregation, budget evaluation and the 50-30-20 recommendation rules.
// Everything here is a pure function over explicit arguments; nothing is
// persisted and nothing reads ambient state.
package analytics

const (
	Needs Bucket = "NEEDS"
	Wants Bucket = "WANTS"
)

// Bucket is a 50-30-20 spending bucket: essential (NEEDS) or
// discretionary (WANTS).
type Bucket string

// categoryBuckets is the fixed classification table. Lookup is exact and
// case-sensitive on canonical category names.
var categoryBuckets = map[string]Bucket{
	"Food":          Needs,
	"Rent":          Needs,
	"Utilities":     Needs,
	"General":       Needs,
	"Travel":        Wants,
	"Shopping":      Wants,
	"Entertainment": Wants,
	"Other":         Wants,
}

// Classify maps a category label to its bucket. Categories absent from
// the table resolve to Wants, never fail.
func Classify(category string) Bucket {
	if b, ok := categoryBuckets[category]; ok {
		return b
	}
	return Wants
}
