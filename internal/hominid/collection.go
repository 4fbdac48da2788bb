package hominid

// Collection is the read-only set of records loaded at startup.
type Collection struct {
	records []Record
}

// NewCollection takes ownership of a copy of recs.
func NewCollection(recs []Record) *Collection {
	cp := make([]Record, len(recs))
	copy(cp, recs)
	return &Collection{records: cp}
}

// Len returns the number of records.
func (c *Collection) Len() int { return len(c.records) }

// Records returns a copy of the records in load order.
func (c *Collection) Records() []Record {
	cp := make([]Record, len(c.records))
	copy(cp, c.records)
	return cp
}

// Group is one bucket of the grouping primitive.
type Group struct {
	Key    string
	Values []float64
}

// Selectors for the numeric fields commonly grouped on.
var (
	Ratio           = Record.SkullBodyRatio
	CranialCapacity = Record.CranialCapacity
	Height          = Record.Height
)

// GroupBy partitions records by key, keeping keys in first-seen order.
func GroupBy(recs []Record, key func(Record) string, value func(Record) float64) []Group {
	idx := map[string]int{}
	var out []Group
	for _, r := range recs {
		k := key(r)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, Group{Key: k})
		}
		out[i].Values = append(out[i].Values, value(r))
	}
	return out
}

// BySpecies groups values by species in order of first appearance.
func BySpecies(recs []Record, value func(Record) float64) []Group {
	return GroupBy(recs, Record.Species, value)
}

// ByTechType groups values over the fixed TechType domain in declared order.
// Tech types with no records are omitted, as are records with an undeclared tech type.
func ByTechType(recs []Record, value func(Record) float64) []Group {
	buckets := make([][]float64, len(techNames))
	for _, r := range recs {
		if !r.tech.Valid() {
			continue
		}
		buckets[r.tech] = append(buckets[r.tech], value(r))
	}
	var out []Group
	for _, t := range AllTechTypes() {
		if len(buckets[t]) == 0 {
			continue
		}
		out = append(out, Group{Key: t.String(), Values: buckets[t]})
	}
	return out
}

// Filter returns the records for which keep reports true.
func Filter(recs []Record, keep func(Record) bool) []Record {
	var out []Record
	for _, r := range recs {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Flatten concatenates the values of all groups.
func Flatten(groups []Group) []float64 {
	var out []float64
	for _, g := range groups {
		out = append(out, g.Values...)
	}
	return out
}

// Keys returns the group keys in order.
func Keys(groups []Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Key
	}
	return out
}

// Values returns the value slices of groups in order.
func Values(groups []Group) [][]float64 {
	out := make([][]float64, len(groups))
	for i, g := range groups {
		out[i] = g.Values
	}
	return out
}
