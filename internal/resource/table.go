package resource

import (
	"encoding/json"
	"fmt"
)

// Pair is one (key, value) entry of a flattened table. Every keyed numeric
// table crosses the wire as an ordered array of pairs, and rebuilds into the
// same table on load.
type Pair struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// Table is an ordered dictionary of string keys to float64 values. Iteration
// and serialization follow insertion order, which keeps output deterministic;
// simulation correctness itself never depends on ordering.
type Table struct {
	keys []string
	vals map[string]float64
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{vals: make(map[string]float64)}
}

// Set assigns v to key, appending the key on first use.
func (t *Table) Set(key string, v float64) {
	if _, ok := t.vals[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.vals[key] = v
}

// Add increments key by delta, creating it at delta if absent.
func (t *Table) Add(key string, delta float64) {
	t.Set(key, t.vals[key]+delta)
}

// Get returns the value for key, zero if absent.
func (t *Table) Get(key string) float64 {
	return t.vals[key]
}

// Has reports whether key is present.
func (t *Table) Has(key string) bool {
	_, ok := t.vals[key]
	return ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.keys)
}

// Keys returns the keys in insertion order.
func (t *Table) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Walk visits every entry in insertion order.
func (t *Table) Walk(fn func(key string, v float64)) {
	for _, k := range t.keys {
		fn(k, t.vals[k])
	}
}

// Pairs flattens the table to its wire form.
func (t *Table) Pairs() []Pair {
	out := make([]Pair, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, Pair{Key: k, Value: t.vals[k]})
	}
	return out
}

// FromPairs rebuilds a table from its wire form. Duplicate keys are rejected
// rather than silently merged.
func FromPairs(pairs []Pair) (*Table, error) {
	t := NewTable()
	for _, p := range pairs {
		if t.Has(p.Key) {
			return nil, fmt.Errorf("duplicate table key %q", p.Key)
		}
		t.Set(p.Key, p.Value)
	}
	return t, nil
}

// Clone returns an independent copy.
func (t *Table) Clone() *Table {
	out := NewTable()
	t.Walk(out.Set)
	return out
}

// MarshalJSON emits the ordered array-of-pairs form.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Pairs())
}

// UnmarshalJSON rebuilds the table from the array-of-pairs form.
func (t *Table) UnmarshalJSON(data []byte) error {
	var pairs []Pair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	rebuilt, err := FromPairs(pairs)
	if err != nil {
		return err
	}
	*t = *rebuilt
	return nil
}
