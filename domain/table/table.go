package table

import (
	"math"

	"causalprep/internal/errors"
)

// Kind classifies a column's storage type
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "categorical"
}

// Column is an immutable, ordered sequence of values. Numeric columns use
// NaN as the missing marker, categorical columns use the empty string.
// Constructors copy their input and accessors copy on the way out, so a
// Column can be shared between table snapshots safely.
type Column struct {
	kind Kind
	nums []float64
	cats []string
}

// NewNumericColumn builds a numeric column from a copy of values
func NewNumericColumn(values []float64) Column {
	nums := make([]float64, len(values))
	copy(nums, values)
	return Column{kind: Numeric, nums: nums}
}

// NewCategoricalColumn builds a categorical column from a copy of values
func NewCategoricalColumn(values []string) Column {
	cats := make([]string, len(values))
	copy(cats, values)
	return Column{kind: Categorical, cats: cats}
}

// Kind returns the column kind
func (c Column) Kind() Kind {
	return c.kind
}

// Len returns the number of entries, missing included
func (c Column) Len() int {
	if c.kind == Numeric {
		return len(c.nums)
	}
	return len(c.cats)
}

// Float returns the numeric value at i, or NaN for categorical columns
func (c Column) Float(i int) float64 {
	if c.kind != Numeric {
		return math.NaN()
	}
	return c.nums[i]
}

// String returns the categorical value at i, or "" for numeric columns
func (c Column) String(i int) string {
	if c.kind != Categorical {
		return ""
	}
	return c.cats[i]
}

// IsMissing reports whether the entry at i is the missing marker
func (c Column) IsMissing(i int) bool {
	if c.kind == Numeric {
		return math.IsNaN(c.nums[i])
	}
	return c.cats[i] == ""
}

// MissingCount returns the number of missing entries
func (c Column) MissingCount() int {
	count := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			count++
		}
	}
	return count
}

// Floats returns a copy of the numeric values (nil for categorical columns)
func (c Column) Floats() []float64 {
	if c.kind != Numeric {
		return nil
	}
	out := make([]float64, len(c.nums))
	copy(out, c.nums)
	return out
}

// Strings returns a copy of the categorical values (nil for numeric columns)
func (c Column) Strings() []string {
	if c.kind != Categorical {
		return nil
	}
	out := make([]string, len(c.cats))
	copy(out, c.cats)
	return out
}

// NonMissingFloats returns the numeric values with missing entries dropped,
// preserving order
func (c Column) NonMissingFloats() []float64 {
	if c.kind != Numeric {
		return nil
	}
	out := make([]float64, 0, len(c.nums))
	for _, v := range c.nums {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Table is an in-memory tabular dataset: ordered, named columns of equal
// length. Derivations never mutate the receiver; they return new snapshots
// sharing unchanged columns.
type Table struct {
	names []string
	cols  map[string]Column
}

// New creates an empty table
func New() *Table {
	return &Table{cols: make(map[string]Column)}
}

// Rows returns the row count (0 for an empty table)
func (t *Table) Rows() int {
	if len(t.names) == 0 {
		return 0
	}
	return t.cols[t.names[0]].Len()
}

// SetColumn appends a new column or replaces an existing one in place.
// Intended for table construction; derived tables should use WithColumn.
func (t *Table) SetColumn(name string, col Column) error {
	if name == "" {
		return errors.ValidationError("column name cannot be empty")
	}
	if len(t.names) > 0 && col.Len() != t.Rows() {
		return errors.ValidationError("column length does not match table row count")
	}
	if _, exists := t.cols[name]; !exists {
		t.names = append(t.names, name)
	}
	t.cols[name] = col
	return nil
}

// Column returns the named column and whether it exists
func (t *Table) Column(name string) (Column, bool) {
	col, ok := t.cols[name]
	return col, ok
}

// HasColumn reports whether the named column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Names returns the column names in insertion order
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// NumericNames returns the names of numeric columns in insertion order
func (t *Table) NumericNames() []string {
	var out []string
	for _, name := range t.names {
		if t.cols[name].Kind() == Numeric {
			out = append(out, name)
		}
	}
	return out
}

// CategoricalNames returns the names of categorical columns in insertion order
func (t *Table) CategoricalNames() []string {
	var out []string
	for _, name := range t.names {
		if t.cols[name].Kind() == Categorical {
			out = append(out, name)
		}
	}
	return out
}

// Clone returns a shallow snapshot sharing the immutable columns
func (t *Table) Clone() *Table {
	names := make([]string, len(t.names))
	copy(names, t.names)
	cols := make(map[string]Column, len(t.cols))
	for name, col := range t.cols {
		cols[name] = col
	}
	return &Table{names: names, cols: cols}
}

// WithColumn returns a new snapshot with the named column added or replaced
func (t *Table) WithColumn(name string, col Column) (*Table, error) {
	out := t.Clone()
	if err := out.SetColumn(name, col); err != nil {
		return nil, err
	}
	return out, nil
}

// Without returns a new snapshot with the named columns removed. Names not
// present in the table are ignored.
func (t *Table) Without(names ...string) *Table {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		drop[name] = true
	}
	out := New()
	for _, name := range t.names {
		if !drop[name] {
			out.names = append(out.names, name)
			out.cols[name] = t.cols[name]
		}
	}
	return out
}
