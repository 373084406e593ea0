package table

// Row is the mapping from column name to extracted text accumulated
// while parsing one logical table row, plus the optional integer key
// identifying the row.
type Row struct {
	fields map[string]string
	key    int
	hasKey bool
}

// NewRow returns an empty row.
func NewRow() Row {
	return Row{fields: make(map[string]string)}
}

// Set stores a column value.
func (r *Row) Set(name, value string) {
	r.fields[name] = value
}

// Append concatenates a continuation value onto an already-filled
// multiline column.
func (r *Row) Append(name, value string) {
	r.fields[name] = r.fields[name] + " " + value
}

// Get returns a column value ("" when unset).
func (r Row) Get(name string) string {
	return r.fields[name]
}

// Has reports whether a column has been filled.
func (r Row) Has(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// SetKey records the row's key value.
func (r *Row) SetKey(key int) {
	r.key = key
	r.hasKey = true
}

// Key returns the row's key and whether one was set.
func (r Row) Key() (int, bool) {
	return r.key, r.hasKey
}

// Len returns the number of filled columns.
func (r Row) Len() int {
	return len(r.fields)
}
