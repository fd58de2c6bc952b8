package opml

// Record holds one outline element's attributes, keyed by internal field
// name. Only attributes present both in the attribute map and on the
// element are populated; absent fields are missing keys, never empty
// strings.
type Record map[string]string

// Get returns the value for an internal field name, or "" when the field
// was not present in the source document.
func (r Record) Get(field string) string {
	return r[field]
}

// Has reports whether the field was present in the source document.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Document is the eagerly materialized result of one parse: all outline
// records in document order, with a forward-only cursor that can be
// rewound with Reset.
type Document struct {
	records []Record
	pos     int
}

// Next returns the record under the cursor and advances it. The second
// return value is false once the sequence is exhausted.
func (d *Document) Next() (Record, bool) {
	if d.pos >= len(d.records) {
		return nil, false
	}
	rec := d.records[d.pos]
	d.pos++
	return rec, true
}

// Reset rewinds the cursor to the first record.
func (d *Document) Reset() {
	d.pos = 0
}

// Len returns the number of records in the document.
func (d *Document) Len() int {
	return len(d.records)
}

// Records returns the full record sequence in document order.
func (d *Document) Records() []Record {
	return d.records
}
