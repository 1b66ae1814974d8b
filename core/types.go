// Package core defines the shared types, interfaces, and format registry
// for metadata-copy.
package core

import "time"

// Well-known metadata field names. These are the fields every codec maps
// onto a dedicated accessor of its format; everything else travels through
// the generic key/value path.
const (
	KeyTitle    = "Title"
	KeyAuthor   = "Author"
	KeySubject  = "Subject"
	KeyKeywords = "Keywords"
	KeyCreator  = "Creator"
	KeyProducer = "Producer"

	// Reserved keys with date semantics.
	KeyCreationDate = "CreationDate"
	KeyModDate      = "ModDate"
)

// IsDateKey reports whether key is one of the two reserved date fields.
func IsDateKey(key string) bool {
	return key == KeyCreationDate || key == KeyModDate
}

// Field is a single metadata key/value pair.
type Field struct {
	Key   string // Canonical field name (e.g. "Title", "Author", "XCustomTag")
	Value string // Text value; date fields hold RFC 3339 text
}

// Dictionary is an ordered, case-sensitive mapping of field names to text
// values. Insertion order is preserved for display; Set overwrites in place
// without reordering.
type Dictionary struct {
	fields []Field
	index  map[string]int
}

// NewDictionary returns an empty Dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{index: make(map[string]int)}
}

// Set stores value under key, overwriting any previous value. A key keeps
// its original position when overwritten.
func (d *Dictionary) Set(key, value string) {
	if i, ok := d.index[key]; ok {
		d.fields[i].Value = value
		return
	}
	d.index[key] = len(d.fields)
	d.fields = append(d.fields, Field{Key: key, Value: value})
}

// SetTime stores a date value under key as RFC 3339 text.
func (d *Dictionary) SetTime(key string, t time.Time) {
	d.Set(key, FormatDate(t))
}

// Get returns the value stored under key.
func (d *Dictionary) Get(key string) (string, bool) {
	i, ok := d.index[key]
	if !ok {
		return "", false
	}
	return d.fields[i].Value, true
}

// Has reports whether key is present.
func (d *Dictionary) Has(key string) bool {
	_, ok := d.index[key]
	return ok
}

// Len returns the number of fields.
func (d *Dictionary) Len() int { return len(d.fields) }

// Fields returns the fields in insertion order. The returned slice is a
// copy; mutating it does not affect the Dictionary.
func (d *Dictionary) Fields() []Field {
	out := make([]Field, len(d.fields))
	copy(out, d.fields)
	return out
}

// Keys returns the field names in insertion order.
func (d *Dictionary) Keys() []string {
	out := make([]string, len(d.fields))
	for i, f := range d.fields {
		out[i] = f.Key
	}
	return out
}

// Document is the opaque, mutable in-memory form of one parsed file. A
// Document is owned by a single transfer operation: created by Codec.Parse,
// mutated through the setters, serialized once, then discarded.
type Document interface {
	SetTitle(string) error
	SetAuthor(string) error
	SetSubject(string) error
	SetKeywords(string) error
	SetCreator(string) error
	SetProducer(string) error
	SetCreationDate(time.Time) error
	SetModificationDate(time.Time) error

	// SetField writes value under an arbitrary key, creating the slot if
	// absent and overwriting if present. It must accept any key string.
	SetField(key, value string) error

	// Metadata re-reads the document's full metadata dictionary,
	// well-known fields and custom entries alike.
	Metadata() (*Dictionary, error)

	// Serialize renders the document back to bytes.
	Serialize() ([]byte, error)
}

// Decoder reads metadata from raw bytes without mutating anything.
// Formats that only ever act as transfer sources implement just this.
type Decoder interface {
	// Info returns format capabilities.
	Info() FormatInfo
	// Decode parses data and returns its metadata dictionary.
	Decode(data []byte) (*Dictionary, error)
}

// Codec is a Decoder whose format also supports metadata writes.
type Codec interface {
	Decoder
	// Parse produces a mutable Document from raw bytes.
	Parse(data []byte) (Document, error)
}

// FormatInfo describes what a format handler supports.
type FormatInfo struct {
	Name       string   // "PDF"
	Extensions []string // [".pdf"]
	MIMETypes  []string
	CanWrite   bool     // Whether the format can be a transfer target
	WellKnown  []string // Well-known keys the format maps to dedicated slots
	Notes      string   // Any caveats or notes
}
