// Package pdf implements the PDF codec on top of pdfcpu. Metadata lives in
// the document information dictionary (ISO 32000 14.3.3): the six standard
// text fields, the two date fields, and any number of custom entries.
package pdf

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/unicode"

	"github.com/mocreac/metadata-copy/core"
)

// infoFieldOrder is the display order for standard Info dict keys; custom
// keys follow, sorted.
var infoFieldOrder = []string{
	core.KeyTitle, core.KeyAuthor, core.KeySubject, core.KeyKeywords,
	core.KeyCreator, core.KeyProducer, core.KeyCreationDate, core.KeyModDate,
}

// Codec implements core.Codec for PDF files.
type Codec struct {
	conf *model.Configuration
}

// NewCodec returns a PDF codec with the default pdfcpu configuration.
func NewCodec() *Codec {
	return &Codec{conf: model.NewDefaultConfiguration()}
}

func (c *Codec) Info() core.FormatInfo {
	return core.FormatInfo{
		Name:       "PDF",
		Extensions: []string{".pdf"},
		MIMETypes:  []string{"application/pdf"},
		CanWrite:   true,
		WellKnown:  infoFieldOrder,
		Notes:      "Document information dictionary, custom entries included.",
	}
}

// Parse reads and validates data into a mutable document. pdfcpu panics on
// some malformed cross-reference data, so a reader panic counts as
// corruption too.
func (c *Codec) Parse(data []byte) (doc core.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &core.CorruptDocumentError{Format: "PDF", Err: fmt.Errorf("reader panic: %v", r)}
		}
	}()
	ctx, err := api.ReadContext(bytes.NewReader(data), c.conf)
	if err != nil {
		return nil, &core.CorruptDocumentError{Format: "PDF", Err: err}
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, &core.CorruptDocumentError{Format: "PDF", Err: err}
	}
	return &document{ctx: ctx, orig: data}, nil
}

// Decode reads the metadata dictionary without keeping a handle.
func (c *Codec) Decode(data []byte) (*core.Dictionary, error) {
	doc, err := c.Parse(data)
	if err != nil {
		return nil, err
	}
	return doc.Metadata()
}

type document struct {
	ctx *model.Context
	// orig holds the bytes the context was read from. Serialize appends an
	// incremental update to them.
	orig  []byte
	dirty bool
}

// infoDict returns the document's Info dictionary, creating an empty one if
// the file has none.
func (d *document) infoDict() (types.Dict, error) {
	if d.ctx.Info == nil {
		dict := types.NewDict()
		ir, err := d.ctx.IndRefForNewObject(dict)
		if err != nil {
			return nil, err
		}
		d.ctx.Info = ir
		return dict, nil
	}
	obj, err := d.ctx.Dereference(*d.ctx.Info)
	if err != nil {
		return nil, err
	}
	dict, ok := obj.(types.Dict)
	if !ok {
		return nil, fmt.Errorf("Info is not a dictionary")
	}
	return dict, nil
}

// set writes an Info dict entry and marks the dict for the next increment.
func (d *document) set(key string, obj types.Object) error {
	dict, err := d.infoDict()
	if err != nil {
		return err
	}
	dict[key] = obj
	d.ctx.Write.IncrementWithObjNr(d.ctx.Info.ObjectNumber.Value())
	d.dirty = true
	return nil
}

func (d *document) setText(key, value string) error {
	obj, err := textObject(value)
	if err != nil {
		return err
	}
	return d.set(key, obj)
}

func (d *document) setDate(key string, t time.Time) error {
	return d.set(key, types.StringLiteral(types.DateString(t)))
}

func (d *document) SetTitle(s string) error    { return d.setText("Title", s) }
func (d *document) SetAuthor(s string) error   { return d.setText("Author", s) }
func (d *document) SetSubject(s string) error  { return d.setText("Subject", s) }
func (d *document) SetKeywords(s string) error { return d.setText("Keywords", s) }
func (d *document) SetCreator(s string) error  { return d.setText("Creator", s) }
func (d *document) SetProducer(s string) error { return d.setText("Producer", s) }

func (d *document) SetCreationDate(t time.Time) error { return d.setDate("CreationDate", t) }
func (d *document) SetModificationDate(t time.Time) error {
	return d.setDate("ModDate", t)
}

// SetField writes a custom Info dict entry under the exact key name. Any
// key string is accepted; PDF names escape arbitrary bytes.
func (d *document) SetField(key, value string) error {
	return d.setText(key, value)
}

// Metadata reads the full Info dictionary: standard fields in their
// conventional order first, then custom entries sorted by key. Date values
// are canonicalized to RFC 3339.
func (d *document) Metadata() (*core.Dictionary, error) {
	md := core.NewDictionary()
	if d.ctx.Info == nil {
		return md, nil
	}
	dict, err := d.infoDict()
	if err != nil {
		return nil, err
	}

	standard := make(map[string]bool, len(infoFieldOrder))
	for _, k := range infoFieldOrder {
		standard[k] = true
	}

	read := func(key string) error {
		obj, ok := dict[key]
		if !ok {
			return nil
		}
		s, err := d.text(obj)
		if err != nil {
			return err
		}
		if core.IsDateKey(key) {
			if t, ok := core.ParseDate(s); ok {
				md.SetTime(key, t)
				return nil
			}
		}
		md.Set(key, s)
		return nil
	}

	for _, k := range infoFieldOrder {
		if err := read(k); err != nil {
			return nil, err
		}
	}
	var custom []string
	for k := range dict {
		if !standard[k] && k != "Trapped" {
			custom = append(custom, k)
		}
	}
	sort.Strings(custom)
	for _, k := range custom {
		if err := read(k); err != nil {
			return nil, err
		}
	}
	return md, nil
}

// Serialize appends the mutated Info dictionary as an incremental update
// after the original bytes. A full rewrite would let pdfcpu restamp
// Producer, CreationDate, and ModDate with its own values; the incremental
// path writes the dictionary exactly as set.
func (d *document) Serialize() ([]byte, error) {
	if !d.dirty {
		return d.orig, nil
	}
	var buf bytes.Buffer
	buf.Write(d.orig)
	d.ctx.Write.Increment = true
	d.ctx.Write.Offset = d.ctx.Read.FileSize
	if err := api.WriteIncrement(d.ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// text resolves a string object to UTF-8 text. Info dict strings are either
// literal or hex encoded, PDFDocEncoding or UTF-16BE.
func (d *document) text(o types.Object) (string, error) {
	obj, err := d.ctx.Dereference(o)
	if err != nil {
		return "", err
	}
	switch s := obj.(type) {
	case types.StringLiteral:
		return types.StringLiteralToString(s)
	case types.HexLiteral:
		return types.HexLiteralToString(s)
	case types.Name:
		return s.Value(), nil
	default:
		return "", fmt.Errorf("unexpected Info value type %T", obj)
	}
}

// textObject encodes s as a UTF-16BE hex string with BOM. That form is
// valid for every Unicode value and round-trips losslessly.
func textObject(s string) (types.Object, error) {
	enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	b, err := enc.Bytes([]byte(s))
	if err != nil {
		return nil, err
	}
	return types.NewHexLiteral(b), nil
}
