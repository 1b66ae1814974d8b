// Package image handles metadata for image sources. JPEG EXIF is read-only:
// there is no transfer target here, only a source dictionary.
package image

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/mocreac/metadata-copy/core"
)

// Decoder implements core.Decoder for JPEG files.
type Decoder struct{}

// NewDecoder returns a JPEG EXIF decoder.
func NewDecoder() *Decoder { return &Decoder{} }

func (d *Decoder) Info() core.FormatInfo {
	return core.FormatInfo{
		Name:       "JPEG",
		Extensions: []string{".jpg", ".jpeg"},
		MIMETypes:  []string{"image/jpeg"},
		Notes:      "EXIF metadata. Source only.",
	}
}

// EXIF tags with a canonical counterpart. DateTimeOriginal is the capture
// time; the plain DateTime tag is the file change time.
var canonicalTags = map[exif.FieldName]string{
	exif.ImageDescription: core.KeyTitle,
	exif.Artist:           core.KeyAuthor,
	exif.Software:         core.KeyProducer,
	exif.DateTimeOriginal: core.KeyCreationDate,
	exif.DateTime:         core.KeyModDate,
}

// Decode walks every EXIF field into a dictionary. Canonically named
// fields keep their canonical key; the rest keep the EXIF tag name.
func (d *Decoder) Decode(data []byte) (*core.Dictionary, error) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &core.CorruptDocumentError{Format: "JPEG", Err: err}
	}

	md := core.NewDictionary()
	w := &walker{md: md}
	if err := x.Walk(w); err != nil {
		return nil, fmt.Errorf("walk EXIF: %w", err)
	}
	return md, nil
}

type walker struct {
	md *core.Dictionary
}

func (w *walker) Walk(name exif.FieldName, t *tiff.Tag) error {
	val := tagValue(t)
	if val == "" {
		return nil
	}
	key := string(name)
	if canonical, ok := canonicalTags[name]; ok {
		key = canonical
	}
	if core.IsDateKey(key) {
		if ts, ok := core.ParseDate(val); ok {
			w.md.SetTime(key, ts)
			return nil
		}
	}
	w.md.Set(key, val)
	return nil
}

func tagValue(t *tiff.Tag) string {
	if s, err := t.StringVal(); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.Trim(t.String(), `"`)
}
