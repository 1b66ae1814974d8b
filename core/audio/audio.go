// Package audio handles metadata for audio formats. MP3 is a full codec on
// ID3v2.4 frames; FLAC, OGG, and M4A are read-only sources decoded with
// dhowden/tag.
package audio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"

	"github.com/mocreac/metadata-copy/core"
)

// Well-known fields map onto ID3v2.4 text frames. Creator and Producer
// (the creating and converting applications) land on the software frames,
// the two date fields on recording and tagging time.
var frameIDs = map[string]string{
	core.KeyTitle:    "TIT2",
	core.KeySubject:  "TIT3",
	core.KeyAuthor:   "TPE1",
	core.KeyCreator:  "TSSE",
	core.KeyProducer: "TENC",
}

const (
	frameCreated = "TDRC"
	frameTagged  = "TDTG"
	id3TimeFmt   = "2006-01-02T15:04:05"
)

// Codec implements core.Codec for MP3 files.
type Codec struct{}

// NewCodec returns an MP3 codec.
func NewCodec() *Codec { return &Codec{} }

func (c *Codec) Info() core.FormatInfo {
	return core.FormatInfo{
		Name:       "MP3",
		Extensions: []string{".mp3"},
		MIMETypes:  []string{"audio/mpeg"},
		CanWrite:   true,
		WellKnown: []string{
			core.KeyTitle, core.KeyAuthor, core.KeySubject, core.KeyKeywords,
			core.KeyCreator, core.KeyProducer, core.KeyCreationDate, core.KeyModDate,
		},
		Notes: "ID3v2.4 tag; custom fields as TXXX frames. Audio frames pass through untouched.",
	}
}

type document struct {
	tag *id3v2.Tag
	// audio is everything after the original tag, carried through verbatim.
	audio []byte
}

// Parse reads the leading ID3v2 tag and keeps the remaining audio stream.
// A file without a tag gets an empty one.
func (c *Codec) Parse(data []byte) (core.Document, error) {
	t, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{Parse: true})
	if err != nil {
		return nil, &core.CorruptDocumentError{Format: "MP3", Err: err}
	}
	off := int(t.Size())
	if off < 0 || off > len(data) {
		off = 0
	}
	return &document{tag: t, audio: data[off:]}, nil
}

// Decode reads the metadata dictionary without keeping a handle.
func (c *Codec) Decode(data []byte) (*core.Dictionary, error) {
	doc, err := c.Parse(data)
	if err != nil {
		return nil, err
	}
	return doc.Metadata()
}

func (d *document) setFrame(id, value string) error {
	d.tag.AddTextFrame(id, id3v2.EncodingUTF8, value)
	return nil
}

func (d *document) SetTitle(s string) error    { return d.setFrame(frameIDs[core.KeyTitle], s) }
func (d *document) SetAuthor(s string) error   { return d.setFrame(frameIDs[core.KeyAuthor], s) }
func (d *document) SetSubject(s string) error  { return d.setFrame(frameIDs[core.KeySubject], s) }
func (d *document) SetCreator(s string) error  { return d.setFrame(frameIDs[core.KeyCreator], s) }
func (d *document) SetProducer(s string) error { return d.setFrame(frameIDs[core.KeyProducer], s) }

// Keywords has no dedicated ID3 frame; it rides a TXXX like custom fields.
func (d *document) SetKeywords(s string) error { return d.SetField(core.KeyKeywords, s) }

func (d *document) SetCreationDate(t time.Time) error {
	return d.setFrame(frameCreated, t.UTC().Format(id3TimeFmt))
}

func (d *document) SetModificationDate(t time.Time) error {
	return d.setFrame(frameTagged, t.UTC().Format(id3TimeFmt))
}

// SetField stores value as a user-defined text frame (TXXX) keyed by its
// description, overwriting an existing frame with the same description.
func (d *document) SetField(key, value string) error {
	frames := d.tag.GetFrames("TXXX")
	kept := make([]id3v2.UserDefinedTextFrame, 0, len(frames))
	for _, f := range frames {
		udt, ok := f.(id3v2.UserDefinedTextFrame)
		if !ok || udt.Description == key {
			continue
		}
		kept = append(kept, udt)
	}
	d.tag.DeleteFrames("TXXX")
	for _, udt := range kept {
		d.tag.AddUserDefinedTextFrame(udt)
	}
	d.tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
		Encoding:    id3v2.EncodingUTF8,
		Description: key,
		Value:       value,
	})
	return nil
}

// Metadata reads the tag back into a dictionary: well-known frames first,
// then the remaining text frames by frame ID, then TXXX fields by
// description.
func (d *document) Metadata() (*core.Dictionary, error) {
	md := core.NewDictionary()
	add := func(key, val string) {
		if val != "" {
			md.Set(key, val)
		}
	}

	add(core.KeyTitle, d.tag.Title())
	add(core.KeyAuthor, d.tag.Artist())
	add(core.KeySubject, d.textFrame("TIT3"))
	add(core.KeyCreator, d.textFrame("TSSE"))
	add(core.KeyProducer, d.textFrame("TENC"))
	d.addDate(md, core.KeyCreationDate, d.textFrame(frameCreated))
	d.addDate(md, core.KeyModDate, d.textFrame(frameTagged))

	seen := map[string]bool{
		"TIT2": true, "TPE1": true, "TIT3": true, "TSSE": true, "TENC": true,
		frameCreated: true, frameTagged: true, "TXXX": true,
	}
	var rest []string
	for id := range d.tag.AllFrames() {
		if !seen[id] && strings.HasPrefix(id, "T") {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		add(id, d.textFrame(id))
	}

	for _, f := range d.tag.GetFrames("TXXX") {
		if udt, ok := f.(id3v2.UserDefinedTextFrame); ok {
			md.Set(udt.Description, udt.Value)
		}
	}
	return md, nil
}

func (d *document) addDate(md *core.Dictionary, key, raw string) {
	if raw == "" {
		return
	}
	if t, ok := core.ParseDate(raw); ok {
		md.SetTime(key, t)
		return
	}
	md.Set(key, raw)
}

func (d *document) textFrame(id string) string {
	return strings.TrimRight(d.tag.GetTextFrame(id).Text, "\x00")
}

// Serialize writes the tag followed by the untouched audio stream.
func (d *document) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.tag.WriteTo(&buf); err != nil {
		return nil, err
	}
	buf.Write(d.audio)
	return buf.Bytes(), nil
}

// ─── Read-only sources ───────────────────────────────────────────────────────

// Decoder reads metadata from the tag-library formats (FLAC, OGG, M4A) that
// only act as transfer sources.
type Decoder struct {
	format core.FormatID
}

// NewDecoder returns a read-only audio decoder for the given format.
func NewDecoder(format core.FormatID) *Decoder { return &Decoder{format: format} }

var decoderInfo = map[core.FormatID]core.FormatInfo{
	core.FmtFLAC: {
		Name:       "FLAC",
		Extensions: []string{".flac"},
		MIMETypes:  []string{"audio/flac"},
		Notes:      "Vorbis Comment metadata. Source only.",
	},
	core.FmtOGG: {
		Name:       "OGG",
		Extensions: []string{".ogg", ".oga"},
		MIMETypes:  []string{"audio/ogg"},
		Notes:      "Vorbis Comment metadata. Source only.",
	},
	core.FmtM4A: {
		Name:       "M4A/AAC",
		Extensions: []string{".m4a", ".aac"},
		MIMETypes:  []string{"audio/mp4", "audio/aac"},
		Notes:      "iTunes-style MP4 atoms. Source only.",
	},
}

func (d *Decoder) Info() core.FormatInfo {
	return decoderInfo[d.format]
}

// Decode maps the tag library's fields onto the canonical names: Title and
// Artist→Author up front, the rest of the raw tags after.
func (d *Decoder) Decode(data []byte) (*core.Dictionary, error) {
	t, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, &core.CorruptDocumentError{Format: decoderInfo[d.format].Name, Err: err}
	}

	md := core.NewDictionary()
	add := func(key, val string) {
		if val != "" {
			md.Set(key, val)
		}
	}
	add(core.KeyTitle, t.Title())
	add(core.KeyAuthor, t.Artist())
	add("Album", t.Album())
	add("AlbumArtist", t.AlbumArtist())
	add("Composer", t.Composer())
	add("Genre", t.Genre())
	add("Comment", t.Comment())
	if t.Year() != 0 {
		add("Year", fmt.Sprintf("%d", t.Year()))
	}

	// Remaining raw tags, keys as the format spells them.
	var rest []string
	raw := t.Raw()
	for k := range raw {
		switch strings.ToLower(k) {
		case "title", "artist", "album", "albumartist", "composer",
			"genre", "comment", "year", "date":
			continue
		}
		rest = append(rest, k)
	}
	sort.Strings(rest)
	for _, k := range rest {
		v := raw[k]
		if v == nil {
			continue
		}
		valStr := ""
		switch vt := v.(type) {
		case string:
			valStr = vt
		case []string:
			valStr = strings.Join(vt, "; ")
		case int:
			valStr = fmt.Sprintf("%d", vt)
		default:
			b, _ := json.Marshal(v)
			valStr = string(b)
		}
		if valStr != "" && len(valStr) < 512 {
			md.Set(k, valStr)
		}
	}
	return md, nil
}
