// Package opc implements the codec for OPC containers (DOCX, XLSX, PPTX).
//
// Well-known fields live in docProps/core.xml as Dublin Core elements, the
// two date fields as dcterms W3CDTF values. Arbitrary custom fields go to
// docProps/custom.xml properties, whose part, content-type override, and
// package relationship are created on demand.
package opc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mocreac/metadata-copy/core"
)

const (
	corePart        = "docProps/core.xml"
	customPart      = "docProps/custom.xml"
	contentTypes    = "[Content_Types].xml"
	packageRels     = "_rels/.rels"
	customPropFmtid = "{D5CDD505-2E9C-101B-9397-08002B2CF9AE}"
)

// coreXMLNames maps canonical field names to core.xml element names.
var coreXMLNames = map[string]string{
	core.KeyTitle:    "dc:title",
	core.KeySubject:  "dc:subject",
	core.KeyAuthor:   "dc:creator",
	core.KeyKeywords: "cp:keywords",
	"Description":    "dc:description",
	"LastModifiedBy": "cp:lastModifiedBy",
	"Category":       "cp:category",
	"ContentStatus":  "cp:contentStatus",
}

// Codec implements core.Codec for one member of the OPC family.
type Codec struct {
	format core.FormatID
}

// NewCodec returns an OPC codec for the given format.
func NewCodec(format core.FormatID) *Codec { return &Codec{format: format} }

var formatInfo = map[core.FormatID]core.FormatInfo{
	core.FmtDOCX: {
		Name:       "DOCX",
		Extensions: []string{".docx", ".docm"},
		MIMETypes:  []string{"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	},
	core.FmtXLSX: {
		Name:       "XLSX",
		Extensions: []string{".xlsx", ".xlsm"},
		MIMETypes:  []string{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	},
	core.FmtPPTX: {
		Name:       "PPTX",
		Extensions: []string{".pptx", ".pptm"},
		MIMETypes:  []string{"application/vnd.openxmlformats-officedocument.presentationml.presentation"},
	},
}

func (c *Codec) Info() core.FormatInfo {
	info := formatInfo[c.format]
	info.CanWrite = true
	info.WellKnown = []string{
		core.KeyTitle, core.KeyAuthor, core.KeySubject, core.KeyKeywords,
		core.KeyCreationDate, core.KeyModDate,
	}
	info.Notes = "OPC ZIP container: docProps/core.xml plus docProps/custom.xml."
	return info
}

// entry is one file of the container, held in memory.
type entry struct {
	name string
	data []byte
}

type document struct {
	format  core.FormatID
	entries []entry
	index   map[string]int
}

// Parse loads the whole container into memory.
func (c *Codec) Parse(data []byte) (core.Document, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &core.CorruptDocumentError{Format: formatInfo[c.format].Name, Err: err}
	}
	d := &document{format: c.format, index: make(map[string]int)}
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			return nil, &core.CorruptDocumentError{Format: formatInfo[c.format].Name, Err: err}
		}
		var buf bytes.Buffer
		_, err = buf.ReadFrom(rc)
		rc.Close()
		if err != nil {
			return nil, &core.CorruptDocumentError{Format: formatInfo[c.format].Name, Err: err}
		}
		d.index[f.Name] = len(d.entries)
		d.entries = append(d.entries, entry{name: f.Name, data: buf.Bytes()})
	}
	return d, nil
}

// Decode reads the metadata dictionary without keeping a handle.
func (c *Codec) Decode(data []byte) (*core.Dictionary, error) {
	doc, err := c.Parse(data)
	if err != nil {
		return nil, err
	}
	return doc.Metadata()
}

func (d *document) part(name string) ([]byte, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.entries[i].data, true
}

func (d *document) setPart(name string, data []byte) {
	if i, ok := d.index[name]; ok {
		d.entries[i].data = data
		return
	}
	d.index[name] = len(d.entries)
	d.entries = append(d.entries, entry{name: name, data: data})
}

// ─── Setters ─────────────────────────────────────────────────────────────────

func (d *document) SetTitle(s string) error    { return d.setCoreElement("dc:title", "", s) }
func (d *document) SetAuthor(s string) error   { return d.setCoreElement("dc:creator", "", s) }
func (d *document) SetSubject(s string) error  { return d.setCoreElement("dc:subject", "", s) }
func (d *document) SetKeywords(s string) error { return d.setCoreElement("cp:keywords", "", s) }

// Creator and Producer have no core-properties slot; they are carried as
// custom properties under their canonical names.
func (d *document) SetCreator(s string) error  { return d.setCustomProperty("Creator", s) }
func (d *document) SetProducer(s string) error { return d.setCustomProperty("Producer", s) }

func (d *document) SetCreationDate(t time.Time) error {
	return d.setCoreElement("dcterms:created", ` xsi:type="dcterms:W3CDTF"`, t.UTC().Format(time.RFC3339))
}

func (d *document) SetModificationDate(t time.Time) error {
	return d.setCoreElement("dcterms:modified", ` xsi:type="dcterms:W3CDTF"`, t.UTC().Format(time.RFC3339))
}

// SetField routes keys with a core-properties slot to core.xml and
// everything else to a custom property. Custom property names accept any
// key string.
func (d *document) SetField(key, value string) error {
	if tag, ok := coreXMLNames[key]; ok {
		return d.setCoreElement(tag, "", value)
	}
	return d.setCustomProperty(key, value)
}

// ─── core.xml ────────────────────────────────────────────────────────────────

const blankCoreXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
  xmlns:dc="http://purl.org/dc/elements/1.1/"
  xmlns:dcterms="http://purl.org/dc/terms/"
  xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
</cp:coreProperties>`

func (d *document) ensureCorePart() {
	if _, ok := d.part(corePart); ok {
		return
	}
	d.setPart(corePart, []byte(blankCoreXML))
	d.registerPart(corePart,
		"application/vnd.openxmlformats-package.core-properties+xml",
		"http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties",
		"rIdCoreProps")
}

// setCoreElement replaces or inserts one element of core.xml.
func (d *document) setCoreElement(tag, attrs, value string) error {
	d.ensureCorePart()
	data, _ := d.part(corePart)

	newEl := fmt.Sprintf("<%s%s>%s</%s>", tag, attrs, xmlEscape(value), tag)
	re := regexp.MustCompile(`<` + regexp.QuoteMeta(tag) + `[^>]*>[^<]*</` + regexp.QuoteMeta(tag) + `>`)
	reEmpty := regexp.MustCompile(`<` + regexp.QuoteMeta(tag) + `[^>]*/>`)

	switch {
	case re.Match(data):
		data = re.ReplaceAll(data, []byte(newEl))
	case reEmpty.Match(data):
		data = reEmpty.ReplaceAll(data, []byte(newEl))
	default:
		closing := []byte("</cp:coreProperties>")
		if !bytes.Contains(data, closing) {
			return fmt.Errorf("%s has no coreProperties element", corePart)
		}
		data = bytes.Replace(data, closing, []byte("\n  "+newEl+"\n</cp:coreProperties>"), 1)
	}
	d.setPart(corePart, data)
	return nil
}

// opcCoreProps mirrors the core-properties part, namespaces stripped.
type opcCoreProps struct {
	XMLName        xml.Name `xml:"coreProperties"`
	Title          string   `xml:"title"`
	Subject        string   `xml:"subject"`
	Creator        string   `xml:"creator"`
	Keywords       string   `xml:"keywords"`
	Description    string   `xml:"description"`
	LastModifiedBy string   `xml:"lastModifiedBy"`
	Revision       string   `xml:"revision"`
	Created        string   `xml:"created"`
	Modified       string   `xml:"modified"`
	Category       string   `xml:"category"`
	ContentStatus  string   `xml:"contentStatus"`
}

// ─── custom.xml ──────────────────────────────────────────────────────────────

const blankCustomXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/custom-properties"
  xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">
</Properties>`

func (d *document) ensureCustomPart() {
	if _, ok := d.part(customPart); ok {
		return
	}
	d.setPart(customPart, []byte(blankCustomXML))
	d.registerPart(customPart,
		"application/vnd.openxmlformats-officedocument.custom-properties+xml",
		"http://schemas.openxmlformats.org/officeDocument/2006/relationships/custom-properties",
		"rIdCustomProps")
}

var customPidRe = regexp.MustCompile(`pid="(\d+)"`)

// setCustomProperty replaces or appends one property of custom.xml.
func (d *document) setCustomProperty(key, value string) error {
	d.ensureCustomPart()
	data, _ := d.part(customPart)

	escKey := xmlEscape(key)
	re := regexp.MustCompile(`(?s)<property[^>]*name="` + regexp.QuoteMeta(escKey) + `"[^>]*>.*?</property>`)
	if loc := re.FindIndex(data); loc != nil {
		pid := "2"
		if m := customPidRe.FindSubmatch(data[loc[0]:loc[1]]); m != nil {
			pid = string(m[1])
		}
		data = append(data[:loc[0]], append([]byte(customPropertyXML(pid, escKey, value)), data[loc[1]:]...)...)
		d.setPart(customPart, data)
		return nil
	}

	// Property ids start at 2 per the custom-properties schema.
	maxPid := 1
	for _, m := range customPidRe.FindAllSubmatch(data, -1) {
		if n, err := strconv.Atoi(string(m[1])); err == nil && n > maxPid {
			maxPid = n
		}
	}
	newEl := customPropertyXML(strconv.Itoa(maxPid+1), escKey, value)
	closing := []byte("</Properties>")
	if !bytes.Contains(data, closing) {
		return fmt.Errorf("%s has no Properties element", customPart)
	}
	data = bytes.Replace(data, closing, []byte("\n  "+newEl+"\n</Properties>"), 1)
	d.setPart(customPart, data)
	return nil
}

func customPropertyXML(pid, escKey, value string) string {
	return fmt.Sprintf(`<property fmtid="%s" pid="%s" name="%s"><vt:lpwstr>%s</vt:lpwstr></property>`,
		customPropFmtid, pid, escKey, xmlEscape(value))
}

var customPropRe = regexp.MustCompile(`<property[^>]*name="([^"]*)"[^>]*>\s*<vt:[^>]+>([^<]*)</vt:`)

// ─── Part registration ───────────────────────────────────────────────────────

// registerPart adds the content-type override and package relationship for
// a newly created docProps part.
func (d *document) registerPart(partName, contentType, relType, relID string) {
	if ct, ok := d.part(contentTypes); ok && !bytes.Contains(ct, []byte(`PartName="/`+partName+`"`)) {
		override := fmt.Sprintf(`<Override PartName="/%s" ContentType="%s"/>`, partName, contentType)
		d.setPart(contentTypes, bytes.Replace(ct, []byte("</Types>"), []byte(override+"</Types>"), 1))
	}
	if rels, ok := d.part(packageRels); ok && !bytes.Contains(rels, []byte(`Target="`+partName+`"`)) {
		rel := fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"/>`, relID, relType, partName)
		d.setPart(packageRels, bytes.Replace(rels, []byte("</Relationships>"), []byte(rel+"</Relationships>"), 1))
	}
}

// ─── Metadata ────────────────────────────────────────────────────────────────

// Metadata reads core.xml and custom.xml into one dictionary: well-known
// fields first, remaining core properties next, custom properties last.
func (d *document) Metadata() (*core.Dictionary, error) {
	md := core.NewDictionary()

	if data, ok := d.part(corePart); ok {
		var props opcCoreProps
		if err := xml.Unmarshal(stripXMLNamespaces(data), &props); err != nil {
			return nil, fmt.Errorf("parse %s: %w", corePart, err)
		}
		add := func(k, v string) {
			if v != "" {
				md.Set(k, v)
			}
		}
		add(core.KeyTitle, props.Title)
		add(core.KeyAuthor, props.Creator)
		add(core.KeySubject, props.Subject)
		add(core.KeyKeywords, props.Keywords)
		addDate(md, core.KeyCreationDate, props.Created)
		addDate(md, core.KeyModDate, props.Modified)
		add("Description", props.Description)
		add("LastModifiedBy", props.LastModifiedBy)
		add("Revision", props.Revision)
		add("Category", props.Category)
		add("ContentStatus", props.ContentStatus)
	}

	if data, ok := d.part(customPart); ok {
		for _, m := range customPropRe.FindAllSubmatch(data, -1) {
			md.Set(xmlUnescape(string(m[1])), xmlUnescape(string(m[2])))
		}
	}
	return md, nil
}

func addDate(md *core.Dictionary, key, raw string) {
	if raw == "" {
		return
	}
	if t, ok := core.ParseDate(raw); ok {
		md.SetTime(key, t)
		return
	}
	md.Set(key, raw)
}

// Serialize rebuilds the container, entries in their original order.
func (d *document) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range d.entries {
		fw, err := w.Create(e.name)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(e.data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ─── XML helpers ─────────────────────────────────────────────────────────────

// stripXMLNamespaces removes namespace prefixes to simplify xml.Unmarshal.
func stripXMLNamespaces(data []byte) []byte {
	re := regexp.MustCompile(`\s+xmlns[^"]*"[^"]*"`)
	data = re.ReplaceAll(data, nil)
	re2 := regexp.MustCompile(`<(/?)[\w]+:`)
	data = re2.ReplaceAll(data, []byte("<$1"))
	return data
}

// xmlEscape escapes text for element content and attribute values alike;
// xml.EscapeText covers quotes too.
func xmlEscape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

var xmlUnescaper = strings.NewReplacer(
	"&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#34;", `"`,
	"&#39;", "'", "&apos;", "'",
	"&#xA;", "\n", "&#x9;", "\t", "&#xD;", "\r",
	"&amp;", "&",
)

func xmlUnescape(s string) string {
	return xmlUnescaper.Replace(s)
}
