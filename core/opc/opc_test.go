package opc

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mocreac/metadata-copy/core"
)

const testContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>`

const testRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`

const testCoreXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
  xmlns:dc="http://purl.org/dc/elements/1.1/"
  xmlns:dcterms="http://purl.org/dc/terms/"
  xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
<dc:title>Old Title</dc:title>
<dc:creator>Old Author</dc:creator>
<cp:category>KeepMe</cp:category>
<dcterms:created xsi:type="dcterms:W3CDTF">2020-01-01T00:00:00Z</dcterms:created>
</cp:coreProperties>`

func buildContainer(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, p := range []struct{ name, data string }{
		{"[Content_Types].xml", testContentTypes},
		{"_rels/.rels", testRels},
		{"docProps/core.xml", testCoreXML},
		{"word/document.xml", `<?xml version="1.0"?><document/>`},
	} {
		fw, err := w.Create(p.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(p.data))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func readPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			b, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(b)
		}
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func TestDecodeReadsCoreProperties(t *testing.T) {
	c := NewCodec(core.FmtDOCX)
	md, err := c.Decode(buildContainer(t))
	require.NoError(t, err)

	get := func(k string) string {
		v, ok := md.Get(k)
		require.True(t, ok, "missing %s", k)
		return v
	}
	assert.Equal(t, "Old Title", get(core.KeyTitle))
	assert.Equal(t, "Old Author", get(core.KeyAuthor))
	assert.Equal(t, "KeepMe", get("Category"))
	assert.Equal(t, "2020-01-01T00:00:00Z", get(core.KeyCreationDate))
}

func TestSetWellKnownFieldsRoundTrip(t *testing.T) {
	c := NewCodec(core.FmtDOCX)
	doc, err := c.Parse(buildContainer(t))
	require.NoError(t, err)

	require.NoError(t, doc.SetTitle("Report"))
	require.NoError(t, doc.SetAuthor("A. Smith"))
	require.NoError(t, doc.SetKeywords("alpha, beta"))
	require.NoError(t, doc.SetCreationDate(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)))
	require.NoError(t, doc.SetModificationDate(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)))

	out, err := doc.Serialize()
	require.NoError(t, err)

	md, err := c.Decode(out)
	require.NoError(t, err)

	get := func(k string) string {
		v, ok := md.Get(k)
		require.True(t, ok, "missing %s", k)
		return v
	}
	assert.Equal(t, "Report", get(core.KeyTitle))
	assert.Equal(t, "A. Smith", get(core.KeyAuthor))
	assert.Equal(t, "alpha, beta", get(core.KeyKeywords))
	assert.Equal(t, "2024-03-01T12:30:00Z", get(core.KeyCreationDate))
	assert.Equal(t, "2024-06-01T08:00:00Z", get(core.KeyModDate))

	// Pre-existing fields the transfer never touched survive.
	assert.Equal(t, "KeepMe", get("Category"))
}

func TestSetFieldCreatesCustomPart(t *testing.T) {
	c := NewCodec(core.FmtDOCX)
	doc, err := c.Parse(buildContainer(t))
	require.NoError(t, err)

	require.NoError(t, doc.SetField("XCustomTag", "v42"))
	require.NoError(t, doc.SetField("Weird Key & <Chars>", "a<b>&\"c\""))

	out, err := doc.Serialize()
	require.NoError(t, err)

	md, err := c.Decode(out)
	require.NoError(t, err)
	v, ok := md.Get("XCustomTag")
	require.True(t, ok)
	assert.Equal(t, "v42", v)
	v, ok = md.Get("Weird Key & <Chars>")
	require.True(t, ok)
	assert.Equal(t, "a<b>&\"c\"", v)

	// The new part is registered with the package.
	ct := readPart(t, out, "[Content_Types].xml")
	assert.Contains(t, ct, `PartName="/docProps/custom.xml"`)
	rels := readPart(t, out, "_rels/.rels")
	assert.Contains(t, rels, `Target="docProps/custom.xml"`)
}

func TestSetFieldOverwritesExistingProperty(t *testing.T) {
	c := NewCodec(core.FmtDOCX)
	doc, err := c.Parse(buildContainer(t))
	require.NoError(t, err)

	require.NoError(t, doc.SetField("XCustomTag", "first"))
	require.NoError(t, doc.SetField("XCustomTag", "second"))

	out, err := doc.Serialize()
	require.NoError(t, err)

	md, err := c.Decode(out)
	require.NoError(t, err)
	v, _ := md.Get("XCustomTag")
	assert.Equal(t, "second", v)

	custom := readPart(t, out, "docProps/custom.xml")
	assert.Equal(t, 1, strings.Count(custom, `name="XCustomTag"`))
}

func TestCreatorAndProducerAreCustomProperties(t *testing.T) {
	c := NewCodec(core.FmtDOCX)
	doc, err := c.Parse(buildContainer(t))
	require.NoError(t, err)

	require.NoError(t, doc.SetCreator("SourceApp 2.0"))
	require.NoError(t, doc.SetProducer("ConverterApp 1.1"))

	out, err := doc.Serialize()
	require.NoError(t, err)

	md, err := c.Decode(out)
	require.NoError(t, err)
	v, _ := md.Get(core.KeyCreator)
	assert.Equal(t, "SourceApp 2.0", v)
	v, _ = md.Get(core.KeyProducer)
	assert.Equal(t, "ConverterApp 1.1", v)
}

func TestSetFieldRoutesCorePropertyNames(t *testing.T) {
	c := NewCodec(core.FmtDOCX)
	doc, err := c.Parse(buildContainer(t))
	require.NoError(t, err)

	require.NoError(t, doc.SetField("Description", "summary text"))

	out, err := doc.Serialize()
	require.NoError(t, err)

	coreXML := readPart(t, out, "docProps/core.xml")
	assert.Contains(t, coreXML, "<dc:description>summary text</dc:description>")
}

func TestRoundTripWithoutChanges(t *testing.T) {
	c := NewCodec(core.FmtDOCX)
	doc, err := c.Parse(buildContainer(t))
	require.NoError(t, err)

	before, err := doc.Metadata()
	require.NoError(t, err)

	out, err := doc.Serialize()
	require.NoError(t, err)

	after, err := c.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, before.Fields(), after.Fields())
}

func TestParseRejectsGarbage(t *testing.T) {
	c := NewCodec(core.FmtDOCX)
	_, err := c.Parse([]byte("definitely not a zip archive"))
	require.Error(t, err)

	var corrupt *core.CorruptDocumentError
	assert.ErrorAs(t, err, &corrupt)
}
