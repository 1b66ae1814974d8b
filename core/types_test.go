package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionaryPreservesInsertionOrder(t *testing.T) {
	d := NewDictionary()
	d.Set("Title", "Report")
	d.Set("Author", "A. Smith")
	d.Set("XCustomTag", "v42")

	assert.Equal(t, []string{"Title", "Author", "XCustomTag"}, d.Keys())
	assert.Equal(t, 3, d.Len())
}

func TestDictionaryOverwriteKeepsPosition(t *testing.T) {
	d := NewDictionary()
	d.Set("Title", "First")
	d.Set("Author", "A. Smith")
	d.Set("Title", "Second")

	assert.Equal(t, []string{"Title", "Author"}, d.Keys())
	v, ok := d.Get("Title")
	require.True(t, ok)
	assert.Equal(t, "Second", v)
}

func TestDictionaryGetMissing(t *testing.T) {
	d := NewDictionary()
	_, ok := d.Get("Nope")
	assert.False(t, ok)
	assert.False(t, d.Has("Nope"))
}

func TestDictionaryKeysAreCaseSensitive(t *testing.T) {
	d := NewDictionary()
	d.Set("title", "lower")
	d.Set("Title", "upper")

	assert.Equal(t, 2, d.Len())
	v, _ := d.Get("title")
	assert.Equal(t, "lower", v)
	v, _ = d.Get("Title")
	assert.Equal(t, "upper", v)
}

func TestDictionaryFieldsReturnsCopy(t *testing.T) {
	d := NewDictionary()
	d.Set("Title", "Report")

	fields := d.Fields()
	fields[0].Value = "mutated"

	v, _ := d.Get("Title")
	assert.Equal(t, "Report", v)
}

func TestDictionarySetTime(t *testing.T) {
	d := NewDictionary()
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	d.SetTime(KeyCreationDate, ts)

	v, ok := d.Get(KeyCreationDate)
	require.True(t, ok)
	assert.Equal(t, "2024-03-01T12:30:00Z", v)
}

func TestIsDateKey(t *testing.T) {
	assert.True(t, IsDateKey(KeyCreationDate))
	assert.True(t, IsDateKey(KeyModDate))
	assert.False(t, IsDateKey(KeyTitle))
	assert.False(t, IsDateKey("creationdate"))
}
