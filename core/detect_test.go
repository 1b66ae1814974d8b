package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFormatMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		file string
		want FormatID
	}{
		{"pdf", []byte("%PDF-1.7\n"), "doc.pdf", FmtPDF},
		{"pdf wrong ext", []byte("%PDF-1.4\n"), "doc.bin", FmtPDF},
		{"mp3 id3", []byte("ID3\x04\x00\x00\x00\x00\x00\x00"), "song.mp3", FmtMP3},
		{"mp3 frame sync", []byte{0xFF, 0xFB, 0x90, 0x00}, "song.mp3", FmtMP3},
		{"flac", []byte("fLaC\x00\x00\x00\x22"), "song.flac", FmtFLAC},
		{"ogg", []byte("OggS\x00\x02\x00\x00"), "song.ogg", FmtOGG},
		{"m4a", append([]byte{0, 0, 0, 32}, []byte("ftypM4A \x00\x00\x00\x00")...), "song.m4a", FmtM4A},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "photo.jpg", FmtJPEG},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.data, tt.file))
		})
	}
}

func TestDetectFormatOPCByExtension(t *testing.T) {
	zipHeader := []byte("PK\x03\x04\x14\x00\x00\x00")

	assert.Equal(t, FmtDOCX, DetectFormat(zipHeader, "report.docx"))
	assert.Equal(t, FmtXLSX, DetectFormat(zipHeader, "sheet.xlsx"))
	assert.Equal(t, FmtPPTX, DetectFormat(zipHeader, "slides.pptx"))
	// Unknown extension on a ZIP container defaults to DOCX.
	assert.Equal(t, FmtDOCX, DetectFormat(zipHeader, "archive.zip"))
}

func TestDetectFormatExtensionFallback(t *testing.T) {
	data := []byte("no magic here")
	assert.Equal(t, FmtMP3, DetectFormat(data, "song.MP3"))
	assert.Equal(t, FmtJPEG, DetectFormat(data, "photo.JPEG"))
	assert.Equal(t, FmtUnknown, DetectFormat(data, "notes.txt"))
}

func TestDetectFormatShortInput(t *testing.T) {
	assert.Equal(t, FmtUnknown, DetectFormat([]byte{0x01}, ""))
	assert.Equal(t, FmtUnknown, DetectFormat(nil, ""))
}
