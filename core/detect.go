package core

import (
	"bytes"
	"path/filepath"
	"strings"
)

// FormatID enumerates every recognised format.
type FormatID string

const (
	FmtPDF  FormatID = "pdf"
	FmtDOCX FormatID = "docx"
	FmtXLSX FormatID = "xlsx"
	FmtPPTX FormatID = "pptx"

	FmtMP3  FormatID = "mp3"
	FmtFLAC FormatID = "flac"
	FmtOGG  FormatID = "ogg"
	FmtM4A  FormatID = "m4a"

	FmtJPEG FormatID = "jpeg"

	FmtUnknown FormatID = "unknown"
)

// extMap maps lowercase extensions to format IDs.
var extMap = map[string]FormatID{
	".pdf":  FmtPDF,
	".docx": FmtDOCX,
	".docm": FmtDOCX,
	".xlsx": FmtXLSX,
	".xlsm": FmtXLSX,
	".pptx": FmtPPTX,
	".pptm": FmtPPTX,

	".mp3":  FmtMP3,
	".flac": FmtFLAC,
	".ogg":  FmtOGG,
	".oga":  FmtOGG,
	".m4a":  FmtM4A,
	".aac":  FmtM4A,

	".jpg":  FmtJPEG,
	".jpeg": FmtJPEG,
}

// DetectFormat returns the FormatID for the given file content, first by
// magic bytes and falling back to the extension of name. ZIP containers
// (the OPC family) are disambiguated by extension.
func DetectFormat(data []byte, name string) FormatID {
	id := detectMagic(data)
	ext := strings.ToLower(filepath.Ext(name))

	if id == FmtDOCX {
		// Any OPC container sniffs as PK; the extension decides which.
		if byExt, ok := extMap[ext]; ok && isOPC(byExt) {
			return byExt
		}
		return FmtDOCX
	}
	if id != FmtUnknown {
		return id
	}
	if byExt, ok := extMap[ext]; ok {
		return byExt
	}
	return FmtUnknown
}

func isOPC(id FormatID) bool {
	return id == FmtDOCX || id == FmtXLSX || id == FmtPPTX
}

func detectMagic(b []byte) FormatID {
	if len(b) < 4 {
		return FmtUnknown
	}
	switch {
	// PDF: %PDF
	case bytes.HasPrefix(b, []byte("%PDF")):
		return FmtPDF
	// ZIP-based OPC (DOCX/XLSX/PPTX): PK\x03\x04
	case bytes.HasPrefix(b, []byte("PK\x03\x04")):
		return FmtDOCX
	// MP3: ID3 tag or MPEG frame sync
	case bytes.HasPrefix(b, []byte("ID3")):
		return FmtMP3
	case b[0] == 0xFF && (b[1]&0xE0 == 0xE0):
		return FmtMP3
	// FLAC: fLaC
	case bytes.HasPrefix(b, []byte("fLaC")):
		return FmtFLAC
	// OGG: OggS
	case bytes.HasPrefix(b, []byte("OggS")):
		return FmtOGG
	// M4A: ftyp box at offset 4
	case len(b) >= 12 && bytes.Equal(b[4:8], []byte("ftyp")):
		return FmtM4A
	// JPEG: FF D8 FF
	case b[0] == 0xFF && b[1] == 0xD8 && b[2] == 0xFF:
		return FmtJPEG
	}
	return FmtUnknown
}
