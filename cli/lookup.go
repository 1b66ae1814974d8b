package main

import (
	"fmt"
	"os"

	"github.com/mocreac/metadata-copy/core"
	"github.com/mocreac/metadata-copy/core/audio"
	"github.com/mocreac/metadata-copy/core/image"
	"github.com/mocreac/metadata-copy/core/opc"
	"github.com/mocreac/metadata-copy/core/pdf"
)

// codecs holds the formats that can be transfer targets.
var codecs = map[core.FormatID]core.Codec{
	core.FmtPDF:  pdf.NewCodec(),
	core.FmtDOCX: opc.NewCodec(core.FmtDOCX),
	core.FmtXLSX: opc.NewCodec(core.FmtXLSX),
	core.FmtPPTX: opc.NewCodec(core.FmtPPTX),
	core.FmtMP3:  audio.NewCodec(),
}

// decoders holds the source-only formats.
var decoders = map[core.FormatID]core.Decoder{
	core.FmtFLAC: audio.NewDecoder(core.FmtFLAC),
	core.FmtOGG:  audio.NewDecoder(core.FmtOGG),
	core.FmtM4A:  audio.NewDecoder(core.FmtM4A),
	core.FmtJPEG: image.NewDecoder(),
}

// decoderFor returns the Decoder for any supported format.
func decoderFor(id core.FormatID) (core.Decoder, bool) {
	if c, ok := codecs[id]; ok {
		return c, true
	}
	d, ok := decoders[id]
	return d, ok
}

// codecFor returns the Codec for formats that support writes.
func codecFor(id core.FormatID) (core.Codec, bool) {
	c, ok := codecs[id]
	return c, ok
}

// formatOrder fixes the listing order for the formats command.
var formatOrder = []core.FormatID{
	core.FmtPDF, core.FmtDOCX, core.FmtXLSX, core.FmtPPTX,
	core.FmtMP3, core.FmtFLAC, core.FmtOGG, core.FmtM4A, core.FmtJPEG,
}

// loadFile reads path and detects its format.
func loadFile(path string) ([]byte, core.FormatID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.FmtUnknown, err
	}
	id := core.DetectFormat(data, path)
	if id == core.FmtUnknown {
		return nil, id, fmt.Errorf("unsupported file format: %s", path)
	}
	return data, id, nil
}
