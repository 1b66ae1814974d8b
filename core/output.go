package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Printer handles all display output for the CLI.
type Printer struct {
	JSON   bool
	Writer io.Writer
}

// NewPrinter creates a default Printer writing to stdout.
func NewPrinter(jsonMode bool) *Printer {
	return &Printer{JSON: jsonMode, Writer: os.Stdout}
}

// PrintDictionary renders a metadata dictionary for one file.
func (p *Printer) PrintDictionary(path, format string, d *Dictionary) {
	if p.JSON {
		p.printJSON(path, format, d)
		return
	}
	fmt.Fprintf(p.Writer, "File  : %s\n", path)
	fmt.Fprintf(p.Writer, "Format: %s\n", format)
	if d.Len() == 0 {
		fmt.Fprintln(p.Writer, "(no metadata found)")
		return
	}
	fmt.Fprintln(p.Writer)
	for _, f := range d.Fields() {
		fmt.Fprintf(p.Writer, "  %-24s %s\n", f.Key+":", f.Value)
	}
}

func (p *Printer) printJSON(path, format string, d *Dictionary) {
	type jsonField struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	type jsonOutput struct {
		FilePath string      `json:"file"`
		Format   string      `json:"format"`
		Fields   []jsonField `json:"fields"`
	}

	out := jsonOutput{FilePath: path, Format: format}
	for _, f := range d.Fields() {
		out.Fields = append(out.Fields, jsonField{Key: f.Key, Value: f.Value})
	}

	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Fprintln(p.Writer, string(b))
}

// PrintSuccess prints a success message (suppressed in JSON mode).
func (p *Printer) PrintSuccess(msg string) {
	if !p.JSON {
		fmt.Fprintln(p.Writer, "✓ "+msg)
	}
}

// PrintInfo prints an info line (suppressed in JSON mode).
func (p *Printer) PrintInfo(msg string) {
	if !p.JSON {
		fmt.Fprintln(p.Writer, msg)
	}
}

// PrintError prints an error to stderr.
func PrintError(msg string) {
	fmt.Fprintln(os.Stderr, "✗ Error: "+msg)
}
