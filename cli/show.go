package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mocreac/metadata-copy/core"
)

var (
	showJSON bool
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Show a file's metadata",
	Long:  `Read a file and display its metadata dictionary, custom fields included.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		data, id, err := loadFile(path)
		if err != nil {
			fatal("cannot read file", err)
		}
		slog.Debug("detected format", "file", path, "format", id)

		dec, ok := decoderFor(id)
		if !ok {
			core.PrintError(fmt.Sprintf("no metadata support for %s files", id))
			os.Exit(1)
		}
		md, err := dec.Decode(data)
		if err != nil {
			fatal("cannot read metadata", err)
		}

		p := core.NewPrinter(showJSON)
		p.PrintDictionary(path, dec.Info().Name, md)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
}
