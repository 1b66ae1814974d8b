package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mocreac/metadata-copy/core"
	"github.com/mocreac/metadata-copy/core/transfer"
)

var (
	transferOut    string
	transferJSON   bool
	transferDryRun bool
)

var transferCmd = &cobra.Command{
	Use:   "transfer <source> <target>",
	Short: "Copy metadata from source onto target",
	Long: `Read the source file's metadata dictionary and apply every field to the
target file: well-known fields through their dedicated slots, everything
else as custom fields. Fields the target already has and the source does
not are left untouched. The modified target is written to
translated-metadata.<ext> unless -o is given.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		srcPath, tgtPath := args[0], args[1]

		srcData, srcID, err := loadFile(srcPath)
		if err != nil {
			fatal("cannot read source", err)
		}
		dec, ok := decoderFor(srcID)
		if !ok {
			core.PrintError(fmt.Sprintf("no metadata support for %s files", srcID))
			os.Exit(1)
		}
		source, err := dec.Decode(srcData)
		if err != nil {
			fatal("cannot read source metadata", err)
		}
		slog.Debug("source decoded", "file", srcPath, "format", srcID, "fields", source.Len())

		tgtData, tgtID, err := loadFile(tgtPath)
		if err != nil {
			fatal("cannot read target", err)
		}
		codec, ok := codecFor(tgtID)
		if !ok {
			core.PrintError(fmt.Sprintf("%s files cannot be a transfer target", tgtID))
			os.Exit(1)
		}

		p := core.NewPrinter(transferJSON)

		if transferDryRun {
			p.PrintInfo(fmt.Sprintf("Dry-run: %d field(s) would be applied to %s:", source.Len(), tgtPath))
			for _, f := range source.Fields() {
				route := "custom field"
				if core.IsDateKey(f.Key) {
					route = "date slot"
				} else if isWellKnown(codec.Info(), f.Key) {
					route = "dedicated slot"
				}
				p.PrintInfo(fmt.Sprintf("  %-24s %-14s %s", f.Key+":", "("+route+")", f.Value))
			}
			return
		}

		doc, err := codec.Parse(tgtData)
		if err != nil {
			fatal("cannot parse target", err)
		}

		md, out, err := transfer.Apply(cmd.Context(), source, doc)
		if err != nil {
			var dateErr *core.InvalidDateError
			if errors.As(err, &dateErr) {
				core.PrintError(fmt.Sprintf("transfer aborted, %s holds an unparsable date: %q", dateErr.Key, dateErr.Value))
				os.Exit(1)
			}
			fatal("transfer failed", err)
		}

		outPath := transferOut
		if outPath == "" {
			outPath = filepath.Join(filepath.Dir(tgtPath), "translated-metadata"+filepath.Ext(tgtPath))
		}
		if err := os.WriteFile(outPath, out, 0644); err != nil {
			fatal("cannot write output", err)
		}

		p.PrintDictionary(outPath, codec.Info().Name, md)
		p.PrintSuccess(fmt.Sprintf("transferred %d field(s); wrote %s", source.Len(), outPath))
	},
}

func isWellKnown(info core.FormatInfo, key string) bool {
	for _, k := range info.WellKnown {
		if k == key {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(transferCmd)
	transferCmd.Flags().StringVarP(&transferOut, "output", "o", "", "Output path (default translated-metadata.<ext> beside the target)")
	transferCmd.Flags().BoolVar(&transferJSON, "json", false, "Output in JSON format")
	transferCmd.Flags().BoolVar(&transferDryRun, "dry-run", false, "Preview field routing without writing")
}
