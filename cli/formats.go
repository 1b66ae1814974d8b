package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported formats",
	Long:  `List every supported format, its extensions, and whether it can be a transfer target.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%-10s %-16s %-8s %s\n", "FORMAT", "EXTENSIONS", "TARGET", "NOTES")
		for _, id := range formatOrder {
			dec, ok := decoderFor(id)
			if !ok {
				continue
			}
			info := dec.Info()
			target := "source"
			if info.CanWrite {
				target = "yes"
			}
			fmt.Printf("%-10s %-16s %-8s %s\n",
				info.Name, strings.Join(info.Extensions, " "), target, info.Notes)
		}
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
