package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/feli0x/Downwind/internal/output"
	"github.com/feli0x/Downwind/pkg/stripper"
)

type categoryEntry struct {
	Category string   `json:"category" yaml:"category"`
	Prefixes []string `json:"prefixes" yaml:"prefixes"`
}

func (e categoryEntry) String() string {
	if len(e.Prefixes) == 0 {
		return fmt.Sprintf("%-11s (blanks class attributes)", e.Category)
	}
	return fmt.Sprintf("%-11s %s", e.Category, strings.Join(e.Prefixes, " "))
}

func newCategoriesCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories and their prefixes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			w, err := output.NewWriter(cmd.OutOrStdout(), f)
			if err != nil {
				return err
			}

			for _, cat := range stripper.Categories {
				if err := w.Write(categoryEntry{Category: cat.String(), Prefixes: a.stripper.Prefixes(cat)}); err != nil {
					return err
				}
			}
			if err := w.Write(categoryEntry{Category: stripper.All.String(), Prefixes: []string{}}); err != nil {
				return err
			}
			return w.Close()
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, jsonl, yaml")
	return cmd
}
