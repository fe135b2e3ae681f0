package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/feli0x/Downwind/internal/output"
	"github.com/feli0x/Downwind/pkg/stripper"
)

// inspectReport is the per-input record written by inspect.
type inspectReport struct {
	File   string           `json:"file" yaml:"file"`
	Report *stripper.Report `json:"report" yaml:"report"`
}

func (r inspectReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s ===\n", r.File)
	fmt.Fprintf(&sb, "Elements with class: %d, tokens: %d\n", r.Report.Elements, r.Report.Tokens)

	cats := append(append([]stripper.Category{}, stripper.Categories...), stripper.Other)
	for _, cat := range cats {
		n := r.Report.Count(cat)
		if n == 0 {
			continue
		}
		fmt.Fprintf(&sb, "  %-10s %4d  %s\n", cat, n, strings.Join(r.Report.Distinct(cat), " "))
	}
	return sb.String()
}

func newInspectCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect [file...]",
		Short: "Report class tokens per category",
		Long: `Inspect lists the class tokens used in each input, grouped by the
category that "strip" would remove them with. Tokens that belong to no
category are listed as "other". Inputs are not modified.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			sources, err := readSources(cmd, args)
			if err != nil {
				return err
			}

			w, err := output.NewWriter(cmd.OutOrStdout(), f)
			if err != nil {
				return err
			}
			for _, src := range sources {
				report, err := a.stripper.Inspect(src.Text)
				if err != nil {
					return fmt.Errorf("%s: %w", src.Name, err)
				}
				if err := w.Write(inspectReport{File: src.Name, Report: report}); err != nil {
					return err
				}
			}
			return w.Close()
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, jsonl, yaml")
	return cmd
}
