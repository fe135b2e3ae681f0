package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/feli0x/Downwind/internal/logger"
	"github.com/feli0x/Downwind/internal/output"
	"github.com/feli0x/Downwind/internal/selection"
	"github.com/feli0x/Downwind/pkg/stripper"
)

// ErrWouldChange is returned by strip --check when a file would be modified.
var ErrWouldChange = errors.New("class tokens found")

// stripReport is the per-input record written with --stats.
type stripReport struct {
	File    string          `json:"file" yaml:"file"`
	Lines   string          `json:"lines" yaml:"lines"`
	Changed bool            `json:"changed" yaml:"changed"`
	Stats   *stripper.Stats `json:"stats" yaml:"stats"`
}

func (r stripReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s (lines: %s) ===\n", r.File, r.Lines)
	sb.WriteString(r.Stats.String())
	return sb.String()
}

type stripOptions struct {
	categories []string
	lines      string
	inPlace    bool
	outFile    string
	check      bool
	stats      bool
	format     string
}

func newStripCmd(a *app) *cobra.Command {
	opts := &stripOptions{}

	cmd := &cobra.Command{
		Use:   "strip [file...]",
		Short: "Remove class tokens of one or more categories",
		Long: `Remove class tokens of the given categories from files or stdin.

Categories are applied in the order given. "all" empties every
class="..." attribute; an unknown category behaves like "all".

Without --in-place or --output the result is written to stdout.

Examples:
  downwind strip -c layout page.html
  downwind strip -c typography -c styling -i src/*.html
  cat card.html | downwind strip -c all
  downwind strip -c styling --check templates/*.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStrip(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&opts.categories, "category", "c", nil, "category to remove: typography, layout, styling, all (repeatable)")
	flags.StringVar(&opts.lines, "lines", "", "only transform this 1-based line range (e.g. 10:20, 10:, :20)")
	flags.BoolVarP(&opts.inPlace, "in-place", "i", false, "rewrite files in place")
	flags.StringVarP(&opts.outFile, "output", "o", "", "write the result to this file (single input only)")
	flags.BoolVar(&opts.check, "check", false, "write nothing; exit non-zero if any input would change")
	flags.BoolVar(&opts.stats, "stats", false, "print per-input statistics")
	flags.StringVar(&opts.format, "format", "text", "statistics format: text, json, jsonl, yaml")

	return cmd
}

func (a *app) runStrip(cmd *cobra.Command, args []string, opts *stripOptions) error {
	cats, err := a.categories(opts.categories)
	if err != nil {
		return err
	}
	rng, err := selection.Parse(opts.lines)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.outFile != "" && len(args) > 1 {
		return errors.New("--output needs exactly one input")
	}
	if opts.outFile != "" && opts.inPlace {
		return errors.New("--output and --in-place are mutually exclusive")
	}

	sources, err := readSources(cmd, args)
	if err != nil {
		return err
	}
	if opts.inPlace {
		for _, src := range sources {
			if src.isStdin() {
				return errors.New("--in-place needs file arguments")
			}
		}
	}

	// Content goes to stdout unless it is written to files; stats go to the
	// other stream.
	contentToStdout := !opts.inPlace && opts.outFile == "" && !opts.check
	statsOut := cmd.OutOrStdout()
	if contentToStdout {
		statsOut = cmd.ErrOrStderr()
	}
	var report output.Writer
	if opts.stats {
		if report, err = output.NewWriter(statsOut, format); err != nil {
			return err
		}
	}

	changedAny := false
	for _, src := range sources {
		text, res := a.stripSource(src.Text, rng, cats)
		changedAny = changedAny || res.Changed

		logger.Debug("stripped", "file", src.Name, "lines", rng.String(),
			"changed", res.Changed, "tokens", res.Stats.TokensRemoved, "attributes", res.Stats.AttributesBlanked)
		a.notify(cmd.ErrOrStderr(), src, cats, res.Changed, len(sources) > 1)

		if report != nil {
			if err := report.Write(stripReport{File: src.Name, Lines: rng.String(), Changed: res.Changed, Stats: res.Stats}); err != nil {
				return fmt.Errorf("writing stats: %w", err)
			}
		}

		switch {
		case opts.check:
			// report only
		case opts.inPlace:
			if res.Changed {
				if err := writeFile(src.Name, src.Mode, text); err != nil {
					return err
				}
			}
		case opts.outFile != "":
			if err := writeFile(opts.outFile, src.Mode, text); err != nil {
				return err
			}
		default:
			if _, err := io.WriteString(cmd.OutOrStdout(), text); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
		}
	}

	if report != nil {
		if err := report.Close(); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
	}

	if opts.check && changedAny {
		return ErrWouldChange
	}
	return nil
}

// stripSource applies the categories in order to the selected lines of text
// and returns the full document with aggregated results.
func (a *app) stripSource(text string, rng selection.Range, cats []stripper.Category) (string, *stripper.Result) {
	parts := selection.Split(text, rng)

	stats := &stripper.Stats{InputBytes: len(text)}
	selected := parts.Selected
	for _, cat := range cats {
		res := a.stripper.RemoveClasses(selected, cat)
		stats.Add(res.Stats)
		selected = res.Text
	}
	if len(cats) > 1 {
		stats.Category = stripper.Category(joinCategories(cats))
	}

	out := parts.Join(selected)
	stats.OutputBytes = len(out)

	return out, &stripper.Result{
		Text:    out,
		Changed: out != text,
		Stats:   stats,
	}
}

// notify reports the outcome the way an editor command would.
func (a *app) notify(w io.Writer, src source, cats []stripper.Category, changed, named bool) {
	var msg string
	switch {
	case len(cats) == 1 && cats[0] == stripper.All && changed:
		msg = "Emptied all classes"
	case len(cats) == 1 && cats[0] == stripper.All:
		msg = "No classes found"
	case changed:
		msg = fmt.Sprintf("Removed %s classes", joinCategories(cats))
	default:
		msg = fmt.Sprintf("No %s classes found", joinCategories(cats))
	}
	if named {
		msg = src.Name + ": " + msg
	}
	a.logInfo(w, "%s", msg)
}

func joinCategories(cats []stripper.Category) string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.String()
	}
	return strings.Join(names, "+")
}
