// Package commands implements the CLI commands for downwind.
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/feli0x/Downwind/internal/config"
	"github.com/feli0x/Downwind/internal/logger"
	"github.com/feli0x/Downwind/pkg/stripper"
)

// app holds state shared by the commands of one root command.
type app struct {
	v        *viper.Viper
	cfg      *config.Config
	stripper *stripper.Stripper
}

// NewRootCmd builds the downwind command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "downwind",
		Short: "Strip utility-framework class tokens from markup",
		Long: `Downwind removes utility-first CSS class tokens from HTML-like markup.

Tokens are grouped into categories:
  typography  font, text, leading, tracking, ...
  layout      p, m, w, h, flex, grid, gap, ...
  styling     bg, border, ring, shadow, opacity, transition, ...
  all         empties every class="..." attribute

Examples:
  # Remove layout classes from a file, printing the result
  downwind strip -c layout index.html

  # Remove colours and borders in place, only on lines 10-40
  downwind strip -c styling --lines 10:40 -i page.html

  # See which utility classes a template uses
  downwind inspect page.html`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.downwind.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "suppress notifications")
	flags.Bool("log-json", false, "write diagnostic logs as JSON")

	_ = a.v.BindPFlag("debug", flags.Lookup("debug"))
	_ = a.v.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = a.v.BindPFlag("log_json", flags.Lookup("log-json"))

	cmd.AddCommand(
		newStripCmd(a),
		newInspectCmd(a),
		newCategoriesCmd(a),
		newWatchCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// setup loads configuration and builds the shared stripper.
func (a *app) setup(cmd *cobra.Command) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	home, _ := os.UserHomeDir()
	if err := config.Init(a.v, cfgFile, home); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger.Init(logger.Options{
		Debug:  cfg.Debug,
		Quiet:  cfg.Quiet,
		JSON:   cfg.LogJSON,
		Output: cmd.ErrOrStderr(),
	})
	logger.Debug("config loaded", "file", a.v.ConfigFileUsed(), "extra_prefixes", len(cfg.Prefixes))

	a.stripper = stripper.New(cfg.StripperConfig())
	return nil
}

// categories resolves the category list from flags, falling back to config.
// Unknown names resolve to stripper.All, with a warning.
func (a *app) categories(names []string) ([]stripper.Category, error) {
	if len(names) == 0 {
		names = a.cfg.Categories
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no category given: use -c typography|layout|styling|all")
	}

	cats := make([]stripper.Category, 0, len(names))
	for _, name := range names {
		cat := stripper.ParseCategory(name)
		if cat == stripper.All && !strings.EqualFold(strings.TrimSpace(name), string(stripper.All)) {
			logger.Warn("unknown category, blanking class attributes instead", "category", name)
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

// Execute runs the root command.
func Execute() error {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		logError(cmd.ErrOrStderr(), "%v", err)
		return err
	}
	return nil
}

// logError prints an error message.
func logError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "Error: "+format+"\n", args...)
}

// logInfo prints a notification (unless quiet mode).
func (a *app) logInfo(w io.Writer, format string, args ...any) {
	if a.cfg != nil && a.cfg.Quiet {
		return
	}
	fmt.Fprintf(w, format+"\n", args...)
}
