package commands

import (
	"github.com/spf13/cobra"

	"github.com/feli0x/Downwind/internal/output"
	"github.com/feli0x/Downwind/internal/version"
)

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !asJSON {
				_, err := cmd.OutOrStdout().Write([]byte(version.Full() + "\n"))
				return err
			}
			w := output.NewJSONWriter(cmd.OutOrStdout(), "  ")
			if err := w.Write(version.Get()); err != nil {
				return err
			}
			return w.Close()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
