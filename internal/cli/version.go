package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/movierec/internal/version"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			short, _ := cmd.Flags().GetBool("short")
			asJSON, _ := cmd.Flags().GetBool("json")

			w := cmd.OutOrStdout()
			info := version.Get()
			if short {
				fmt.Fprintln(w, info.Version)
				return nil
			}
			if asJSON {
				return writeJSON(w, info)
			}

			fmt.Fprintf(w, "movierecctl version %s\n", info.Version)
			fmt.Fprintf(w, "  commit:     %s\n", info.Commit)
			fmt.Fprintf(w, "  built:      %s\n", info.Built)
			fmt.Fprintf(w, "  go version: %s\n", info.GoVersion)
			fmt.Fprintf(w, "  platform:   %s\n", info.Platform)
			return nil
		},
	}
	cmd.Flags().Bool("short", false, "print version string only")
	return cmd
}
