package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thand-io/usermanager/internal/common"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "usermanager %s\n", common.GetVersion())
	},
}

func init() {

	rootCmd.AddCommand(versionCmd)
}
