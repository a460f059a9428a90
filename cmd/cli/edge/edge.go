package edge

import (
	"github.com/spf13/cobra"
)

func NewCmd() *cobra.Command {
	edgeCmd := &cobra.Command{
		Use:   "edge",
		Short: "Manage grid links between registered nodes",
	}
	edgeCmd.AddCommand(newRegisterCmd())
	edgeCmd.AddCommand(newListCmd())
	return edgeCmd
}
