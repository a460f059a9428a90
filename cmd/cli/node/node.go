package node

import (
	"github.com/spf13/cobra"
)

func NewCmd() *cobra.Command {
	nodeCmd := &cobra.Command{
		Use:   "node",
		Short: "Manage registered grid nodes",
	}
	nodeCmd.AddCommand(newRegisterCmd())
	nodeCmd.AddCommand(newListCmd())
	nodeCmd.AddCommand(newDescribeCmd())
	nodeCmd.AddCommand(newActiveCmd("activate", true))
	nodeCmd.AddCommand(newActiveCmd("deactivate", false))
	return nodeCmd
}
