package oracle

import (
	"github.com/spf13/cobra"
)

func NewCmd() *cobra.Command {
	oracleCmd := &cobra.Command{
		Use:   "oracle",
		Short: "Request off-chain compute over recorded data",
	}
	oracleCmd.AddCommand(newRequestCmd())
	oracleCmd.AddCommand(newStatusCmd())
	return oracleCmd
}
