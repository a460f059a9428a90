// Package deploy inspects a network's deployed contract addresses. Contract
// compilation and deployment happen in the Solidity toolchain; gridctl only
// verifies that the configured addresses exist and carry code.
package deploy

import (
	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/cmd/util"
)

func NewCmd() *cobra.Command {
	deployCmd := &cobra.Command{
		Use:   "deploy",
		Short: "Inspect deployed contract addresses for a network",
	}
	deployCmd.AddCommand(newShowCmd())
	deployCmd.AddCommand(newVerifyCmd())
	return deployCmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the contract addresses configured for the selected network",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := runShow(cmd); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify that every configured address has contract code on chain",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := runVerify(cmd); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}
}
