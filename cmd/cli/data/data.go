package data

import (
	"github.com/spf13/cobra"
)

func NewCmd() *cobra.Command {
	dataCmd := &cobra.Command{
		Use:   "data",
		Short: "Submit and read packed meter readings",
	}
	dataCmd.AddCommand(newSubmitCmd())
	dataCmd.AddCommand(newListCmd())
	return dataCmd
}
