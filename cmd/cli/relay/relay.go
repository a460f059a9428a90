package relay

import (
	"github.com/spf13/cobra"
)

func NewCmd() *cobra.Command {
	relayCmd := &cobra.Command{
		Use:   "relay",
		Short: "Send record envelopes across chains and track their delivery",
	}
	relayCmd.AddCommand(newSendCmd())
	relayCmd.AddCommand(newQuoteCmd())
	relayCmd.AddCommand(newStatusCmd())
	return relayCmd
}
