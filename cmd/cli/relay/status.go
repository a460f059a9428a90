package relay

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/cmd/util"
	"github.com/opengrid-project/gridctl/cmd/util/output"
	"github.com/opengrid-project/gridctl/pkg/griderrors"
	"github.com/opengrid-project/gridctl/pkg/relay"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [guid]",
		Short: "Look up a sent envelope on the relay network's scan API",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runStatus(cmd, args[0]); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}
}

func runStatus(cmd *cobra.Command, arg string) error {
	guid := common.HexToHash(arg)
	if guid == (common.Hash{}) {
		return griderrors.NewValidationError("message guid %q is not a 32-byte hash", arg)
	}

	scan, err := relay.NewScanClient(util.GetConfig(cmd).ScanAPI)
	if err != nil {
		return err
	}
	msg, err := scan.MessageStatus(cmd.Context(), guid)
	if err != nil {
		return err
	}

	output.KeyValue(cmd, []output.Pair{
		{Key: "GUID", Value: msg.GUID},
		{Key: "Status", Value: msg.Status},
		{Key: "Mapped Status", Value: string(relay.DeliveryStatusFromScan(msg))},
		{Key: "Source EID", Value: msg.SrcEID},
		{Key: "Dest EID", Value: msg.DstEID},
		{Key: "Source Tx", Value: msg.SrcTx},
		{Key: "Dest Tx", Value: msg.DstTx},
		{Key: "Detail", Value: msg.Detail},
		{Key: "Updated", Value: time.Unix(msg.Updated, 0).UTC().Format(time.RFC3339)},
	})
	return nil
}
