package node

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/cmd/util"
	"github.com/opengrid-project/gridctl/cmd/util/output"
	"github.com/opengrid-project/gridctl/pkg/griderrors"
)

// Activation is one verb pair over the same contract call. Deactivated nodes
// stay in the registry and keep their id; only recordDataPoint rejects them.
func newActiveCmd(verb string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s [id]", verb),
		Short: fmt.Sprintf("Mark a node as %sd in the registry", verb),
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runSetActive(cmd, args[0], active); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}
}

func runSetActive(cmd *cobra.Command, arg string, active bool) error {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return griderrors.NewValidationError("node id %q is not a number", arg)
	}

	client, net, err := util.DialNetworkWithSigner(cmd)
	if err != nil {
		return err
	}
	defer client.Close()
	registry, err := util.GetRegistry(client, net)
	if err != nil {
		return err
	}

	receipt, err := registry.SetNodeActive(cmd.Context(), id, active)
	if err != nil {
		return err
	}
	output.KeyValue(cmd, []output.Pair{
		{Key: "Node ID", Value: id},
		{Key: "Active", Value: active},
		{Key: "Tx", Value: receipt.TxHash.Hex()},
	})
	return nil
}
