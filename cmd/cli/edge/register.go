package edge

import (
	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/cmd/util"
	"github.com/opengrid-project/gridctl/cmd/util/output"
	"github.com/opengrid-project/gridctl/pkg/griderrors"
)

type RegisterOptions struct {
	From     uint64
	To       uint64
	EdgeType string
	Capacity uint64
	Distance uint64
}

func NewRegisterOptions() *RegisterOptions {
	return &RegisterOptions{
		EdgeType: "distribution",
	}
}

func newRegisterCmd() *cobra.Command {
	oR := NewRegisterOptions()
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a directed link between two registered nodes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := oR.Run(cmd); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}
	registerCmd.Flags().Uint64Var(&oR.From, "from", 0, "Source node id")
	registerCmd.Flags().Uint64Var(&oR.To, "to", 0, "Destination node id")
	registerCmd.Flags().StringVar(&oR.EdgeType, "type", oR.EdgeType, "Edge type (e.g. transmission, distribution)")
	registerCmd.Flags().Uint64Var(&oR.Capacity, "capacity", 0, "Link capacity in kW")
	registerCmd.Flags().Uint64Var(&oR.Distance, "distance", 0, "Link distance in meters")
	registerCmd.MarkFlagRequired("from") //nolint:errcheck
	registerCmd.MarkFlagRequired("to")   //nolint:errcheck
	return registerCmd
}

func (oR *RegisterOptions) Run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if oR.From == oR.To {
		return griderrors.NewValidationError("edge endpoints must differ, got %d -> %d", oR.From, oR.To)
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

	// The contract rejects edges over unknown node ids, but a local check
	// gives a readable error before gas is spent.
	nodeCount, err := registry.NodeCount(ctx)
	if err != nil {
		return err
	}
	if oR.From >= nodeCount || oR.To >= nodeCount {
		return griderrors.NewValidationError(
			"edge endpoints %d -> %d must both be registered node ids (registry has %d nodes)",
			oR.From, oR.To, nodeCount)
	}

	id, receipt, err := registry.RegisterEdge(ctx, oR.From, oR.To, oR.EdgeType, oR.Capacity, oR.Distance)
	if err != nil {
		return err
	}

	output.KeyValue(cmd, []output.Pair{
		{Key: "Edge ID", Value: id},
		{Key: "From", Value: oR.From},
		{Key: "To", Value: oR.To},
		{Key: "Type", Value: oR.EdgeType},
		{Key: "Tx", Value: receipt.TxHash.Hex()},
	})
	return nil
}
