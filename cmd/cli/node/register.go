package node

import (
	"math"

	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/cmd/util"
	"github.com/opengrid-project/gridctl/cmd/util/output"
	"github.com/opengrid-project/gridctl/pkg/codec"
	"github.com/opengrid-project/gridctl/pkg/griderrors"
)

type RegisterOptions struct {
	Location  string
	Latitude  float64
	Longitude float64
}

func NewRegisterOptions() *RegisterOptions {
	return &RegisterOptions{}
}

func newRegisterCmd() *cobra.Command {
	oR := NewRegisterOptions()
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new grid node on the selected network",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := oR.Run(cmd); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}
	registerCmd.Flags().StringVar(&oR.Location, "location", "", "Human-readable location label for the node")
	registerCmd.Flags().Float64Var(&oR.Latitude, "lat", 0, "Node latitude in decimal degrees")
	registerCmd.Flags().Float64Var(&oR.Longitude, "lon", 0, "Node longitude in decimal degrees")
	registerCmd.MarkFlagRequired("location") //nolint:errcheck
	registerCmd.MarkFlagRequired("lat")      //nolint:errcheck
	registerCmd.MarkFlagRequired("lon")      //nolint:errcheck
	return registerCmd
}

func (oR *RegisterOptions) Run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if oR.Latitude < -90 || oR.Latitude > 90 {
		return griderrors.NewValidationError("latitude %f out of range [-90, 90]", oR.Latitude)
	}
	if oR.Longitude < -180 || oR.Longitude > 180 {
		return griderrors.NewValidationError("longitude %f out of range [-180, 180]", oR.Longitude)
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

	id, receipt, err := registry.RegisterNode(ctx, oR.Location,
		int64(math.Round(oR.Latitude*codec.CoordScale)),
		int64(math.Round(oR.Longitude*codec.CoordScale)))
	if err != nil {
		return err
	}

	output.KeyValue(cmd, []output.Pair{
		{Key: "Node ID", Value: id},
		{Key: "Location", Value: oR.Location},
		{Key: "Tx", Value: receipt.TxHash.Hex()},
		{Key: "Block", Value: receipt.BlockNumber},
	})
	return nil
}
