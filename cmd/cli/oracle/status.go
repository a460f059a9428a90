package oracle

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/cmd/util"
	"github.com/opengrid-project/gridctl/cmd/util/output"
	"github.com/opengrid-project/gridctl/pkg/chain"
	"github.com/opengrid-project/gridctl/pkg/codec"
	"github.com/opengrid-project/gridctl/pkg/griderrors"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [request-id]",
		Short: "Show the fulfillment state of a compute request",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runStatus(cmd, args[0]); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}
}

func runStatus(cmd *cobra.Command, arg string) error {
	requestID, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return griderrors.NewValidationError("request id %q is not a number", arg)
	}

	client, net, err := util.DialNetwork(cmd)
	if err != nil {
		return err
	}
	defer client.Close()
	if net.Oracle == "" {
		return griderrors.NewConfigurationError("selected network has no oracle address configured")
	}
	consumer, err := chain.NewOracleConsumer(client, net.Oracle)
	if err != nil {
		return err
	}

	response, err := consumer.GetResponse(cmd.Context(), requestID)
	if err != nil {
		return err
	}

	pairs := []output.Pair{
		{Key: "Request ID", Value: requestID},
		{Key: "Fulfilled", Value: response.Fulfilled},
	}
	if len(response.Err) > 0 {
		pairs = append(pairs, output.Pair{Key: "Oracle Error", Value: string(response.Err)})
	} else if response.Fulfilled && response.Packed != nil && response.Packed.Sign() > 0 {
		record, err := codec.UnpackDataPoint(response.Packed)
		if err != nil {
			return err
		}
		pairs = append(pairs,
			output.Pair{Key: "Node ID", Value: record.NodeID},
			output.Pair{Key: "Timestamp", Value: record.Timestamp.Format(time.RFC3339)},
			output.Pair{Key: "kWh", Value: float64(record.Measurement) / codec.MeasurementScale},
		)
	}
	output.KeyValue(cmd, pairs)
	return nil
}
