package oracle

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/cmd/util"
	"github.com/opengrid-project/gridctl/cmd/util/output"
	"github.com/opengrid-project/gridctl/pkg/chain"
	"github.com/opengrid-project/gridctl/pkg/codec"
	"github.com/opengrid-project/gridctl/pkg/griderrors"
	"github.com/opengrid-project/gridctl/pkg/oracle"
)

type RequestOptions struct {
	SourceFile string
	Args       []string
	Wait       bool
}

func NewRequestOptions() *RequestOptions {
	return &RequestOptions{
		Wait: true,
	}
}

func newRequestCmd() *cobra.Command {
	oR := NewRequestOptions()
	requestCmd := &cobra.Command{
		Use:   "request",
		Short: "Submit a compute request and await its callback",
		Long: `Submits the given source to the oracle consumer contract and tracks the
contract-assigned request id. The compute network fulfills requests
asynchronously; with --wait, the command polls getResponse until the callback
lands, then matches it against the tracked request and decodes the packed
result.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := oR.Run(cmd); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}
	requestCmd.Flags().StringVar(&oR.SourceFile, "source", "", "File containing the compute source to run off chain")
	requestCmd.Flags().StringSliceVar(&oR.Args, "arg", nil, "Argument passed to the compute source (repeatable)")
	requestCmd.Flags().BoolVar(&oR.Wait, "wait", oR.Wait, "Poll for the callback after submitting")
	requestCmd.MarkFlagRequired("source") //nolint:errcheck
	return requestCmd
}

func (oR *RequestOptions) Run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	source, err := os.ReadFile(oR.SourceFile)
	if err != nil {
		return griderrors.NewValidationError("reading source %s", oR.SourceFile).WithCause(err)
	}

	client, net, err := util.DialNetworkWithSigner(cmd)
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

	requestID, err := consumer.RequestCompute(ctx, string(source), oR.Args)
	if err != nil {
		return err
	}
	registry := oracle.NewRegistry()
	registry.Track(oracle.Request{
		ID:        requestID,
		Source:    oR.SourceFile,
		Args:      oR.Args,
		CreatedAt: time.Now().UTC(),
	})
	output.KeyValue(cmd, []output.Pair{
		{Key: "Request ID", Value: requestID},
	})
	if !oR.Wait {
		return nil
	}

	var response chain.OracleResponse
	result, fulfilled, err := oracle.AwaitResponse(ctx, util.GetPoller(cmd), func(ctx context.Context) (bool, error) {
		resp, err := consumer.GetResponse(ctx, requestID)
		if err != nil {
			return false, err
		}
		response = resp
		return resp.Fulfilled, nil
	})
	if err != nil {
		return err
	}
	if !fulfilled {
		output.KeyValue(cmd, []output.Pair{
			{Key: "Fulfilled", Value: false},
			{Key: "Attempts", Value: result.Attempts},
			{Key: "Note", Value: "callback not yet observed; re-check with oracle status"},
		})
		return nil
	}

	var packed []byte
	if response.Packed != nil && response.Packed.Sign() > 0 {
		packed = response.Packed.Bytes()
	}
	fulfillment, err := registry.Fulfill(requestID, packed, response.Err)
	if err != nil {
		return err
	}
	output.KeyValue(cmd, []output.Pair{
		{Key: "Fulfilled After", Value: result.Attempts},
		{Key: "Node ID", Value: fulfillment.Record.NodeID},
		{Key: "Timestamp", Value: fulfillment.Record.Timestamp.Format(time.RFC3339)},
		{Key: "kWh", Value: float64(fulfillment.Record.Measurement) / codec.MeasurementScale},
	})
	return nil
}
