package relay

import (
	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/cmd/util"
	"github.com/opengrid-project/gridctl/cmd/util/output"
	"github.com/opengrid-project/gridctl/pkg/codec"
	"github.com/opengrid-project/gridctl/pkg/griderrors"
)

type QuoteOptions struct {
	Dest    string
	Records int
}

func NewQuoteOptions() *QuoteOptions {
	return &QuoteOptions{
		Records: 1,
	}
}

func newQuoteCmd() *cobra.Command {
	oQ := NewQuoteOptions()
	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote the relay fee for an envelope of the given record count",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := oQ.Run(cmd); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}
	quoteCmd.Flags().StringVar(&oQ.Dest, "dest", "", "Destination network name from the config")
	quoteCmd.Flags().IntVar(&oQ.Records, "records", oQ.Records, "Number of records in the envelope")
	quoteCmd.MarkFlagRequired("dest") //nolint:errcheck
	return quoteCmd
}

func (oQ *QuoteOptions) Run(cmd *cobra.Command) error {
	cfg := util.GetConfig(cmd)

	destNet, err := cfg.Network(oQ.Dest)
	if err != nil {
		return err
	}
	if destNet.EndpointID == 0 {
		return griderrors.NewConfigurationError("destination network %q has no endpoint id configured", oQ.Dest)
	}

	envCodec := codec.NewEnvelopeCodec(cfg.MaxPayloadBytes)
	if oQ.Records <= 0 || oQ.Records > envCodec.MaxRecords() {
		return griderrors.NewValidationError(
			"record count must be in [1, %d] under the %d byte payload cap",
			envCodec.MaxRecords(), cfg.MaxPayloadBytes)
	}

	client, net, err := util.DialNetwork(cmd)
	if err != nil {
		return err
	}
	defer client.Close()
	sender, err := util.GetRelay(cmd, client, net)
	if err != nil {
		return err
	}

	// The fee depends only on payload size, so a zero-filled payload of the
	// right length quotes the same as real records.
	payload := make([]byte, codec.EnvelopeSize(oQ.Records))
	fee, err := sender.Quote(cmd.Context(), destNet.EndpointID, payload)
	if err != nil {
		return err
	}
	output.KeyValue(cmd, []output.Pair{
		{Key: "Destination", Value: oQ.Dest},
		{Key: "Records", Value: oQ.Records},
		{Key: "Payload Bytes", Value: len(payload)},
		{Key: "Fee (wei)", Value: fee.String()},
	})
	return nil
}
