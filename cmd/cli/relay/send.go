package relay

import (
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/cmd/util"
	"github.com/opengrid-project/gridctl/cmd/util/output"
	"github.com/opengrid-project/gridctl/pkg/batch"
	"github.com/opengrid-project/gridctl/pkg/chain"
	"github.com/opengrid-project/gridctl/pkg/codec"
	"github.com/opengrid-project/gridctl/pkg/griderrors"
	"github.com/opengrid-project/gridctl/pkg/logger"
	"github.com/opengrid-project/gridctl/pkg/models"
	"github.com/opengrid-project/gridctl/pkg/relay"
	"github.com/opengrid-project/gridctl/pkg/simulation"
)

type SendOptions struct {
	InputFile string
	Dest      string
	Wait      bool
}

func NewSendOptions() *SendOptions {
	return &SendOptions{
		Wait: true,
	}
}

func newSendCmd() *cobra.Command {
	oS := NewSendOptions()
	sendCmd := &cobra.Command{
		Use:   "send",
		Short: "Relay measurements to another chain in size-capped envelopes",
		Long: `Reads measurements from a CSV export, packs them into envelopes under the
configured payload size cap, and sends each envelope through the relay
contract to the destination network's receiver. With --wait, each send is
confirmed by polling the destination relay's received count before the next
envelope goes out.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := oS.Run(cmd); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}
	sendCmd.Flags().StringVar(&oS.InputFile, "input", "", "CSV file of measurements to relay")
	sendCmd.Flags().StringVar(&oS.Dest, "dest", "", "Destination network name from the config")
	sendCmd.Flags().BoolVar(&oS.Wait, "wait", oS.Wait, "Poll the destination for delivery after each send")
	sendCmd.MarkFlagRequired("input") //nolint:errcheck
	sendCmd.MarkFlagRequired("dest")  //nolint:errcheck
	return sendCmd
}

func (oS *SendOptions) Run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := util.GetConfig(cmd)

	destNet, err := cfg.Network(oS.Dest)
	if err != nil {
		return err
	}
	if destNet.Relay == "" {
		return griderrors.NewConfigurationError("destination network %q has no relay address configured", oS.Dest)
	}
	if destNet.EndpointID == 0 {
		return griderrors.NewConfigurationError("destination network %q has no endpoint id configured", oS.Dest)
	}

	f, err := os.Open(oS.InputFile)
	if err != nil {
		return griderrors.NewValidationError("opening input %s", oS.InputFile).WithCause(err)
	}
	points, err := simulation.ReadCSV(f)
	f.Close()
	if err != nil {
		return err
	}

	source, sourceNet, err := util.DialNetworkWithSigner(cmd)
	if err != nil {
		return err
	}
	defer source.Close()
	sender, err := util.GetRelay(cmd, source, sourceNet)
	if err != nil {
		return err
	}

	var receiver *relay.Client
	if oS.Wait {
		dest, err := chain.Dial(ctx, oS.Dest, destNet)
		if err != nil {
			return err
		}
		defer dest.Close()
		receiver, err = relay.New(dest, destNet.Relay, codec.NewEnvelopeCodec(cfg.MaxPayloadBytes))
		if err != nil {
			return err
		}
	}

	// The payload cap bounds how many records one envelope can carry; the
	// split guarantees no chunk can be rejected for size. A cap too small for
	// even one record must fail here, not degenerate into zero sends.
	maxRecords := codec.NewEnvelopeCodec(cfg.MaxPayloadBytes).MaxRecords()
	if maxRecords < 1 {
		return griderrors.NewPayloadSizeError(codec.EnvelopeSize(1), cfg.MaxPayloadBytes)
	}
	chunks := batch.Split(points, maxRecords)
	destReceiver := common.HexToAddress(destNet.Relay)

	var deliveries []models.Delivery
	for i, chunk := range chunks {
		var baseline uint64
		if oS.Wait {
			baseline, err = receiver.ReceivedCount(ctx)
			if err != nil {
				return err
			}
		}

		delivery, err := sender.SendEnvelope(ctx, destNet.EndpointID, destReceiver, chunk)
		if err != nil {
			return err
		}
		delivery.DestChain = destNet.ChainID

		if oS.Wait {
			result, err := relay.ConfirmDelivery(ctx, util.GetPoller(cmd), receiver, baseline, &delivery)
			if err != nil && !griderrors.IsInconclusive(err) {
				return err
			}
			// Source and destination logs interleave here; tag the poll
			// outcome with the chain it was observed on.
			destLog := logger.LoggerWithNetwork(oS.Dest)
			destLog.Info().
				Int("envelope", i+1).
				Int("envelopes", len(chunks)).
				Str("state", string(result.State)).
				Int("attempts", result.Attempts).
				Msg("delivery poll finished")
		}
		deliveries = append(deliveries, delivery)
		printDelivery(cmd, delivery)
	}

	confirmed := 0
	for _, d := range deliveries {
		if d.Status == models.DeliveryConfirmed {
			confirmed++
		}
	}
	output.KeyValue(cmd, []output.Pair{
		{Key: "Records", Value: len(points)},
		{Key: "Envelopes", Value: len(deliveries)},
		{Key: "Confirmed", Value: confirmed},
	})
	return nil
}

func printDelivery(cmd *cobra.Command, d models.Delivery) {
	output.KeyValue(cmd, []output.Pair{
		{Key: "GUID", Value: d.GUID.Hex()},
		{Key: "Nonce", Value: d.Nonce},
		{Key: "Tx", Value: d.TxHash.Hex()},
		{Key: "Payload Bytes", Value: d.PayloadSize},
		{Key: "Status", Value: string(d.Status)},
		{Key: "Note", Value: d.Message},
	})
	cmd.Println()
}
