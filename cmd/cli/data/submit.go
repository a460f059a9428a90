package data

import (
	"context"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/cmd/util"
	"github.com/opengrid-project/gridctl/cmd/util/output"
	"github.com/opengrid-project/gridctl/pkg/chain"
	"github.com/opengrid-project/gridctl/pkg/codec"
	"github.com/opengrid-project/gridctl/pkg/griderrors"
	"github.com/opengrid-project/gridctl/pkg/models"
	"github.com/opengrid-project/gridctl/pkg/simulation"
)

type SubmitOptions struct {
	InputFile string
	BatchSize int
}

func NewSubmitOptions() *SubmitOptions {
	return &SubmitOptions{}
}

func newSubmitCmd() *cobra.Command {
	oS := NewSubmitOptions()
	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Record measurements from a CSV file on chain in batches",
		Long: `Reads measurements from a CSV export, packs each into a single-word
on-chain encoding, and records them through the registry in bounded batch
transactions. Failed batches are reported but do not stop the remaining ones;
reconcile partial runs against the before/after data point counts.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := oS.Run(cmd); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}
	submitCmd.Flags().StringVar(&oS.InputFile, "input", "", "CSV file of measurements to submit")
	submitCmd.Flags().IntVar(&oS.BatchSize, "batch-size", 0, "Records per transaction (default from config)")
	submitCmd.MarkFlagRequired("input") //nolint:errcheck
	return submitCmd
}

func (oS *SubmitOptions) Run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	f, err := os.Open(oS.InputFile)
	if err != nil {
		return griderrors.NewValidationError("opening input %s", oS.InputFile).WithCause(err)
	}
	points, err := simulation.ReadCSV(f)
	f.Close()
	if err != nil {
		return err
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

	before, err := registry.DataPointCount(ctx)
	if err != nil {
		return err
	}

	submitter, err := util.GetSubmitter(cmd, oS.BatchSize)
	if err != nil {
		return err
	}
	results, submitErr := submitter.SubmitAll(ctx, points, recordChunk(registry))

	after, err := registry.DataPointCount(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	output.KeyValue(cmd, []output.Pair{
		{Key: "Records", Value: len(points)},
		{Key: "Chunks", Value: len(results)},
		{Key: "Failed Chunks", Value: failed},
		{Key: "Count Before", Value: before},
		{Key: "Count After", Value: after},
		{Key: "Recorded", Value: after - before},
	})
	return submitErr
}

// recordChunk packs a chunk and lands it as one registry transaction.
func recordChunk(registry *chain.Registry) func(ctx context.Context, chunk []models.DataPoint) error {
	return func(ctx context.Context, chunk []models.DataPoint) error {
		packed := make([]*big.Int, 0, len(chunk))
		for _, dp := range chunk {
			word, err := codec.PackDataPoint(dp)
			if err != nil {
				return err
			}
			packed = append(packed, word)
		}
		_, err := registry.RecordDataPointBatch(ctx, packed)
		return err
	}
}
