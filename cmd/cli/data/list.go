package data

import (
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/cmd/util"
	"github.com/opengrid-project/gridctl/cmd/util/flags/cliflags"
	"github.com/opengrid-project/gridctl/cmd/util/output"
	"github.com/opengrid-project/gridctl/pkg/codec"
	"github.com/opengrid-project/gridctl/pkg/models"
)

type ListOptions struct {
	Offset     uint64
	Limit      int
	OutputOpts output.OutputOptions
}

func NewListOptions() *ListOptions {
	return &ListOptions{
		Limit:      20,
		OutputOpts: output.OutputOptions{Format: output.TableFormat},
	}
}

func newListCmd() *cobra.Command {
	oL := NewListOptions()
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Read recorded measurements back from the registry",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := oL.Run(cmd); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}
	listCmd.Flags().Uint64Var(&oL.Offset, "offset", 0, "Index of the first data point to read")
	listCmd.Flags().IntVar(&oL.Limit, "limit", oL.Limit, "Maximum number of data points to read")
	listCmd.Flags().AddFlagSet(cliflags.OutputFormatFlags(&oL.OutputOpts))
	return listCmd
}

var listColumns = []output.TableColumn[models.DataPoint]{
	{
		ColumnConfig: table.ColumnConfig{Name: "node"},
		Value:        func(p models.DataPoint) string { return strconv.FormatUint(p.NodeID, 10) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "timestamp"},
		Value:        func(p models.DataPoint) string { return p.Timestamp.Format(time.RFC3339) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "kWh"},
		Value: func(p models.DataPoint) string {
			return strconv.FormatFloat(float64(p.Measurement)/codec.MeasurementScale, 'f', 3, 64)
		},
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "lat"},
		Value: func(p models.DataPoint) string {
			return strconv.FormatFloat(float64(p.Latitude)/codec.CoordScale, 'f', 4, 64)
		},
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "lon"},
		Value: func(p models.DataPoint) string {
			return strconv.FormatFloat(float64(p.Longitude)/codec.CoordScale, 'f', 4, 64)
		},
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "reporter"},
		Value:        func(p models.DataPoint) string { return p.Reporter.Hex() },
	},
}

func (oL *ListOptions) Run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	client, net, err := util.DialNetwork(cmd)
	if err != nil {
		return err
	}
	defer client.Close()
	registry, err := util.GetRegistry(client, net)
	if err != nil {
		return err
	}

	total, err := registry.DataPointCount(ctx)
	if err != nil {
		return err
	}

	// The contract stores a flat array with no pagination; read one index at
	// a time so huge registries do not blow the RPC response limit.
	var points []models.DataPoint
	for i := oL.Offset; i < total && len(points) < oL.Limit; i++ {
		packed, reporter, err := registry.GetDataPoint(ctx, i)
		if err != nil {
			return err
		}
		point, err := codec.UnpackDataPoint(packed)
		if err != nil {
			return err
		}
		point.Reporter = reporter
		points = append(points, point)
	}
	return output.Output(cmd, listColumns, oL.OutputOpts, points)
}
