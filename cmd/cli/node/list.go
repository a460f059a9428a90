package node

import (
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/cmd/util"
	"github.com/opengrid-project/gridctl/cmd/util/flags/cliflags"
	"github.com/opengrid-project/gridctl/cmd/util/output"
	"github.com/opengrid-project/gridctl/pkg/codec"
	"github.com/opengrid-project/gridctl/pkg/models"
)

type ListOptions struct {
	ActiveOnly bool
	OutputOpts output.OutputOptions
}

func NewListOptions() *ListOptions {
	return &ListOptions{
		OutputOpts: output.OutputOptions{Format: output.TableFormat},
	}
}

func newListCmd() *cobra.Command {
	oL := NewListOptions()
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every registered node on the selected network",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := oL.Run(cmd); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}
	listCmd.Flags().BoolVar(&oL.ActiveOnly, "active", false, "Only show active nodes")
	listCmd.Flags().AddFlagSet(cliflags.OutputFormatFlags(&oL.OutputOpts))
	return listCmd
}

func formatCoord(fixed int64) string {
	return strconv.FormatFloat(float64(fixed)/codec.CoordScale, 'f', 4, 64)
}

var listColumns = []output.TableColumn[models.Node]{
	{
		ColumnConfig: table.ColumnConfig{Name: "id"},
		Value:        func(n models.Node) string { return strconv.FormatUint(n.ID, 10) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "location", WidthMax: 30, WidthMaxEnforcer: text.WrapText},
		Value:        func(n models.Node) string { return n.Location },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "lat"},
		Value:        func(n models.Node) string { return formatCoord(n.Latitude) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "lon"},
		Value:        func(n models.Node) string { return formatCoord(n.Longitude) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "active"},
		Value:        func(n models.Node) string { return strconv.FormatBool(n.Active) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "registered"},
		Value:        func(n models.Node) string { return n.RegisteredAt.Format(time.RFC3339) },
	},
}

func (oL *ListOptions) Run(cmd *cobra.Command) error {
	client, net, err := util.DialNetwork(cmd)
	if err != nil {
		return err
	}
	defer client.Close()
	registry, err := util.GetRegistry(client, net)
	if err != nil {
		return err
	}

	nodes, err := registry.GetAllNodes(cmd.Context())
	if err != nil {
		return err
	}
	if oL.ActiveOnly {
		nodes = lo.Filter(nodes, func(n models.Node, _ int) bool { return n.Active })
	}
	return output.Output(cmd, listColumns, oL.OutputOpts, nodes)
}
