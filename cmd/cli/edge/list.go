package edge

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/cmd/util"
	"github.com/opengrid-project/gridctl/cmd/util/flags/cliflags"
	"github.com/opengrid-project/gridctl/cmd/util/output"
	"github.com/opengrid-project/gridctl/pkg/models"
)

type ListOptions struct {
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
		Short: "List every registered edge on the selected network",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := oL.Run(cmd); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}
	listCmd.Flags().AddFlagSet(cliflags.OutputFormatFlags(&oL.OutputOpts))
	return listCmd
}

var listColumns = []output.TableColumn[models.Edge]{
	{
		ColumnConfig: table.ColumnConfig{Name: "id"},
		Value:        func(e models.Edge) string { return strconv.FormatUint(e.ID, 10) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "from"},
		Value:        func(e models.Edge) string { return strconv.FormatUint(e.From, 10) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "to"},
		Value:        func(e models.Edge) string { return strconv.FormatUint(e.To, 10) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "type"},
		Value:        func(e models.Edge) string { return e.EdgeType },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "capacity kW"},
		Value:        func(e models.Edge) string { return strconv.FormatUint(e.CapacityKW, 10) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "distance m"},
		Value:        func(e models.Edge) string { return strconv.FormatUint(e.DistanceM, 10) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "active"},
		Value:        func(e models.Edge) string { return strconv.FormatBool(e.Active) },
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

	edges, err := registry.GetAllEdges(cmd.Context())
	if err != nil {
		return err
	}
	return output.Output(cmd, listColumns, oL.OutputOpts, edges)
}
