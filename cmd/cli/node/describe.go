package node

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/cmd/util"
	"github.com/opengrid-project/gridctl/cmd/util/output"
	"github.com/opengrid-project/gridctl/pkg/griderrors"
)

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe [id]",
		Short: "Show the full registry record for one node",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runDescribe(cmd, args[0]); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}
}

func runDescribe(cmd *cobra.Command, arg string) error {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return griderrors.NewValidationError("node id %q is not a number", arg)
	}

	client, net, err := util.DialNetwork(cmd)
	if err != nil {
		return err
	}
	defer client.Close()
	registry, err := util.GetRegistry(client, net)
	if err != nil {
		return err
	}

	node, err := registry.GetNode(cmd.Context(), id)
	if err != nil {
		return err
	}
	output.KeyValue(cmd, []output.Pair{
		{Key: "ID", Value: node.ID},
		{Key: "Location", Value: node.Location},
		{Key: "Latitude", Value: formatCoord(node.Latitude)},
		{Key: "Longitude", Value: formatCoord(node.Longitude)},
		{Key: "Active", Value: node.Active},
		{Key: "Registered", Value: node.RegisteredAt.Format(time.RFC3339)},
		{Key: "Last Update", Value: node.LastUpdate.Format(time.RFC3339)},
	})
	return nil
}
