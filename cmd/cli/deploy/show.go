package deploy

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/cmd/util"
	"github.com/opengrid-project/gridctl/cmd/util/output"
)

func runShow(cmd *cobra.Command) error {
	name, net, err := util.GetNetwork(cmd)
	if err != nil {
		return err
	}
	output.Bold(cmd, fmt.Sprintf("Network %s\n", name))
	output.KeyValue(cmd, []output.Pair{
		{Key: "RPC", Value: net.RPC},
		{Key: "Chain ID", Value: strconv.FormatUint(net.ChainID, 10)},
		{Key: "Endpoint ID", Value: strconv.FormatUint(uint64(net.EndpointID), 10)},
		{Key: "Registry", Value: net.Registry},
		{Key: "Relay", Value: net.Relay},
		{Key: "Oracle", Value: net.Oracle},
	})
	return nil
}
