package deploy

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/cmd/util"
	"github.com/opengrid-project/gridctl/cmd/util/output"
	"github.com/opengrid-project/gridctl/pkg/griderrors"
)

type contractCheck struct {
	Contract string `json:"contract"`
	Address  string `json:"address"`
	Deployed bool   `json:"deployed"`
	CodeSize int    `json:"codeSize"`
}

var verifyColumns = []output.TableColumn[contractCheck]{
	{
		ColumnConfig: table.ColumnConfig{Name: "contract"},
		Value:        func(c contractCheck) string { return c.Contract },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "address"},
		Value:        func(c contractCheck) string { return c.Address },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "deployed"},
		Value: func(c contractCheck) string {
			if c.Deployed {
				return "yes"
			}
			return output.RedStr("no")
		},
	},
}

func runVerify(cmd *cobra.Command) error {
	ctx := cmd.Context()
	client, net, err := util.DialNetwork(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	targets := []struct {
		name    string
		address string
	}{
		{"registry", net.Registry},
		{"relay", net.Relay},
		{"oracle", net.Oracle},
	}

	var checks []contractCheck
	missing := false
	for _, target := range targets {
		if target.address == "" {
			continue
		}
		code, err := client.Eth().CodeAt(ctx, common.HexToAddress(target.address), nil)
		if err != nil {
			return err
		}
		check := contractCheck{
			Contract: target.name,
			Address:  target.address,
			Deployed: len(code) > 0,
			CodeSize: len(code),
		}
		if !check.Deployed {
			missing = true
		}
		checks = append(checks, check)
	}
	if len(checks) == 0 {
		return griderrors.NewConfigurationError("selected network has no contract addresses configured")
	}

	if err := output.Output(cmd, verifyColumns, output.OutputOptions{Format: output.TableFormat}, checks); err != nil {
		return err
	}
	if missing {
		return griderrors.NewConfigurationError("one or more configured addresses have no contract code")
	}
	return nil
}
