package version

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/cmd/util"
	"github.com/opengrid-project/gridctl/cmd/util/flags/cliflags"
	"github.com/opengrid-project/gridctl/cmd/util/output"
	"github.com/opengrid-project/gridctl/pkg/version"
)

type VersionOptions struct {
	OutputOpts output.OutputOptions
}

func NewVersionOptions() *VersionOptions {
	return &VersionOptions{
		OutputOpts: output.OutputOptions{Format: output.TableFormat},
	}
}

func NewCmd() *cobra.Command {
	oV := NewVersionOptions()
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show the gridctl version information",
		Run: func(cmd *cobra.Command, _ []string) {
			if err := oV.Run(cmd); err != nil {
				util.Fatal(cmd, err, 1)
			}
		},
	}
	versionCmd.Flags().AddFlagSet(cliflags.OutputFormatFlags(&oV.OutputOpts))
	return versionCmd
}

var columns = []output.TableColumn[*version.BuildVersionInfo]{
	{
		ColumnConfig: table.ColumnConfig{Name: "version"},
		Value:        func(v *version.BuildVersionInfo) string { return v.GitVersion },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "commit"},
		Value:        func(v *version.BuildVersionInfo) string { return v.GitCommit },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "built"},
		Value: func(v *version.BuildVersionInfo) string {
			if v.BuildDate.IsZero() {
				return ""
			}
			return v.BuildDate.Format(time.RFC3339)
		},
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "platform"},
		Value:        func(v *version.BuildVersionInfo) string { return v.GOOS + "/" + v.GOARCH },
	},
}

func (oV *VersionOptions) Run(cmd *cobra.Command) error {
	return output.OutputOne(cmd, columns, oV.OutputOpts, version.Get())
}
