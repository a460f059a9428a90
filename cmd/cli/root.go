package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/cmd/cli/data"
	"github.com/opengrid-project/gridctl/cmd/cli/deploy"
	"github.com/opengrid-project/gridctl/cmd/cli/edge"
	"github.com/opengrid-project/gridctl/cmd/cli/node"
	"github.com/opengrid-project/gridctl/cmd/cli/oracle"
	"github.com/opengrid-project/gridctl/cmd/cli/relay"
	"github.com/opengrid-project/gridctl/cmd/cli/simulate"
	"github.com/opengrid-project/gridctl/cmd/cli/version"
	"github.com/opengrid-project/gridctl/cmd/util"
	"github.com/opengrid-project/gridctl/pkg/config"
	"github.com/opengrid-project/gridctl/pkg/logger"
)

func Execute() {
	rootCmd := NewRootCmd()

	// Ensure commands are quick to clean up on interrupt; a second signal
	// kills the process the hard way.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	var configPath string
	var network string

	rootCmd := &cobra.Command{
		Use:   "gridctl",
		Short: "Operate energy monitoring registries across EVM networks",
		Long: `gridctl drives deployed energy monitoring contracts: registering grid
nodes and edges, submitting meter readings in batches, relaying packed record
envelopes across chains, and requesting off-chain compute over recorded data.

Networks and contract addresses come from a gridctl.yaml config file or
GRIDCTL_* environment variables; the signer key comes only from
GRIDCTL_PRIVATE_KEY.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger.ConfigureLogging()
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cmd.SetContext(log.Logger.WithContext(
				util.ContextWithConfig(cmd.Context(), cfg, network)))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to the config file (default gridctl.yaml in . or $HOME/.gridctl)")
	rootCmd.PersistentFlags().StringVar(&network, "network", "",
		"Network to operate against (default from config)")

	rootCmd.AddCommand(deploy.NewCmd())
	rootCmd.AddCommand(node.NewCmd())
	rootCmd.AddCommand(edge.NewCmd())
	rootCmd.AddCommand(data.NewCmd())
	rootCmd.AddCommand(relay.NewCmd())
	rootCmd.AddCommand(oracle.NewCmd())
	rootCmd.AddCommand(simulate.NewCmd())
	rootCmd.AddCommand(version.NewCmd())

	return rootCmd
}
