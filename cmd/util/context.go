package util

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/opengrid-project/gridctl/pkg/batch"
	"github.com/opengrid-project/gridctl/pkg/chain"
	"github.com/opengrid-project/gridctl/pkg/codec"
	"github.com/opengrid-project/gridctl/pkg/config"
	"github.com/opengrid-project/gridctl/pkg/griderrors"
	"github.com/opengrid-project/gridctl/pkg/models"
	"github.com/opengrid-project/gridctl/pkg/poller"
	"github.com/opengrid-project/gridctl/pkg/relay"
)

type contextKey struct {
	name string
}

var (
	configKey  = contextKey{name: "config"}
	networkKey = contextKey{name: "network name"}
)

// ContextWithConfig is installed by the root command so every subcommand
// reads the same loaded configuration.
func ContextWithConfig(ctx context.Context, cfg *config.Config, network string) context.Context {
	ctx = context.WithValue(ctx, configKey, cfg)
	return context.WithValue(ctx, networkKey, network)
}

func GetConfig(cmd *cobra.Command) *config.Config {
	return cmd.Context().Value(configKey).(*config.Config)
}

// GetNetwork resolves the network selected by the --network persistent flag,
// falling back to the config default.
func GetNetwork(cmd *cobra.Command) (string, config.Network, error) {
	cfg := GetConfig(cmd)
	name, _ := cmd.Context().Value(networkKey).(string)
	net, err := cfg.Network(name)
	if err != nil {
		return "", config.Network{}, err
	}
	if name == "" {
		name = cfg.DefaultNetwork
	}
	return name, net, nil
}

// DialNetwork opens a read-only chain client for the selected network.
func DialNetwork(cmd *cobra.Command) (*chain.Client, config.Network, error) {
	name, net, err := GetNetwork(cmd)
	if err != nil {
		return nil, config.Network{}, err
	}
	client, err := chain.Dial(cmd.Context(), name, net)
	if err != nil {
		return nil, config.Network{}, err
	}
	return client, net, nil
}

// DialNetworkWithSigner opens a chain client with the operator key attached,
// for write operations.
func DialNetworkWithSigner(cmd *cobra.Command) (*chain.Client, config.Network, error) {
	key, err := config.PrivateKey()
	if err != nil {
		return nil, config.Network{}, err
	}
	client, net, err := DialNetwork(cmd)
	if err != nil {
		return nil, config.Network{}, err
	}
	if err := client.WithSigner(key); err != nil {
		client.Close()
		return nil, config.Network{}, err
	}
	return client, net, nil
}

// GetRegistry builds the registry client for the selected network, requiring
// the registry address to be configured.
func GetRegistry(client *chain.Client, net config.Network) (*chain.Registry, error) {
	if net.Registry == "" {
		return nil, griderrors.NewConfigurationError("selected network has no registry address configured")
	}
	return chain.NewRegistry(client, net.Registry)
}

// GetRelay builds the relay client for the selected network with the
// configured envelope size cap.
func GetRelay(cmd *cobra.Command, client *chain.Client, net config.Network) (*relay.Client, error) {
	if net.Relay == "" {
		return nil, griderrors.NewConfigurationError("selected network has no relay address configured")
	}
	return relay.New(client, net.Relay, codec.NewEnvelopeCodec(GetConfig(cmd).MaxPayloadBytes))
}

// GetPoller builds a delivery poller from the configured interval and budget.
func GetPoller(cmd *cobra.Command) *poller.Poller {
	cfg := GetConfig(cmd)
	return poller.New(cfg.Poll.Interval, cfg.Poll.MaxAttempts)
}

// GetSubmitter builds a data-point batch submitter from configuration, with
// an optional batch size override from a command flag.
func GetSubmitter(cmd *cobra.Command, sizeOverride int) (*batch.Submitter[models.DataPoint], error) {
	cfg := GetConfig(cmd)
	size := cfg.Batch.Size
	if sizeOverride > 0 {
		size = sizeOverride
	}
	return batch.NewSubmitter[models.DataPoint](size, cfg.Batch.Delay)
}
