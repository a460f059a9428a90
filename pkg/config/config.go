// Package config loads the toolkit's network registry: one externally
// injected structure mapping network names to RPC endpoints and deployed
// contract addresses. Nothing else in the repository may hard-code an
// address or endpoint.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"

	"github.com/opengrid-project/gridctl/pkg/codec"
	"github.com/opengrid-project/gridctl/pkg/griderrors"
)

const (
	environmentVariablePrefix = "GRIDCTL"

	// KeyPrivateKey is the environment variable carrying the hex-encoded
	// signer key. Deliberately not a config-file field.
	KeyPrivateKey = "GRIDCTL_PRIVATE_KEY"
)

// Network is one EVM chain the toolkit can operate against.
type Network struct {
	// RPC is the JSON-RPC provider endpoint.
	RPC string `mapstructure:"rpc" json:"rpc"`
	// ChainID is the EVM chain id used for transaction signing.
	ChainID uint64 `mapstructure:"chainId" json:"chainId"`
	// EndpointID is the relay protocol's numeric id for this chain, distinct
	// from the EVM chain id.
	EndpointID uint32 `mapstructure:"endpointId" json:"endpointId"`
	// Registry is the deployed node/edge/data registry contract.
	Registry string `mapstructure:"registry" json:"registry"`
	// Relay is the deployed cross-chain sender/receiver contract.
	Relay string `mapstructure:"relay" json:"relay"`
	// Oracle is the deployed off-chain-compute consumer contract.
	Oracle string `mapstructure:"oracle" json:"oracle"`
}

type PollConfig struct {
	Interval    time.Duration `mapstructure:"interval" json:"interval"`
	MaxAttempts int           `mapstructure:"maxAttempts" json:"maxAttempts"`
}

type BatchConfig struct {
	Size  int           `mapstructure:"size" json:"size"`
	Delay time.Duration `mapstructure:"delay" json:"delay"`
}

type Config struct {
	DefaultNetwork string `mapstructure:"defaultNetwork" json:"defaultNetwork"`
	// MaxPayloadBytes caps cross-chain envelope size. Empirically tuned per
	// deployment; raise only after verifying destination-side execution.
	MaxPayloadBytes int                `mapstructure:"maxPayloadBytes" json:"maxPayloadBytes"`
	ScanAPI         string             `mapstructure:"scanApi" json:"scanApi"`
	Poll            PollConfig         `mapstructure:"poll" json:"poll"`
	Batch           BatchConfig        `mapstructure:"batch" json:"batch"`
	Networks        map[string]Network `mapstructure:"networks" json:"networks"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("maxPayloadBytes", codec.DefaultMaxPayloadBytes)
	v.SetDefault("poll.interval", 15*time.Second)
	v.SetDefault("poll.maxAttempts", 40)
	v.SetDefault("batch.size", 10)
	v.SetDefault("batch.delay", 2*time.Second)
}

// Load reads the config file (explicit path, or gridctl.yaml in the working
// directory and $HOME/.gridctl) plus GRIDCTL_* environment overrides, and
// validates eagerly so operator mistakes surface before any network call.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(environmentVariablePrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gridctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".gridctl"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			// Running purely off env vars is fine for read-only commands.
			return buildAndValidate(v)
		}
		return nil, griderrors.NewConfigurationError("reading config").WithCause(err)
	}
	return buildAndValidate(v)
}

func buildAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, griderrors.NewConfigurationError("parsing config").WithCause(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.MaxPayloadBytes < codec.EnvelopeSize(1) {
		return griderrors.NewConfigurationError(
			"maxPayloadBytes %d cannot fit a single-record envelope (%d bytes minimum)",
			c.MaxPayloadBytes, codec.EnvelopeSize(1))
	}
	if c.Poll.Interval <= 0 || c.Poll.MaxAttempts <= 0 {
		return griderrors.NewConfigurationError("poll interval and maxAttempts must be positive")
	}
	if c.Batch.Size <= 0 {
		return griderrors.NewConfigurationError("batch size must be positive")
	}
	for name, net := range c.Networks {
		if net.RPC == "" {
			return griderrors.NewConfigurationError("network %q has no rpc endpoint", name)
		}
		if net.ChainID == 0 {
			return griderrors.NewConfigurationError("network %q has no chain id", name)
		}
		if net.Registry != "" && !common.IsHexAddress(net.Registry) {
			return griderrors.NewConfigurationError("network %q registry address %q is not valid", name, net.Registry)
		}
		if net.Relay != "" && !common.IsHexAddress(net.Relay) {
			return griderrors.NewConfigurationError("network %q relay address %q is not valid", name, net.Relay)
		}
		if net.Oracle != "" && !common.IsHexAddress(net.Oracle) {
			return griderrors.NewConfigurationError("network %q oracle address %q is not valid", name, net.Oracle)
		}
	}
	if c.DefaultNetwork != "" {
		if _, ok := c.Networks[c.DefaultNetwork]; !ok {
			return griderrors.NewConfigurationError("default network %q is not configured", c.DefaultNetwork)
		}
	}
	return nil
}

// Network resolves a named network, falling back to the configured default
// when name is empty.
func (c *Config) Network(name string) (Network, error) {
	if name == "" {
		name = c.DefaultNetwork
	}
	if name == "" {
		return Network{}, griderrors.NewConfigurationError("no network selected and no default configured")
	}
	net, ok := c.Networks[name]
	if !ok {
		return Network{}, griderrors.NewConfigurationError("network %q is not configured", name)
	}
	return net, nil
}

// PrivateKey returns the operator signing key from the environment. Write
// commands require it; read commands never touch it.
func PrivateKey() (string, error) {
	key := strings.TrimPrefix(strings.TrimSpace(os.Getenv(KeyPrivateKey)), "0x")
	if key == "" {
		return "", griderrors.NewConfigurationError("%s is not set; write operations need a signer key", KeyPrivateKey)
	}
	return key, nil
}
