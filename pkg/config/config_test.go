//go:build unit || !integration

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengrid-project/gridctl/pkg/griderrors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gridctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
defaultNetwork: sepolia
maxPayloadBytes: 1500
networks:
  sepolia:
    rpc: https://rpc.sepolia.example
    chainId: 11155111
    endpointId: 40161
    registry: "0x1111111111111111111111111111111111111111"
    relay: "0x2222222222222222222222222222222222222222"
  fuji:
    rpc: https://rpc.fuji.example
    chainId: 43113
    endpointId: 40106
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1500, cfg.MaxPayloadBytes)
	assert.Equal(t, 40, cfg.Poll.MaxAttempts) // default survives partial config

	net, err := cfg.Network("")
	require.NoError(t, err)
	assert.Equal(t, uint64(11155111), net.ChainID)

	_, err = cfg.Network("fuji")
	assert.NoError(t, err)
}

func TestLoadRejectsBadAddress(t *testing.T) {
	path := writeConfig(t, `
networks:
  sepolia:
    rpc: https://rpc.sepolia.example
    chainId: 11155111
    registry: "not-an-address"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, griderrors.CodeConfiguration, griderrors.Code(err))
}

func TestLoadRejectsPayloadCapBelowOneRecord(t *testing.T) {
	// A tiny positive cap would make every envelope split degenerate to zero
	// chunks downstream, so it must be refused at load time.
	path := writeConfig(t, `
maxPayloadBytes: 20
networks:
  sepolia:
    rpc: https://rpc.sepolia.example
    chainId: 11155111
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, griderrors.CodeConfiguration, griderrors.Code(err))
	assert.Contains(t, err.Error(), "single-record envelope")
}

func TestLoadRejectsMissingRPC(t *testing.T) {
	path := writeConfig(t, `
networks:
  sepolia:
    chainId: 11155111
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsUnknownDefaultNetwork(t *testing.T) {
	path := writeConfig(t, `
defaultNetwork: mainnet
networks:
  sepolia:
    rpc: https://rpc.sepolia.example
    chainId: 11155111
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestNetworkLookupErrors(t *testing.T) {
	cfg := &Config{
		MaxPayloadBytes: 1,
		Poll:            PollConfig{Interval: 1, MaxAttempts: 1},
		Batch:           BatchConfig{Size: 1},
	}

	_, err := cfg.Network("")
	require.Error(t, err)

	_, err = cfg.Network("nowhere")
	require.Error(t, err)
	assert.Equal(t, griderrors.CodeConfiguration, griderrors.Code(err))
}

func TestPrivateKeyFromEnvironment(t *testing.T) {
	t.Setenv(KeyPrivateKey, "0xabc123")
	key, err := PrivateKey()
	require.NoError(t, err)
	assert.Equal(t, "abc123", key)

	t.Setenv(KeyPrivateKey, "")
	_, err = PrivateKey()
	require.Error(t, err)
	assert.Equal(t, griderrors.CodeConfiguration, griderrors.Code(err))
}
