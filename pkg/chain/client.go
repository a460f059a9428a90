// Package chain wraps the JSON-RPC surface the toolkit drives: dialing a
// provider, signing transactions, and waiting on receipts. One client per
// network; all operations are sequential, one blocking call at a time.
package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/opengrid-project/gridctl/pkg/config"
	"github.com/opengrid-project/gridctl/pkg/griderrors"
)

const dialTimeout = 10 * time.Second

type Client struct {
	eth     *ethclient.Client
	network string
	chainID *big.Int

	key    *ecdsa.PrivateKey
	sender common.Address
}

// Dial connects to the network's RPC endpoint and verifies the provider
// reports the configured chain id, catching wrong-network mistakes before
// any transaction is signed.
func Dial(ctx context.Context, name string, net config.Network) (*Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	eth, err := ethclient.DialContext(dialCtx, net.RPC)
	if err != nil {
		return nil, griderrors.NewConfigurationError("dialing %s rpc %s", name, net.RPC).WithCause(err)
	}

	chainID, err := eth.ChainID(dialCtx)
	if err != nil {
		eth.Close()
		return nil, errors.Wrapf(err, "querying chain id from %s", net.RPC)
	}
	if chainID.Uint64() != net.ChainID {
		eth.Close()
		return nil, griderrors.NewConfigurationError(
			"network %s is configured as chain %d but the provider reports %d", name, net.ChainID, chainID)
	}

	return &Client{
		eth:     eth,
		network: name,
		chainID: chainID,
	}, nil
}

func (c *Client) Close() {
	c.eth.Close()
}

func (c *Client) Eth() *ethclient.Client {
	return c.eth
}

func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// WithSigner attaches the operator key for write operations.
func (c *Client) WithSigner(hexKey string) error {
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return griderrors.NewConfigurationError("private key is not valid hex-encoded secp256k1").WithCause(err)
	}
	c.key = key
	c.sender = crypto.PubkeyToAddress(key.PublicKey)
	return nil
}

func (c *Client) Sender() common.Address {
	return c.sender
}

// CallOpts returns read options bound to ctx.
func (c *Client) CallOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx}
}

// TransactOpts builds signed transaction options. Value is attached for
// payable calls such as fee-bearing cross-chain sends.
func (c *Client) TransactOpts(ctx context.Context, value *big.Int) (*bind.TransactOpts, error) {
	if c.key == nil {
		return nil, griderrors.NewConfigurationError("client for %s has no signer attached", c.network)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(c.key, c.chainID)
	if err != nil {
		return nil, errors.Wrap(err, "building transactor")
	}
	opts.Context = ctx
	if value != nil {
		opts.Value = value
	}
	return opts, nil
}

// WaitMined blocks until the transaction is mined and checks its status,
// surfacing on-chain reverts as delivery errors with the transaction hash.
func (c *Client) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	log.Ctx(ctx).Debug().
		Str("network", c.network).
		Str("tx", tx.Hash().Hex()).
		Msg("waiting for transaction to be mined")

	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return nil, errors.Wrapf(err, "waiting for tx %s", tx.Hash())
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, griderrors.New(griderrors.CodeChainRevert, "transaction %s reverted on chain", tx.Hash()).
			WithDetail("Tx", tx.Hash().Hex()).
			WithDetail("Block", receipt.BlockNumber.String())
	}
	log.Ctx(ctx).Info().
		Str("network", c.network).
		Str("tx", tx.Hash().Hex()).
		Uint64("block", receipt.BlockNumber.Uint64()).
		Uint64("gasUsed", receipt.GasUsed).
		Msg("transaction mined")
	return receipt, nil
}
