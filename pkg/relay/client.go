// Package relay drives the cross-chain messaging contract: quoting fees,
// sending record envelopes, and confirming destination-side delivery. The
// verification and transport of messages is owned entirely by the external
// relay network; this client only submits and observes.
package relay

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/opengrid-project/gridctl/pkg/chain"
	"github.com/opengrid-project/gridctl/pkg/codec"
	"github.com/opengrid-project/gridctl/pkg/griderrors"
	"github.com/opengrid-project/gridctl/pkg/models"
)

type Client struct {
	client   *chain.Client
	abi      abi.ABI
	contract *bind.BoundContract
	address  common.Address
	codec    *codec.EnvelopeCodec
}

type envelopeSentEvent struct {
	Guid        [32]byte
	Nonce       uint64
	DstEid      uint32
	PayloadSize *big.Int
}

func New(client *chain.Client, address string, envCodec *codec.EnvelopeCodec) (*Client, error) {
	if !common.IsHexAddress(address) {
		return nil, griderrors.NewConfigurationError("relay address %q is not valid", address)
	}
	parsed, err := abi.JSON(strings.NewReader(chain.RelayABI))
	if err != nil {
		return nil, errors.Wrap(err, "parsing relay ABI")
	}
	addr := common.HexToAddress(address)
	return &Client{
		client:   client,
		abi:      parsed,
		contract: bind.NewBoundContract(addr, parsed, client.Eth(), client.Eth(), client.Eth()),
		address:  addr,
		codec:    envCodec,
	}, nil
}

func (c *Client) Address() common.Address {
	return c.address
}

// PadReceiver widens a destination contract address to the relay protocol's
// 32-byte receiver form.
func PadReceiver(receiver common.Address) [32]byte {
	var padded [32]byte
	copy(padded[12:], receiver.Bytes())
	return padded
}

// Quote asks the relay endpoint what fee a payload of this size costs to the
// destination. The send must attach at least this amount.
func (c *Client) Quote(ctx context.Context, dstEID uint32, payload []byte) (*big.Int, error) {
	var out []interface{}
	if err := c.contract.Call(c.client.CallOpts(ctx), &out, "quoteSend", dstEID, payload); err != nil {
		return nil, errors.Wrap(err, "calling quoteSend")
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// ReceivedCount reads how many envelopes this relay contract has applied.
// Used as the destination-side probe for delivery confirmation.
func (c *Client) ReceivedCount(ctx context.Context) (uint64, error) {
	var out []interface{}
	if err := c.contract.Call(c.client.CallOpts(ctx), &out, "receivedCount"); err != nil {
		return 0, errors.Wrap(err, "calling receivedCount")
	}
	return (*abi.ConvertType(out[0], new(*big.Int)).(**big.Int)).Uint64(), nil
}

// SendEnvelope encodes the records, quotes the fee, and submits the
// cross-chain send. The envelope size cap is enforced by the codec before
// anything is signed: oversized payloads fail destination execution with no
// source-side symptom, so they must never leave this process.
func (c *Client) SendEnvelope(
	ctx context.Context,
	dstEID uint32,
	receiver common.Address,
	records []models.DataPoint,
) (models.Delivery, error) {
	payload, err := c.codec.Encode(records)
	if err != nil {
		return models.Delivery{}, err
	}

	fee, err := c.Quote(ctx, dstEID, payload)
	if err != nil {
		return models.Delivery{}, err
	}
	log.Ctx(ctx).Info().
		Uint32("dstEid", dstEID).
		Int("records", len(records)).
		Int("payloadBytes", len(payload)).
		Str("fee", fee.String()).
		Msg("sending cross-chain envelope")

	opts, err := c.client.TransactOpts(ctx, fee)
	if err != nil {
		return models.Delivery{}, err
	}
	tx, err := c.contract.Transact(opts, "sendEnvelope", dstEID, PadReceiver(receiver), payload)
	if err != nil {
		return models.Delivery{}, griderrors.NewDeliveryError("submitting sendEnvelope").WithCause(err)
	}
	receipt, err := c.client.WaitMined(ctx, tx)
	if err != nil {
		return models.Delivery{}, err
	}

	delivery := models.Delivery{
		SourceChain: c.client.ChainID().Uint64(),
		DestEID:     dstEID,
		TxHash:      tx.Hash(),
		PayloadSize: len(payload),
		Records:     len(records),
		Status:      models.DeliveryInflight,
		SentAt:      time.Now().UTC(),
	}
	if event, found := c.findEnvelopeSent(receipt); found {
		delivery.GUID = common.BytesToHash(event.Guid[:])
		delivery.Nonce = event.Nonce
	} else {
		// The send mined but the contract emitted no tracking event; the
		// message may still be relayed, so report it inflight without ids.
		log.Ctx(ctx).Warn().
			Str("tx", tx.Hash().Hex()).
			Msg("no EnvelopeSent event in receipt; delivery has no tracking GUID")
	}
	return delivery, nil
}

func (c *Client) findEnvelopeSent(receipt *types.Receipt) (envelopeSentEvent, bool) {
	eventID := c.abi.Events["EnvelopeSent"].ID
	for _, logEntry := range receipt.Logs {
		if logEntry.Address != c.address || len(logEntry.Topics) == 0 || logEntry.Topics[0] != eventID {
			continue
		}
		var event envelopeSentEvent
		if err := c.contract.UnpackLog(&event, "EnvelopeSent", *logEntry); err != nil {
			continue
		}
		return event, true
	}
	return envelopeSentEvent{}, false
}
