package chain

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/opengrid-project/gridctl/pkg/griderrors"
)

// OracleConsumer is a typed client for the off-chain-compute consumer
// contract. The compute network fulfills requests asynchronously; completion
// shows up later via getResponse.
type OracleConsumer struct {
	client   *Client
	abi      abi.ABI
	contract *bind.BoundContract
	address  common.Address
}

type computeRequestedEvent struct {
	RequestId *big.Int
	Requester common.Address
}

// OracleResponse is the raw fulfillment state for one request.
type OracleResponse struct {
	Packed    *big.Int
	Err       []byte
	Fulfilled bool
}

func NewOracleConsumer(client *Client, address string) (*OracleConsumer, error) {
	if !common.IsHexAddress(address) {
		return nil, griderrors.NewConfigurationError("oracle address %q is not valid", address)
	}
	parsed, err := abi.JSON(strings.NewReader(OracleConsumerABI))
	if err != nil {
		return nil, errors.Wrap(err, "parsing oracle consumer ABI")
	}
	addr := common.HexToAddress(address)
	return &OracleConsumer{
		client:   client,
		abi:      parsed,
		contract: bind.NewBoundContract(addr, parsed, client.Eth(), client.Eth(), client.Eth()),
		address:  addr,
	}, nil
}

func (o *OracleConsumer) Address() common.Address {
	return o.address
}

// RequestCompute submits a compute request and returns the contract-assigned
// request id parsed from the ComputeRequested event.
func (o *OracleConsumer) RequestCompute(ctx context.Context, source string, args []string) (uint64, error) {
	opts, err := o.client.TransactOpts(ctx, nil)
	if err != nil {
		return 0, err
	}
	tx, err := o.contract.Transact(opts, "requestCompute", source, args)
	if err != nil {
		return 0, errors.Wrap(err, "submitting requestCompute")
	}
	receipt, err := o.client.WaitMined(ctx, tx)
	if err != nil {
		return 0, err
	}

	eventID := o.abi.Events["ComputeRequested"].ID
	for _, logEntry := range receipt.Logs {
		if logEntry.Address != o.address || len(logEntry.Topics) == 0 || logEntry.Topics[0] != eventID {
			continue
		}
		var event computeRequestedEvent
		if err := o.contract.UnpackLog(&event, "ComputeRequested", *logEntry); err != nil {
			continue
		}
		return event.RequestId.Uint64(), nil
	}
	return 0, griderrors.NewDeliveryError("requestCompute mined but emitted no ComputeRequested event")
}

// GetResponse reads the fulfillment state for a request id.
func (o *OracleConsumer) GetResponse(ctx context.Context, requestID uint64) (OracleResponse, error) {
	var out []interface{}
	err := o.contract.Call(o.client.CallOpts(ctx), &out, "getResponse", new(big.Int).SetUint64(requestID))
	if err != nil {
		return OracleResponse{}, errors.Wrapf(err, "calling getResponse(%d)", requestID)
	}
	return OracleResponse{
		Packed:    *abi.ConvertType(out[0], new(*big.Int)).(**big.Int),
		Err:       *abi.ConvertType(out[1], new([]byte)).(*[]byte),
		Fulfilled: *abi.ConvertType(out[2], new(bool)).(*bool),
	}, nil
}
