package chain

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

	"github.com/opengrid-project/gridctl/pkg/griderrors"
	"github.com/opengrid-project/gridctl/pkg/models"
)

// registryNode mirrors the registry contract's Node struct for ABI decoding.
type registryNode struct {
	Id           *big.Int
	Location     string
	Latitude     *big.Int
	Longitude    *big.Int
	Active       bool
	RegisteredAt *big.Int
	LastUpdate   *big.Int
}

type registryEdge struct {
	Id           *big.Int
	FromId       *big.Int
	ToId         *big.Int
	EdgeType     string
	Capacity     *big.Int
	Distance     *big.Int
	Active       bool
	RegisteredAt *big.Int
}

type nodeRegisteredEvent struct {
	Id       *big.Int
	Location string
}

type edgeRegisteredEvent struct {
	Id     *big.Int
	FromId *big.Int
	ToId   *big.Int
}

// Registry is a typed client for the deployed node/edge/data registry.
type Registry struct {
	client   *Client
	abi      abi.ABI
	contract *bind.BoundContract
	address  common.Address
}

func NewRegistry(client *Client, address string) (*Registry, error) {
	if !common.IsHexAddress(address) {
		return nil, griderrors.NewConfigurationError("registry address %q is not valid", address)
	}
	parsed, err := abi.JSON(strings.NewReader(RegistryABI))
	if err != nil {
		return nil, errors.Wrap(err, "parsing registry ABI")
	}
	addr := common.HexToAddress(address)
	return &Registry{
		client:   client,
		abi:      parsed,
		contract: bind.NewBoundContract(addr, parsed, client.Eth(), client.Eth(), client.Eth()),
		address:  addr,
	}, nil
}

func (r *Registry) Address() common.Address {
	return r.address
}

func (r *Registry) count(ctx context.Context, method string) (uint64, error) {
	var out []interface{}
	if err := r.contract.Call(r.client.CallOpts(ctx), &out, method); err != nil {
		return 0, errors.Wrapf(err, "calling %s", method)
	}
	return (*abi.ConvertType(out[0], new(*big.Int)).(**big.Int)).Uint64(), nil
}

func (r *Registry) NodeCount(ctx context.Context) (uint64, error) {
	return r.count(ctx, "nodeCount")
}

func (r *Registry) DataPointCount(ctx context.Context) (uint64, error) {
	return r.count(ctx, "dataPointCount")
}

// findEventLog unpacks the first receipt log emitted by the registry for the
// named event. Logs from other contracts in the same receipt are skipped.
func (r *Registry) findEventLog(receipt *types.Receipt, name string, out interface{}) bool {
	eventID := r.abi.Events[name].ID
	for _, logEntry := range receipt.Logs {
		if logEntry.Address != r.address || len(logEntry.Topics) == 0 || logEntry.Topics[0] != eventID {
			continue
		}
		if err := r.contract.UnpackLog(out, name, *logEntry); err != nil {
			continue
		}
		return true
	}
	return false
}

// RegisterNode submits a node registration, waits for it to mine, and returns
// the contract-assigned id parsed from the NodeRegistered event. Reading the
// id from the receipt keeps it correct when other registrations land in the
// same block.
func (r *Registry) RegisterNode(ctx context.Context, location string, latitude, longitude int64) (uint64, *types.Receipt, error) {
	opts, err := r.client.TransactOpts(ctx, nil)
	if err != nil {
		return 0, nil, err
	}
	tx, err := r.contract.Transact(opts, "registerNode", location, big.NewInt(latitude), big.NewInt(longitude))
	if err != nil {
		return 0, nil, errors.Wrap(err, "submitting registerNode")
	}
	receipt, err := r.client.WaitMined(ctx, tx)
	if err != nil {
		return 0, receipt, err
	}

	var event nodeRegisteredEvent
	if !r.findEventLog(receipt, "NodeRegistered", &event) {
		return 0, receipt, griderrors.NewDeliveryError("registerNode mined but emitted no NodeRegistered event")
	}
	return event.Id.Uint64(), receipt, nil
}

// RegisterEdge mirrors RegisterNode, parsing the id from EdgeRegistered.
func (r *Registry) RegisterEdge(ctx context.Context, from, to uint64, edgeType string, capacity, distance uint64) (uint64, *types.Receipt, error) {
	opts, err := r.client.TransactOpts(ctx, nil)
	if err != nil {
		return 0, nil, err
	}
	tx, err := r.contract.Transact(opts, "registerEdge",
		new(big.Int).SetUint64(from), new(big.Int).SetUint64(to),
		edgeType, new(big.Int).SetUint64(capacity), new(big.Int).SetUint64(distance))
	if err != nil {
		return 0, nil, errors.Wrap(err, "submitting registerEdge")
	}
	receipt, err := r.client.WaitMined(ctx, tx)
	if err != nil {
		return 0, receipt, err
	}

	var event edgeRegisteredEvent
	if !r.findEventLog(receipt, "EdgeRegistered", &event) {
		return 0, receipt, griderrors.NewDeliveryError("registerEdge mined but emitted no EdgeRegistered event")
	}
	return event.Id.Uint64(), receipt, nil
}

func (r *Registry) SetNodeActive(ctx context.Context, id uint64, active bool) (*types.Receipt, error) {
	opts, err := r.client.TransactOpts(ctx, nil)
	if err != nil {
		return nil, err
	}
	tx, err := r.contract.Transact(opts, "setNodeActive", new(big.Int).SetUint64(id), active)
	if err != nil {
		return nil, errors.Wrap(err, "submitting setNodeActive")
	}
	return r.client.WaitMined(ctx, tx)
}

// RecordDataPointBatch appends a chunk of packed measurements in a single
// transaction. The node id of each record rides inside its packed word.
func (r *Registry) RecordDataPointBatch(ctx context.Context, packed []*big.Int) (*types.Receipt, error) {
	opts, err := r.client.TransactOpts(ctx, nil)
	if err != nil {
		return nil, err
	}
	tx, err := r.contract.Transact(opts, "recordDataPointBatch", packed)
	if err != nil {
		return nil, errors.Wrap(err, "submitting recordDataPointBatch")
	}
	return r.client.WaitMined(ctx, tx)
}

func (r *Registry) GetNode(ctx context.Context, id uint64) (models.Node, error) {
	var out []interface{}
	if err := r.contract.Call(r.client.CallOpts(ctx), &out, "getNode", new(big.Int).SetUint64(id)); err != nil {
		return models.Node{}, errors.Wrapf(err, "calling getNode(%d)", id)
	}
	raw := *abi.ConvertType(out[0], new(registryNode)).(*registryNode)
	return nodeFromRaw(raw), nil
}

func (r *Registry) GetEdge(ctx context.Context, id uint64) (models.Edge, error) {
	var out []interface{}
	if err := r.contract.Call(r.client.CallOpts(ctx), &out, "getEdge", new(big.Int).SetUint64(id)); err != nil {
		return models.Edge{}, errors.Wrapf(err, "calling getEdge(%d)", id)
	}
	raw := *abi.ConvertType(out[0], new(registryEdge)).(*registryEdge)
	return edgeFromRaw(raw), nil
}

// GetAllNodes dumps the full node array. The contract does not paginate, so
// response size grows with total registrations.
func (r *Registry) GetAllNodes(ctx context.Context) ([]models.Node, error) {
	var out []interface{}
	if err := r.contract.Call(r.client.CallOpts(ctx), &out, "getAllNodes"); err != nil {
		return nil, errors.Wrap(err, "calling getAllNodes")
	}
	raws := *abi.ConvertType(out[0], new([]registryNode)).(*[]registryNode)
	nodes := make([]models.Node, 0, len(raws))
	for _, raw := range raws {
		nodes = append(nodes, nodeFromRaw(raw))
	}
	return nodes, nil
}

func (r *Registry) GetAllEdges(ctx context.Context) ([]models.Edge, error) {
	var out []interface{}
	if err := r.contract.Call(r.client.CallOpts(ctx), &out, "getAllEdges"); err != nil {
		return nil, errors.Wrap(err, "calling getAllEdges")
	}
	raws := *abi.ConvertType(out[0], new([]registryEdge)).(*[]registryEdge)
	edges := make([]models.Edge, 0, len(raws))
	for _, raw := range raws {
		edges = append(edges, edgeFromRaw(raw))
	}
	return edges, nil
}

// GetDataPoint reads one stored measurement by index, returning the packed
// word and the reporting address as stored on chain.
func (r *Registry) GetDataPoint(ctx context.Context, index uint64) (*big.Int, common.Address, error) {
	var out []interface{}
	if err := r.contract.Call(r.client.CallOpts(ctx), &out, "getDataPoint", new(big.Int).SetUint64(index)); err != nil {
		return nil, common.Address{}, errors.Wrapf(err, "calling getDataPoint(%d)", index)
	}
	packed := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	reporter := *abi.ConvertType(out[1], new(common.Address)).(*common.Address)
	return packed, reporter, nil
}

func nodeFromRaw(raw registryNode) models.Node {
	return models.Node{
		ID:           raw.Id.Uint64(),
		Location:     raw.Location,
		Latitude:     raw.Latitude.Int64(),
		Longitude:    raw.Longitude.Int64(),
		Active:       raw.Active,
		RegisteredAt: time.Unix(raw.RegisteredAt.Int64(), 0).UTC(),
		LastUpdate:   time.Unix(raw.LastUpdate.Int64(), 0).UTC(),
	}
}

func edgeFromRaw(raw registryEdge) models.Edge {
	return models.Edge{
		ID:           raw.Id.Uint64(),
		From:         raw.FromId.Uint64(),
		To:           raw.ToId.Uint64(),
		EdgeType:     raw.EdgeType,
		CapacityKW:   raw.Capacity.Uint64(),
		DistanceM:    raw.Distance.Uint64(),
		Active:       raw.Active,
		RegisteredAt: time.Unix(raw.RegisteredAt.Int64(), 0).UTC(),
	}
}
