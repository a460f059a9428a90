//go:build unit || !integration

package chain

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengrid-project/gridctl/pkg/logger"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(RegistryABI))
	require.NoError(t, err)
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	return &Registry{
		abi:      parsed,
		contract: bind.NewBoundContract(addr, parsed, nil, nil, nil),
		address:  addr,
	}
}

func nodeRegisteredLog(t *testing.T, r *Registry, address common.Address, id int64, location string) *types.Log {
	t.Helper()
	event := r.abi.Events["NodeRegistered"]
	data, err := event.Inputs.NonIndexed().Pack(location)
	require.NoError(t, err)
	return &types.Log{
		Address: address,
		Topics:  []common.Hash{event.ID, common.BigToHash(big.NewInt(id))},
		Data:    data,
	}
}

func TestFindEventLogParsesAssignedNodeID(t *testing.T) {
	logger.ConfigureTestLogging(t)
	r := testRegistry(t)

	// The receipt also carries a log from another contract; only the
	// registry's own event decides the id.
	other := common.HexToAddress("0x2222222222222222222222222222222222222222")
	receipt := &types.Receipt{Logs: []*types.Log{
		nodeRegisteredLog(t, r, other, 99, "imposter"),
		nodeRegisteredLog(t, r, r.address, 42, "substation-9"),
	}}

	var event nodeRegisteredEvent
	require.True(t, r.findEventLog(receipt, "NodeRegistered", &event))
	assert.Equal(t, uint64(42), event.Id.Uint64())
	assert.Equal(t, "substation-9", event.Location)
}

func TestFindEventLogParsesAssignedEdgeID(t *testing.T) {
	logger.ConfigureTestLogging(t)
	r := testRegistry(t)

	event := r.abi.Events["EdgeRegistered"]
	receipt := &types.Receipt{Logs: []*types.Log{{
		Address: r.address,
		Topics: []common.Hash{
			event.ID,
			common.BigToHash(big.NewInt(5)),
			common.BigToHash(big.NewInt(1)),
			common.BigToHash(big.NewInt(2)),
		},
	}}}

	var parsed edgeRegisteredEvent
	require.True(t, r.findEventLog(receipt, "EdgeRegistered", &parsed))
	assert.Equal(t, uint64(5), parsed.Id.Uint64())
	assert.Equal(t, uint64(1), parsed.FromId.Uint64())
	assert.Equal(t, uint64(2), parsed.ToId.Uint64())
}

func TestFindEventLogReportsMissingEvent(t *testing.T) {
	logger.ConfigureTestLogging(t)
	r := testRegistry(t)

	receipt := &types.Receipt{Logs: []*types.Log{
		nodeRegisteredLog(t, r, common.HexToAddress("0x3333333333333333333333333333333333333333"), 7, "elsewhere"),
	}}

	var event nodeRegisteredEvent
	assert.False(t, r.findEventLog(receipt, "NodeRegistered", &event))
}
