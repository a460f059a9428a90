//go:build unit || !integration

package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengrid-project/gridctl/pkg/griderrors"
	"github.com/opengrid-project/gridctl/pkg/logger"
	"github.com/opengrid-project/gridctl/pkg/models"
)

func TestScanClientMessageStatus(t *testing.T) {
	logger.ConfigureTestLogging(t)
	guid := common.HexToHash("0xabcdef")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages/"+guid.Hex(), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"guid":"` + guid.Hex() + `","srcEid":40161,"dstEid":40106,"status":"DELIVERED","srcTxHash":"0x01"}]}`))
	}))
	defer server.Close()

	client, err := NewScanClient(server.URL)
	require.NoError(t, err)

	msg, err := client.MessageStatus(context.Background(), guid)
	require.NoError(t, err)
	assert.Equal(t, "DELIVERED", msg.Status)
	assert.Equal(t, uint32(40161), msg.SrcEID)
	assert.Equal(t, models.DeliveryConfirmed, DeliveryStatusFromScan(msg))
}

func TestScanClientUnknownMessage(t *testing.T) {
	logger.ConfigureTestLogging(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewScanClient(server.URL)
	require.NoError(t, err)

	_, err = client.MessageStatus(context.Background(), common.HexToHash("0x01"))
	require.Error(t, err)
	assert.Equal(t, griderrors.CodeDelivery, griderrors.Code(err))
}

func TestScanClientRequiresURL(t *testing.T) {
	_, err := NewScanClient("")
	require.Error(t, err)
	assert.Equal(t, griderrors.CodeConfiguration, griderrors.Code(err))
}

func TestDeliveryStatusFromScan(t *testing.T) {
	testcases := map[string]models.DeliveryStatus{
		"PENDING":   models.DeliveryPending,
		"DELIVERED": models.DeliveryConfirmed,
		"inflight":  models.DeliveryInflight,
		"FAILED":    models.DeliveryFailed,
		"BLOCKED":   models.DeliveryFailed,
		"whatever":  models.DeliveryUnknown,
	}
	for status, want := range testcases {
		assert.Equal(t, want, DeliveryStatusFromScan(ScanMessage{Status: status}), status)
	}
}

func TestPadReceiver(t *testing.T) {
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	padded := PadReceiver(addr)
	assert.Equal(t, [12]byte{}, [12]byte(padded[:12]))
	assert.Equal(t, addr.Bytes(), padded[12:])
}
