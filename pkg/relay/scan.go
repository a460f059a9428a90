package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/opengrid-project/gridctl/pkg/griderrors"
	"github.com/opengrid-project/gridctl/pkg/models"
)

// ScanClient queries the relay network's public message-status API by GUID.
// It is a diagnosis aid: destination-chain state is the source of truth for
// delivery, but the scan API explains what the relay itself saw, which is
// the only visibility into silently failed destination execution.
type ScanClient struct {
	baseURL string
	http    *retryablehttp.Client
}

// ScanMessage is one message status as the scan API reports it.
type ScanMessage struct {
	GUID    string `json:"guid"`
	SrcEID  uint32 `json:"srcEid"`
	DstEID  uint32 `json:"dstEid"`
	Status  string `json:"status"`
	SrcTx   string `json:"srcTxHash"`
	DstTx   string `json:"dstTxHash,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Updated int64  `json:"updated"`
}

type scanResponse struct {
	Data []ScanMessage `json:"data"`
}

func NewScanClient(baseURL string) (*ScanClient, error) {
	if baseURL == "" {
		return nil, griderrors.NewConfigurationError("scan api url is not configured")
	}
	client := retryablehttp.NewClient()
	client.RetryMax = 4
	client.RetryWaitMin = 1 * time.Second
	client.RetryWaitMax = 10 * time.Second
	client.HTTPClient.Timeout = 30 * time.Second
	client.Logger = nil // zerolog below, not retryablehttp's own logger
	return &ScanClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    client,
	}, nil
}

// MessageStatus looks up a sent envelope by its relay-assigned GUID.
func (s *ScanClient) MessageStatus(ctx context.Context, guid common.Hash) (ScanMessage, error) {
	url := fmt.Sprintf("%s/messages/%s", s.baseURL, guid.Hex())
	log.Ctx(ctx).Debug().Str("url", url).Msg("querying relay scan api")

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ScanMessage{}, errors.Wrap(err, "building scan request")
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return ScanMessage{}, errors.Wrap(err, "querying scan api")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ScanMessage{}, griderrors.NewDeliveryError("scan api has no record of message %s yet", guid.Hex())
	}
	if resp.StatusCode != http.StatusOK {
		return ScanMessage{}, griderrors.NewDeliveryError("scan api returned status %d", resp.StatusCode)
	}

	var parsed scanResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ScanMessage{}, errors.Wrap(err, "decoding scan response")
	}
	if len(parsed.Data) == 0 {
		return ScanMessage{}, griderrors.NewDeliveryError("scan api returned no entries for %s", guid.Hex())
	}
	return parsed.Data[0], nil
}

// DeliveryStatusFromScan maps the scan API's status vocabulary onto the
// toolkit's delivery states.
func DeliveryStatusFromScan(msg ScanMessage) models.DeliveryStatus {
	switch strings.ToUpper(msg.Status) {
	case "PENDING":
		return models.DeliveryPending
	case "DELIVERED":
		return models.DeliveryConfirmed
	case "INFLIGHT", "CONFIRMING":
		return models.DeliveryInflight
	case "FAILED", "BLOCKED", "PAYLOAD_STORED":
		return models.DeliveryFailed
	default:
		return models.DeliveryUnknown
	}
}
