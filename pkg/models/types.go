package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Node is a registered energy-monitoring point. Nodes are array-indexed on
// chain: ids are assigned sequentially at registration and never reused.
type Node struct {
	ID       uint64 `json:"id"`
	Location string `json:"location"`
	// Coordinates in ten-thousandths of a degree, matching the on-chain
	// fixed-point encoding.
	Latitude     int64     `json:"latitude"`
	Longitude    int64     `json:"longitude"`
	Active       bool      `json:"active"`
	RegisteredAt time.Time `json:"registeredAt"`
	LastUpdate   time.Time `json:"lastUpdate"`
}

// Edge is a directed grid link between two registered nodes.
type Edge struct {
	ID           uint64    `json:"id"`
	From         uint64    `json:"from"`
	To           uint64    `json:"to"`
	EdgeType     string    `json:"edgeType"`
	CapacityKW   uint64    `json:"capacityKw"`
	DistanceM    uint64    `json:"distanceM"`
	Active       bool      `json:"active"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// DataPoint is a single measurement appended to a node's series. Measurement
// is in milliunits (kWh * 1000) to keep the on-chain representation integral.
type DataPoint struct {
	Timestamp   time.Time `json:"timestamp"`
	Measurement int64     `json:"measurement"`
	Location    string    `json:"location"`
	// Coordinates in ten-thousandths of a degree.
	Latitude  int64          `json:"latitude"`
	Longitude int64          `json:"longitude"`
	NodeID    uint64         `json:"nodeId"`
	Reporter  common.Address `json:"reporter"`
}

// DeliveryStatus tracks a cross-chain message through its lifecycle as
// observed from the source side.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryInflight  DeliveryStatus = "inflight"
	DeliveryConfirmed DeliveryStatus = "confirmed"
	DeliveryFailed    DeliveryStatus = "failed"
	// DeliveryUnknown means the toolkit's polling budget expired before the
	// destination reflected the message. The relay may still deliver later.
	DeliveryUnknown DeliveryStatus = "unknown"
)

// Delivery is the record of one cross-chain envelope send: which channel it
// went over, the identifiers the relay assigned, and what we observed.
type Delivery struct {
	GUID        common.Hash    `json:"guid"`
	Nonce       uint64         `json:"nonce"`
	SourceChain uint64         `json:"sourceChain"`
	DestChain   uint64         `json:"destChain"`
	DestEID     uint32         `json:"destEid"`
	TxHash      common.Hash    `json:"txHash"`
	PayloadSize int            `json:"payloadSize"`
	Records     int            `json:"records"`
	Status      DeliveryStatus `json:"status"`
	SentAt      time.Time      `json:"sentAt"`
	Message     string         `json:"message,omitempty"`
}
