package domain

import (
	"errors"
	"time"
)

// ErrUnroutablePayment indicates an incoming payment whose routing
// extension maps to no known account. The payment is quarantined for
// operator resolution, never silently dropped.
var ErrUnroutablePayment = errors.New("unroutable incoming payment")

// IncomingPayment is an ephemeral transfer record read off the network's
// payment stream for the vault address. PagingToken is the resume cursor.
type IncomingPayment struct {
	ID          string
	PagingToken string
	From        string
	To          string
	MuxedID     uint64
	HasMuxedID  bool
	AssetType   string
	Amount      string
}

// CreditDepositParams is the input data to credit an incoming payment and
// advance the stream cursor in one atomic unit.
type CreditDepositParams struct {
	VaultAddress string
	PagingToken  string
	AccountID    int64
	Amount       string
}

// QuarantineDepositParams is the input data to record an unroutable or
// malformed incoming payment and advance the cursor past it.
type QuarantineDepositParams struct {
	VaultAddress string
	PagingToken  string
	From         string
	To           string
	MuxedID      int64
	HasMuxedID   bool
	AssetType    string
	Amount       string
	Reason       string
}

// UnroutablePayment is a quarantined incoming payment awaiting operator
// resolution.
type UnroutablePayment struct {
	ID           int64     `json:"id"`
	VaultAddress string    `json:"vault_address"`
	PagingToken  string    `json:"paging_token"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	MuxedID      *int64    `json:"muxed_id,omitempty"`
	AssetType    string    `json:"asset_type"`
	Amount       string    `json:"amount"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}
