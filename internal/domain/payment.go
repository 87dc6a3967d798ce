package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidDestination indicates a malformed destination address.
	ErrInvalidDestination = errors.New("invalid destination address")
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrDestinationNotFound indicates that the destination account does not exist on the network.
	ErrDestinationNotFound = errors.New("destination account not found")
	// ErrSubmissionFailed indicates that the network rejected or errored on the submission.
	ErrSubmissionFailed = errors.New("transaction submission failed")
	// ErrSubmissionUnknown indicates that the submission outcome could not be
	// observed. The debit is kept until reconciliation resolves it.
	ErrSubmissionUnknown = errors.New("transaction submission outcome unknown")
	// ErrPaymentNotFound indicates that the payment record is not found.
	ErrPaymentNotFound = errors.New("payment not found")
)

// PaymentStatus is the lifecycle state of an outbound payment.
type PaymentStatus string

// Outbound payment statuses.
const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentUnknown   PaymentStatus = "unknown"
)

// Payment records an outbound submission from the vault on behalf of an
// account. TxHash is computed before submission and doubles as the
// idempotent submission identifier used to reconcile unknown outcomes.
type Payment struct {
	ID          uuid.UUID     `json:"id"`
	AccountID   int64         `json:"account_id"`
	Destination string        `json:"destination"`
	Amount      string        `json:"amount"`
	Status      PaymentStatus `json:"status"`
	TxHash      string        `json:"tx_hash,omitempty"`
	Cause       string        `json:"cause,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ReservePaymentParams is the input data to reserve funds for an outbound payment.
type ReservePaymentParams struct {
	AccountID   int64
	Destination string
	Amount      string
}

// PreparedTx is a signed transaction envelope together with its network
// hash, known before submission.
type PreparedTx struct {
	Hash     string
	Envelope string
}

// SubmitOutcome classifies the result of a transaction submission.
type SubmitOutcome int

// The three submission outcomes. Unknown means the network may or may not
// have applied the transaction; it must never be treated as a failure.
const (
	SubmitConfirmed SubmitOutcome = iota
	SubmitRejected
	SubmitUnknown
)

// TxLanding is the eventual fate of a submitted transaction as reported
// by the network.
type TxLanding int

// Landing states used during unknown-outcome reconciliation.
const (
	LandingSucceeded TxLanding = iota
	LandingFailed
	LandingNotFound
)
