// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists indicates that the owner already has an account.
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrOwnerNotFound indicates that the owner for the account is not found.
	ErrOwnerNotFound = errors.New("owner not found")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Account holds a user's share of the pooled vault account.
//
// Address is the muxed sub-address derived from the vault's public key
// and ID; it is unique and never changes after creation. Balance is the
// internally authoritative spendable amount, a non-negative decimal with
// 7 fractional digits.
type Account struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Address   string    `json:"address"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}
