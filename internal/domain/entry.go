package domain

import "time"

// Entry holds balance change data for an account.
// Every credit, debit and refund writes one entry, so the sum of entries
// for an account always reconciles with its balance.
type Entry struct {
	ID        int64
	AccountID int64
	Amount    string // can be negative or positive
	CreatedAt time.Time
}
