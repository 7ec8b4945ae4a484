// Package ledger defines the bookkeeping entities and the read/write ports
// the analytics and report services are built against. Implementations live
// in subpackages; the services only see these interfaces.
package ledger

import (
	"context"
	"errors"
	"time"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrSameAccount         = errors.New("source and destination accounts must differ")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
	ErrUnknownType         = errors.New("unknown transaction type")
)

type (
	// Account is a bookkeeping account with its maintained balance.
	Account struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Type     string  `json:"type"`
		Currency string  `json:"currency"`
		Balance  float64 `json:"balance"`
	}

	// Transaction is one ledger entry. Amount is a non-negative magnitude;
	// Type carries the sign.
	Transaction struct {
		ID          string    `json:"id"`
		AccountID   string    `json:"account_id"`
		Amount      float64   `json:"amount"`
		Type        string    `json:"type"`
		Category    string    `json:"category"`
		Description string    `json:"description"`
		Date        time.Time `json:"date"`
	}

	// TransactionInput carries the caller-supplied fields of a new entry.
	TransactionInput struct {
		AccountID   string
		Amount      float64
		Type        string
		Category    string
		Description string
		Date        time.Time
	}

	// Filter narrows a transaction listing. Zero values leave the
	// corresponding dimension unbounded; To is inclusive.
	Filter struct {
		AccountID string
		From      time.Time
		To        time.Time
	}
)

// AccountReader lists account snapshots.
type AccountReader interface {
	Accounts(ctx context.Context) ([]Account, error)
}

// TransactionReader lists transactions matching a filter.
type TransactionReader interface {
	Transactions(ctx context.Context, f Filter) ([]Transaction, error)
}

// Reader is the full read port the analytics orchestration consumes.
type Reader interface {
	AccountReader
	TransactionReader
}

// Matches reports whether t satisfies the filter.
func (f Filter) Matches(t Transaction) bool {
	if f.AccountID != "" && t.AccountID != f.AccountID {
		return false
	}
	if !f.From.IsZero() && t.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.Date.After(f.To) {
		return false
	}
	return true
}
